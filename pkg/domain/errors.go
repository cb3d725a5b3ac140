package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFrameNotFound is returned when a prototype source has no frame with the given ID.
var ErrFrameNotFound = errors.New("frame not found")

// ErrPlayerClosed is returned by session operations after the player was disposed.
var ErrPlayerClosed = errors.New("player closed")
