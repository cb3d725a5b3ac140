/*
Package session implements playback session management and persistence orchestration.

It owns the lifecycle of concurrent players keyed by session ID, serializes
access per session, and keeps every mutation mirrored into a snapshot store so
sessions survive process restarts.
*/
package session
