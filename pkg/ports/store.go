package ports

import (
	"context"

	"github.com/framelight/framelight/pkg/domain"
)

// SnapshotStore persists playback snapshots keyed by session ID, enabling a
// playback session to survive process restarts.
type SnapshotStore interface {
	// Save persists the snapshot for a session.
	Save(ctx context.Context, sessionID string, state *domain.PrototypeState) error

	// Load retrieves the snapshot for a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.PrototypeState, error)

	// Delete removes the snapshot for a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
