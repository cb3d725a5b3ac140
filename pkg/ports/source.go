package ports

import (
	"context"

	"github.com/framelight/framelight/pkg/domain"
)

// PrototypeSource supplies the document side of a prototype: frames, the
// interactions registered on each frame, and variable declarations.
// Implementations are read-only from the engine's point of view.
type PrototypeSource interface {
	// StartFrame returns the ID of the frame playback begins on.
	StartFrame() string

	// Frame retrieves a single frame definition.
	// Returns domain.ErrFrameNotFound if the ID is unknown.
	Frame(id string) (domain.Frame, error)

	// Frames lists every frame in the prototype, in document order.
	Frames() ([]domain.Frame, error)

	// Interactions returns the interactions registered on a frame, in
	// registration order. An unknown frame yields an empty slice.
	Interactions(frameID string) ([]domain.Interaction, error)

	// Variables lists the prototype's variable declarations.
	Variables() ([]domain.Variable, error)
}

// Watchable is implemented by sources that can signal backend changes,
// typically for hot reload during design iteration.
type Watchable interface {
	// Watch returns a channel signaled whenever the prototype definition
	// changes. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
