package ports

import "github.com/framelight/framelight/pkg/domain"

// Player is the surface a playback session exposes to transports (HTTP,
// MCP, CLI). All methods are safe for concurrent use; degenerate calls
// (back with no history, close with no overlay, triggers on a non-current
// frame) are absorbed as no-ops per the engine's permissive-degrade policy.
type Player interface {
	// HandleTrigger dispatches every interaction registered for the
	// (frame, trigger) pair, in registration order.
	HandleTrigger(frameID string, trigger domain.Trigger)

	// NavigateTo appends a history entry and makes frameID current.
	NavigateTo(frameID string, transition domain.TransitionConfig)

	// GoBack pops the history. No-op when CanGoBack is false.
	GoBack(transition domain.TransitionConfig)

	// Reset returns playback to the start frame, clearing overlays, scroll
	// positions, and pending timers, and restoring variable defaults.
	Reset(startFrameID string)

	// SetVariable writes a prototype variable.
	SetVariable(key string, value any)

	// Pause cancels all pending delay timers; Play resumes playback
	// without re-arming them.
	Pause()
	Play()

	// Close releases every timer. The player must not be used afterwards.
	Close()

	// Snapshot returns the current immutable state snapshot.
	Snapshot() *domain.PrototypeState
}
