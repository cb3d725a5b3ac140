// Package session manages playback sessions: it creates players from a
// prototype source, persists their snapshots, and resumes them later.
package session

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/rs/xid"

	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
)

// lockEntry holds the mutex and the reference count for one session.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations
// on each session. It uses reference counting to garbage collect unused
// locks, and keeps live players cached so delay timers survive between
// requests.
type Manager struct {
	source ports.PrototypeSource
	store  ports.SnapshotStore

	mu      sync.Mutex
	locks   map[string]*lockEntry
	players map[string]*runtime.Player
	closed  bool

	playerOpts []runtime.Option
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithPlayerOptions passes options through to every player the Manager
// creates, typically hooks or metrics.
func WithPlayerOptions(opts ...runtime.Option) Option {
	return func(m *Manager) {
		m.playerOpts = append(m.playerOpts, opts...)
	}
}

// NewManager creates a session Manager backed by the given prototype source
// and snapshot store.
func NewManager(source ports.PrototypeSource, store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		source:  source,
		store:   store,
		locks:   make(map[string]*lockEntry),
		players: make(map[string]*runtime.Player),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after
// unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it
// reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// withLock executes fn while holding the lock for the session.
func (m *Manager) withLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	return fn(ctx)
}

// newPlayer builds a player loaded with the source's frames, interactions
// and variables.
func (m *Manager) newPlayer() (*runtime.Player, error) {
	opts := append([]runtime.Option{runtime.WithLogger(m.logger)}, m.playerOpts...)
	player := runtime.NewPlayer(m.source.StartFrame(), opts...)

	frames, err := m.source.Frames()
	if err != nil {
		return nil, fmt.Errorf("failed to load frames: %w", err)
	}
	vars, err := m.source.Variables()
	if err != nil {
		return nil, fmt.Errorf("failed to load variables: %w", err)
	}
	player.RegisterVariables(vars)
	for _, frame := range frames {
		player.RegisterFrame(frame)
		interactions, err := m.source.Interactions(frame.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load interactions for %q: %w", frame.ID, err)
		}
		player.RegisterInteractions(frame.ID, interactions)
	}
	return player, nil
}

// Start creates a new playback session and persists its initial snapshot.
// It returns the generated session ID.
func (m *Manager) Start(ctx context.Context) (string, error) {
	sessionID := xid.New().String()

	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		player, err := m.newPlayer()
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, sessionID, player.Snapshot()); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			player.Close()
			return domain.ErrPlayerClosed
		}
		m.players[sessionID] = player
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("Session started", "session_id", sessionID)
	return sessionID, nil
}

// player returns the live player for a session, resuming it from the store
// when it is not cached. Must be called with the session lock held.
func (m *Manager) player(ctx context.Context, sessionID string) (*runtime.Player, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, domain.ErrPlayerClosed
	}
	player, ok := m.players[sessionID]
	m.mu.Unlock()
	if ok {
		return player, nil
	}

	state, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	player, err = m.newPlayer()
	if err != nil {
		return nil, err
	}
	player.Restore(state)

	m.mu.Lock()
	m.players[sessionID] = player
	m.mu.Unlock()

	m.logger.Debug("Session resumed from store", "session_id", sessionID)
	return player, nil
}

// persist saves the player's current snapshot. Must be called with the
// session lock held.
func (m *Manager) persist(ctx context.Context, sessionID string, player *runtime.Player) error {
	if err := m.store.Save(ctx, sessionID, player.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Snapshot returns the current state of a session.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (*domain.PrototypeState, error) {
	var state *domain.PrototypeState
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		player, err := m.player(ctx, sessionID)
		if err != nil {
			return err
		}
		state = player.Snapshot()
		return nil
	})
	return state, err
}

// Trigger fires a trigger against the session's current frame and persists
// the resulting state.
func (m *Manager) Trigger(ctx context.Context, sessionID string, trigger domain.Trigger) (*domain.PrototypeState, error) {
	return m.mutate(ctx, sessionID, func(player *runtime.Player) {
		player.HandleTrigger(player.CurrentFrameID(), trigger)
	})
}

// Back navigates the session one step back in its history.
func (m *Manager) Back(ctx context.Context, sessionID string) (*domain.PrototypeState, error) {
	return m.mutate(ctx, sessionID, func(player *runtime.Player) {
		player.GoBack(domain.TransitionConfig{})
	})
}

// Reset returns the session to the prototype's start frame with fresh
// history, overlays and variable defaults.
func (m *Manager) Reset(ctx context.Context, sessionID string) (*domain.PrototypeState, error) {
	start := m.source.StartFrame()
	return m.mutate(ctx, sessionID, func(player *runtime.Player) {
		player.Reset(start)
	})
}

// SetVariable assigns a variable in the session and persists the result.
func (m *Manager) SetVariable(ctx context.Context, sessionID, key string, value any) (*domain.PrototypeState, error) {
	return m.mutate(ctx, sessionID, func(player *runtime.Player) {
		player.SetVariable(key, value)
	})
}

// mutate runs fn against the session's player under its lock and persists
// the snapshot afterwards.
func (m *Manager) mutate(ctx context.Context, sessionID string, fn func(*runtime.Player)) (*domain.PrototypeState, error) {
	var state *domain.PrototypeState
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		player, err := m.player(ctx, sessionID)
		if err != nil {
			return err
		}
		fn(player)
		state = player.Snapshot()
		return m.persist(ctx, sessionID, player)
	})
	return state, err
}

// Delete closes the session's player, cancelling any pending delay timers,
// and removes the snapshot from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.withLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		player, ok := m.players[sessionID]
		delete(m.players, sessionID)
		m.mu.Unlock()
		if ok {
			player.Close()
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns the IDs of all persisted sessions.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Close shuts down every live player and rejects further session access
// with domain.ErrPlayerClosed. Persisted snapshots are left intact.
func (m *Manager) Close() {
	m.mu.Lock()
	players := m.players
	m.players = make(map[string]*runtime.Player)
	m.closed = true
	m.mu.Unlock()

	for _, player := range players {
		player.Close()
	}
}
