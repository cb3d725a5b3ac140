package framelight

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"log/slog"

	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/adapters/file"
	"github.com/framelight/framelight/pkg/adapters/memory"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/ports"
	"github.com/framelight/framelight/pkg/schema"
	"github.com/framelight/framelight/pkg/session"
)

// Version is the library version, overridden at build time via ldflags.
var Version = "0.1.0"

// Engine is the high-level entry point for the Framelight library.
// It binds a prototype source to the playback runtime and provides a
// simplified API for consumers.
type Engine struct {
	source ports.PrototypeSource
	store  ports.SnapshotStore
	hooks  domain.PlaybackHooks
	logger *slog.Logger
	Name   string
}

// Prototype is the introspection view of the loaded document.
type Prototype struct {
	StartFrame   string
	Frames       []domain.Frame
	Interactions map[string][]domain.Interaction
	Variables    []domain.Variable
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSource injects a custom prototype source, bypassing the default
// YAML file loading.
func WithSource(source ports.PrototypeSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithSnapshotStore sets the persistence backend for playback sessions.
// The default keeps sessions in memory.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithPlaybackHooks registers the output callbacks invoked by players.
func WithPlaybackHooks(hooks domain.PlaybackHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a Framelight Engine. By default it loads the prototype
// from the YAML document at docPath. If the WithSource option is provided,
// docPath may be empty and file loading is skipped.
func New(docPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.source == nil {
		if docPath == "" {
			return nil, fmt.Errorf("docPath is required when no custom source is provided")
		}

		absPath, err := filepath.Abs(docPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		src, err := file.New(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load prototype: %w", err)
		}
		eng.source = src
		eng.Name = src.Name()
	} else if docPath != "" {
		eng.Name = filepath.Base(docPath)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("prototype", eng.Name)
	}

	return eng, nil
}

// NewPlayer creates a standalone player loaded with the engine's prototype.
// The caller owns the player and must Close it to release delay timers.
func (e *Engine) NewPlayer() (*runtime.Player, error) {
	player := runtime.NewPlayer(e.source.StartFrame(),
		runtime.WithHooks(e.hooks),
		runtime.WithLogger(e.logger),
	)

	frames, err := e.source.Frames()
	if err != nil {
		return nil, fmt.Errorf("failed to load frames: %w", err)
	}
	vars, err := e.source.Variables()
	if err != nil {
		return nil, fmt.Errorf("failed to load variables: %w", err)
	}
	player.RegisterVariables(vars)
	for _, frame := range frames {
		player.RegisterFrame(frame)
		rules, err := e.source.Interactions(frame.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load interactions for %q: %w", frame.ID, err)
		}
		player.RegisterInteractions(frame.ID, rules)
	}
	return player, nil
}

// Sessions creates a session manager multiplexing persistent players over
// the engine's snapshot store.
func (e *Engine) Sessions(opts ...session.Option) *session.Manager {
	managerOpts := append([]session.Option{
		session.WithLogger(e.logger),
		session.WithPlayerOptions(runtime.WithHooks(e.hooks)),
	}, opts...)
	return session.NewManager(e.source, e.store, managerOpts...)
}

// Inspect returns the full prototype definition for visualization or
// introspection tools.
func (e *Engine) Inspect() (*Prototype, error) {
	frames, err := e.source.Frames()
	if err != nil {
		return nil, err
	}
	vars, err := e.source.Variables()
	if err != nil {
		return nil, err
	}
	proto := &Prototype{
		StartFrame:   e.source.StartFrame(),
		Frames:       frames,
		Interactions: make(map[string][]domain.Interaction, len(frames)),
		Variables:    vars,
	}
	for _, frame := range frames {
		rules, err := e.source.Interactions(frame.ID)
		if err != nil {
			return nil, err
		}
		if len(rules) > 0 {
			proto.Interactions[frame.ID] = rules
		}
	}
	return proto, nil
}

// Validate checks the prototype for structural problems: dangling
// destinations, duplicate interaction IDs, unknown triggers or actions.
// Issues are advisory; playback degrades permissively around them.
func (e *Engine) Validate() ([]schema.Issue, error) {
	return schema.Validate(e.source)
}

// Watch returns a channel that signals when the underlying document
// changes. Returns an error if the source does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.source.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current source does not support watching")
}

// Source returns the underlying prototype source used by the engine.
func (e *Engine) Source() ports.PrototypeSource {
	return e.source
}
