// Package file loads a prototype definition from a YAML document and can
// watch it for changes during design iteration.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/framelight/framelight/pkg/adapters/memory"
	"github.com/framelight/framelight/pkg/domain"
)

// document is the on-disk YAML shape. Durations are human-readable
// strings ("500ms", "2s") rather than nanosecond integers.
type document struct {
	Name      string        `yaml:"name"`
	Start     string        `yaml:"start"`
	Variables []docVariable `yaml:"variables"`
	Frames    []docFrame    `yaml:"frames"`
}

type docVariable struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default"`
}

type docFrame struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Width        float64          `yaml:"width"`
	Height       float64          `yaml:"height"`
	Background   string           `yaml:"background"`
	Content      string           `yaml:"content"`
	Interactions []docInteraction `yaml:"interactions"`
}

type docInteraction struct {
	ID          string                   `yaml:"id"`
	Trigger     string                   `yaml:"trigger"`
	Action      string                   `yaml:"action"`
	Destination string                   `yaml:"destination"`
	Delay       string                   `yaml:"delay"`
	URL         string                   `yaml:"url"`
	Transition  *docTransition           `yaml:"transition"`
	Overlay     *domain.OverlaySettings  `yaml:"overlay"`
	Scroll      *domain.ScrollSettings   `yaml:"scroll"`
	Variable    *domain.VariableMutation `yaml:"variable"`
	Conditional *docConditional          `yaml:"conditional"`
}

type docTransition struct {
	Type        string `yaml:"type"`
	Direction   string `yaml:"direction"`
	Easing      string `yaml:"easing"`
	Duration    string `yaml:"duration"`
	MatchLayers bool   `yaml:"match_layers"`
}

type docConditional struct {
	If   domain.ConditionGroup `yaml:"if"`
	Then string                `yaml:"then"`
	Else string                `yaml:"else"`
}

// Source implements ports.PrototypeSource backed by a YAML file. The file
// is parsed once at construction; Reload re-reads it, and Watch signals
// when the file changes on disk.
type Source struct {
	path string
	name string

	mu    sync.RWMutex
	inner *memory.Source
}

// New loads a prototype from path.
func New(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	s := &Source{path: abs}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the prototype's declared name, or the file name.
func (s *Source) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.name != "" {
		return s.name
	}
	return filepath.Base(s.path)
}

// Reload re-reads and re-parses the backing file.
func (s *Source) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read prototype: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse prototype: %w", err)
	}

	inner, err := compile(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.inner = inner
	s.name = doc.Name
	s.mu.Unlock()
	return nil
}

func compile(doc document) (*memory.Source, error) {
	frames := make([]domain.Frame, 0, len(doc.Frames))
	interactions := make(map[string][]domain.Interaction, len(doc.Frames))

	for _, df := range doc.Frames {
		frames = append(frames, domain.Frame{
			ID:         df.ID,
			Name:       df.Name,
			Width:      df.Width,
			Height:     df.Height,
			Background: df.Background,
			Content:    df.Content,
		})
		for _, di := range df.Interactions {
			it, err := convertInteraction(di)
			if err != nil {
				return nil, fmt.Errorf("frame %s: %w", df.ID, err)
			}
			interactions[df.ID] = append(interactions[df.ID], it)
		}
	}

	variables := make([]domain.Variable, 0, len(doc.Variables))
	for _, dv := range doc.Variables {
		variables = append(variables, domain.Variable{
			Name:    dv.Name,
			Type:    domain.VariableType(dv.Type),
			Default: dv.Default,
		})
	}

	start := doc.Start
	if start == "" && len(frames) > 0 {
		start = frames[0].ID
	}
	return memory.NewSource(start, frames, interactions, variables)
}

func convertInteraction(di docInteraction) (domain.Interaction, error) {
	it := domain.Interaction{
		ID:          di.ID,
		Trigger:     domain.Trigger(di.Trigger),
		Action:      domain.ActionType(di.Action),
		Destination: di.Destination,
		URL:         di.URL,
		Overlay:     di.Overlay,
		Scroll:      di.Scroll,
		Variable:    di.Variable,
	}
	if di.Delay != "" {
		d, err := time.ParseDuration(di.Delay)
		if err != nil {
			return domain.Interaction{}, fmt.Errorf("interaction %s: bad delay %q: %w", di.ID, di.Delay, err)
		}
		it.Delay = d
	}
	if di.Transition != nil {
		cfg, err := convertTransition(*di.Transition)
		if err != nil {
			return domain.Interaction{}, fmt.Errorf("interaction %s: %w", di.ID, err)
		}
		it.Transition = cfg
	}
	if di.Conditional != nil {
		it.Conditional = &domain.ConditionalAction{
			If:   di.Conditional.If,
			Then: di.Conditional.Then,
			Else: di.Conditional.Else,
		}
	}
	return it, nil
}

func convertTransition(dt docTransition) (domain.TransitionConfig, error) {
	cfg := domain.TransitionConfig{
		Type:        domain.TransitionType(dt.Type),
		Direction:   domain.Direction(dt.Direction),
		Easing:      domain.Easing(dt.Easing),
		MatchLayers: dt.MatchLayers,
	}
	if dt.Duration != "" {
		d, err := time.ParseDuration(dt.Duration)
		if err != nil {
			return domain.TransitionConfig{}, fmt.Errorf("bad transition duration %q: %w", dt.Duration, err)
		}
		cfg.Duration = d
	}
	return cfg, nil
}

// --- ports.PrototypeSource ---

func (s *Source) StartFrame() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.StartFrame()
}

func (s *Source) Frame(id string) (domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Frame(id)
}

func (s *Source) Frames() ([]domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Frames()
}

func (s *Source) Interactions(frameID string) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Interactions(frameID)
}

func (s *Source) Variables() ([]domain.Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Variables()
}

// Watch signals whenever the backing file changes. Each signal is preceded
// by a Reload attempt; a file that fails to parse keeps the previous
// definition and still signals, so hosts can surface the failure.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file atomically,
	// which unlinks the watched inode.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.path, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != s.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				_ = s.Reload()
				select {
				case ch <- struct{}{}:
				default:
				}
			case <-watcher.Errors:
			}
		}
	}()
	return ch, nil
}
