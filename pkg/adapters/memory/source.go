// Package memory provides in-memory implementations of the framelight
// ports: a PrototypeSource for programmatically built prototypes and a
// SnapshotStore for ephemeral sessions.
package memory

import (
	"fmt"
	"sync"

	"github.com/framelight/framelight/pkg/domain"
)

// Source implements ports.PrototypeSource over in-memory frame data.
// Safe for concurrent use.
type Source struct {
	mu           sync.RWMutex
	start        string
	order        []string
	frames       map[string]domain.Frame
	interactions map[string][]domain.Interaction
	variables    []domain.Variable
}

// NewSource creates a source from complete prototype data. The start frame
// must exist among the given frames.
func NewSource(start string, frames []domain.Frame, interactions map[string][]domain.Interaction, variables []domain.Variable) (*Source, error) {
	s := &Source{
		start:        start,
		frames:       make(map[string]domain.Frame, len(frames)),
		interactions: make(map[string][]domain.Interaction, len(interactions)),
	}
	for _, f := range frames {
		if f.ID == "" {
			return nil, fmt.Errorf("frame with empty id")
		}
		if _, dup := s.frames[f.ID]; dup {
			return nil, fmt.Errorf("duplicate frame id %q", f.ID)
		}
		s.frames[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	if _, ok := s.frames[start]; !ok {
		return nil, fmt.Errorf("start frame %q not defined", start)
	}
	for frameID, rules := range interactions {
		cp := make([]domain.Interaction, len(rules))
		copy(cp, rules)
		s.interactions[frameID] = cp
	}
	s.variables = make([]domain.Variable, len(variables))
	copy(s.variables, variables)
	return s, nil
}

// StartFrame returns the entry frame ID.
func (s *Source) StartFrame() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// Frame retrieves a frame definition.
func (s *Source) Frame(id string) (domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.frames[id]
	if !ok {
		return domain.Frame{}, fmt.Errorf("%w: %s", domain.ErrFrameNotFound, id)
	}
	return f, nil
}

// Frames lists all frames in insertion order.
func (s *Source) Frames() ([]domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Frame, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.frames[id])
	}
	return out, nil
}

// Interactions returns the registered interactions for a frame.
func (s *Source) Interactions(frameID string) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := s.interactions[frameID]
	out := make([]domain.Interaction, len(rules))
	copy(out, rules)
	return out, nil
}

// Variables lists the declared variables.
func (s *Source) Variables() ([]domain.Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Variable, len(s.variables))
	copy(out, s.variables)
	return out, nil
}
