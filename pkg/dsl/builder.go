package dsl

import (
	"fmt"

	"github.com/framelight/framelight/pkg/adapters/memory"
	"github.com/framelight/framelight/pkg/domain"
)

// Builder manages prototype construction.
type Builder struct {
	start     string
	order     []string
	frames    map[string]*FrameBuilder
	variables []domain.Variable
}

// New creates a prototype builder starting at the given frame.
func New(startFrameID string) *Builder {
	return &Builder{
		start:  startFrameID,
		frames: make(map[string]*FrameBuilder),
	}
}

// Frame creates (or returns) the builder for a frame.
func (b *Builder) Frame(id string) *FrameBuilder {
	if fb, ok := b.frames[id]; ok {
		return fb
	}
	fb := &FrameBuilder{
		frame:   domain.Frame{ID: id},
		builder: b,
	}
	b.frames[id] = fb
	b.order = append(b.order, id)
	return fb
}

// Variable declares a prototype variable with its default value.
func (b *Builder) Variable(name string, typ domain.VariableType, def any) *Builder {
	b.variables = append(b.variables, domain.Variable{Name: name, Type: typ, Default: def})
	return b
}

// Build compiles the prototype into a memory source. Frames referenced as
// destinations but never declared are materialized as empty frames, so a
// quick sketch stays playable.
func (b *Builder) Build() (*memory.Source, error) {
	declared := make(map[string]bool, len(b.frames))
	for id := range b.frames {
		declared[id] = true
	}

	frames := make([]domain.Frame, 0, len(b.order))
	interactions := make(map[string][]domain.Interaction, len(b.order))
	var implicit []string
	for _, id := range b.order {
		fb := b.frames[id]
		frames = append(frames, fb.frame)
		if len(fb.interactions) > 0 {
			interactions[id] = fb.interactions
		}
		for _, it := range fb.interactions {
			if it.Destination != "" && !declared[it.Destination] {
				declared[it.Destination] = true
				implicit = append(implicit, it.Destination)
			}
		}
	}
	for _, id := range implicit {
		frames = append(frames, domain.Frame{ID: id})
	}

	source, err := memory.NewSource(b.start, frames, interactions, b.variables)
	if err != nil {
		return nil, fmt.Errorf("failed to build prototype: %w", err)
	}
	return source, nil
}
