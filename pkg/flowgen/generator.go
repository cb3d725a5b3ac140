// Package flowgen turns a textual prompt into a playable prototype. It is
// a deterministic stand-in for a hosted generation service: it walks the
// same analyzing/generating lifecycle and emits the same status updates,
// but derives the flow from the prompt text alone.
package flowgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/pkg/adapters/memory"
	"github.com/framelight/framelight/pkg/domain"
	"github.com/framelight/framelight/pkg/dsl"
)

// Status is the lifecycle phase of a generation run.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusAnalyzing  Status = "analyzing"
	StatusGenerating Status = "generating"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Result is the outcome of a completed generation run.
type Result struct {
	Prompt  string
	Screens []string
	Source  *memory.Source
}

// Generator produces prototypes from prompts.
type Generator struct {
	stepDelay time.Duration
	onStatus  func(Status)
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithStepDelay sets the simulated latency per lifecycle phase. Zero makes
// generation synchronous, which tests rely on.
func WithStepDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.stepDelay = d
	}
}

// WithStatusFunc registers a callback invoked on every phase change.
func WithStatusFunc(fn func(Status)) Option {
	return func(g *Generator) {
		g.onStatus = fn
	}
}

// WithLogger configures a logger for the Generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		stepDelay: 300 * time.Millisecond,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full lifecycle for one prompt. The screens are parsed
// from the prompt (comma or "then" separated); an unparseable prompt ends
// in StatusError.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	g.setStatus(StatusAnalyzing)
	if err := g.simulate(ctx); err != nil {
		g.setStatus(StatusError)
		return nil, err
	}

	screens := parseScreens(prompt)
	if len(screens) == 0 {
		g.setStatus(StatusError)
		return nil, fmt.Errorf("prompt %q describes no screens", prompt)
	}
	g.logger.Debug("Prompt analyzed", "screens", screens)

	g.setStatus(StatusGenerating)
	if err := g.simulate(ctx); err != nil {
		g.setStatus(StatusError)
		return nil, err
	}

	source, err := buildFlow(screens)
	if err != nil {
		g.setStatus(StatusError)
		return nil, fmt.Errorf("failed to generate flow: %w", err)
	}

	g.setStatus(StatusComplete)
	return &Result{Prompt: prompt, Screens: screens, Source: source}, nil
}

func (g *Generator) setStatus(s Status) {
	if g.onStatus != nil {
		g.onStatus(s)
	}
}

// simulate stands in for remote model latency.
func (g *Generator) simulate(ctx context.Context) error {
	if g.stepDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.stepDelay):
		return nil
	}
}

// parseScreens extracts screen names from a prompt. Separators are commas,
// "then", and "->"; each fragment becomes one screen.
func parseScreens(prompt string) []string {
	normalized := strings.ToLower(prompt)
	normalized = strings.ReplaceAll(normalized, "->", ",")
	normalized = strings.ReplaceAll(normalized, " then ", ",")

	var screens []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(normalized, ",") {
		name := slugify(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		screens = append(screens, name)
	}
	return screens
}

// slugify reduces a prompt fragment to a frame ID: trimmed, noise words
// dropped, spaces collapsed to hyphens.
func slugify(fragment string) string {
	var words []string
	for _, w := range strings.Fields(fragment) {
		w = strings.Trim(w, ".!?:;\"'")
		if w == "" || noiseWords[w] {
			continue
		}
		words = append(words, w)
	}
	// Frame IDs stay short; two words keep "sign up" distinct from "sign in".
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, "-")
}

var noiseWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "to": true,
	"screen": true, "page": true, "with": true, "for": true, "of": true,
}

// buildFlow chains the screens into a linear click-through prototype with
// back navigation everywhere except the first screen.
func buildFlow(screens []string) (*memory.Source, error) {
	b := dsl.New(screens[0])
	for i, id := range screens {
		fb := b.Frame(id).Named(titleCase(id))
		if i+1 < len(screens) {
			fb.On(domain.TriggerClick).Animated(domain.TransitionConfig{
				Type:      domain.TransitionSlideIn,
				Direction: domain.DirectionRight,
				Duration:  300 * time.Millisecond,
				Easing:    domain.EasingEaseOut,
			}).Navigate(screens[i+1])
		}
		if i > 0 {
			fb.On(domain.TriggerKeyDown).Back()
		}
	}
	return b.Build()
}

func titleCase(id string) string {
	words := strings.Split(id, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
