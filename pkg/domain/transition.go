package domain

import (
	"math"
	"time"
)

// TransitionType identifies the visual swap animation between two frames.
type TransitionType string

const (
	TransitionInstant      TransitionType = "instant"
	TransitionDissolve     TransitionType = "dissolve"
	TransitionSlideIn      TransitionType = "slide_in"
	TransitionSlideOut     TransitionType = "slide_out"
	TransitionMoveIn       TransitionType = "move_in"
	TransitionMoveOut      TransitionType = "move_out"
	TransitionPush         TransitionType = "push"
	TransitionSmartAnimate TransitionType = "smart_animate"
)

// Direction is the edge a directional transition enters from or exits to.
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
	DirectionTop    Direction = "top"
	DirectionBottom Direction = "bottom"
)

// Easing names the timing curve applied over a transition's duration.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseIn    Easing = "ease_in"
	EasingEaseOut   Easing = "ease_out"
	EasingEaseInOut Easing = "ease_in_out"
	EasingSpring    Easing = "spring"
)

// Apply maps normalized time t in [0,1] to animation progress.
// Inputs outside the range are clamped. Spring may overshoot 1.
func (e Easing) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e {
	case EasingEaseIn:
		return t * t * t
	case EasingEaseOut:
		inv := 1 - t
		return 1 - inv*inv*inv
	case EasingEaseInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		inv := -2*t + 2
		return 1 - inv*inv*inv/2
	case EasingSpring:
		// Damped oscillation settling at 1.
		c := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c) + 1
	default:
		// Linear, including the zero value.
		return t
	}
}

// TransitionConfig describes how the rendering collaborator animates the
// handoff between two frames. The engine only carries and forwards it.
type TransitionConfig struct {
	Type        TransitionType `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type,omitempty"`
	Direction   Direction      `json:"direction,omitempty" yaml:"direction,omitempty" mapstructure:"direction,omitempty"`
	Easing      Easing         `json:"easing,omitempty" yaml:"easing,omitempty" mapstructure:"easing,omitempty"`
	Duration    time.Duration  `json:"duration,omitempty" yaml:"duration,omitempty" mapstructure:"duration,omitempty"`
	MatchLayers bool           `json:"matchLayers,omitempty" yaml:"match_layers,omitempty" mapstructure:"matchLayers,omitempty"`
}

// IsZero reports whether the config carries no animation at all.
func (c TransitionConfig) IsZero() bool {
	return c.Type == "" && c.Duration == 0
}

// Progress returns eased progress for a wall-clock offset into the
// transition. A zero duration is complete immediately.
func (c TransitionConfig) Progress(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}
	return c.Easing.Apply(float64(elapsed) / float64(c.Duration))
}
