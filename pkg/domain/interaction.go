package domain

import "time"

// Trigger is the input event kind that can fire an interaction.
type Trigger string

const (
	TriggerClick      Trigger = "click"
	TriggerHoverEnter Trigger = "hover_enter"
	TriggerHoverLeave Trigger = "hover_leave"
	TriggerPress      Trigger = "press"
	TriggerRelease    Trigger = "release"
	TriggerDragStart  Trigger = "drag_start"
	TriggerKeyDown    Trigger = "key_down"
	TriggerAfterDelay Trigger = "after_delay"
)

// ActionType identifies what an interaction does when it fires. The set is
// closed; the dispatcher matches it exhaustively in one switch.
type ActionType string

const (
	ActionNavigate         ActionType = "navigate"
	ActionSwap             ActionType = "swap"
	ActionBack             ActionType = "back"
	ActionOpenOverlay      ActionType = "open_overlay"
	ActionCloseOverlay     ActionType = "close_overlay"
	ActionCloseAllOverlays ActionType = "close_all_overlays"
	ActionScrollTo         ActionType = "scroll_to"
	ActionOpenURL          ActionType = "open_url"
	ActionSetVariable      ActionType = "set_variable"
	ActionConditional      ActionType = "conditional"
)

// ScrollSettings parameterizes an ActionScrollTo interaction.
type ScrollSettings struct {
	Offset  Offset `json:"offset" yaml:"offset" mapstructure:"offset"`
	Animate bool   `json:"animate,omitempty" yaml:"animate,omitempty" mapstructure:"animate,omitempty"`
}

// VariableMutation parameterizes an ActionSetVariable interaction.
type VariableMutation struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Value any    `json:"value" yaml:"value" mapstructure:"value"`
}

// Interaction is a declarative rule: when Trigger fires on the frame the
// rule is registered under, perform Action. It is an immutable value object
// owned by the document; the player never modifies one.
//
// Only the fields relevant to the Action are consulted. A rule missing its
// required field (a navigate without a destination, an open_url without a
// URL) is silently dropped at dispatch time.
type Interaction struct {
	ID          string           `json:"id" yaml:"id" mapstructure:"id"`
	Trigger     Trigger          `json:"trigger" yaml:"trigger" mapstructure:"trigger"`
	Action      ActionType       `json:"action" yaml:"action" mapstructure:"action"`
	Destination string           `json:"destinationFrameId,omitempty" yaml:"destination,omitempty" mapstructure:"destinationFrameId,omitempty"`
	Transition  TransitionConfig `json:"transition,omitempty" yaml:"transition,omitempty" mapstructure:"transition,omitempty"`

	// Delay applies only when Trigger is TriggerAfterDelay.
	Delay time.Duration `json:"triggerDelay,omitempty" yaml:"delay,omitempty" mapstructure:"triggerDelay,omitempty"`

	Overlay     *OverlaySettings   `json:"overlaySettings,omitempty" yaml:"overlay,omitempty" mapstructure:"overlaySettings,omitempty"`
	Scroll      *ScrollSettings    `json:"scrollSettings,omitempty" yaml:"scroll,omitempty" mapstructure:"scrollSettings,omitempty"`
	URL         string             `json:"externalLink,omitempty" yaml:"url,omitempty" mapstructure:"externalLink,omitempty"`
	Variable    *VariableMutation  `json:"variableMutation,omitempty" yaml:"variable,omitempty" mapstructure:"variableMutation,omitempty"`
	Conditional *ConditionalAction `json:"conditional,omitempty" yaml:"conditional,omitempty" mapstructure:"conditional,omitempty"`
}
