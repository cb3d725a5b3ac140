package domain

// OverlayPosition anchors an overlay frame relative to the frame below it.
type OverlayPosition string

const (
	OverlayCenter       OverlayPosition = "center"
	OverlayTopLeft      OverlayPosition = "top_left"
	OverlayTopCenter    OverlayPosition = "top_center"
	OverlayTopRight     OverlayPosition = "top_right"
	OverlayBottomLeft   OverlayPosition = "bottom_left"
	OverlayBottomCenter OverlayPosition = "bottom_center"
	OverlayBottomRight  OverlayPosition = "bottom_right"
	OverlayManual       OverlayPosition = "manual"
)

// OverlaySettings controls presentation and dismissal of an open overlay.
type OverlaySettings struct {
	Position OverlayPosition `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position,omitempty"`

	// Offset positions the overlay when Position is OverlayManual.
	Offset Offset `json:"offset,omitempty" yaml:"offset,omitempty" mapstructure:"offset,omitempty"`

	// CloseOnClickOutside dismisses the overlay when the scrim is clicked.
	CloseOnClickOutside bool `json:"closeOnClickOutside,omitempty" yaml:"close_on_click_outside,omitempty" mapstructure:"closeOnClickOutside,omitempty"`

	// Background scrim. Color is a hex string; opacity in [0,1].
	BackgroundColor   string  `json:"backgroundColor,omitempty" yaml:"background_color,omitempty" mapstructure:"backgroundColor,omitempty"`
	BackgroundOpacity float64 `json:"backgroundOpacity,omitempty" yaml:"background_opacity,omitempty" mapstructure:"backgroundOpacity,omitempty"`
}

// OverlayState is one open overlay on the stack. Overlays stack in open
// order; the close operation targets the most recent (LIFO).
type OverlayState struct {
	FrameID    string           `json:"frameId" yaml:"frame_id"`
	Settings   OverlaySettings  `json:"settings" yaml:"settings"`
	Transition TransitionConfig `json:"transition,omitempty" yaml:"transition,omitempty"`
}
