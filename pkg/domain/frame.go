package domain

// Frame represents a navigable unit of design content (a screen or page).
// The engine only needs the ID; the rest is display metadata owned by the
// document source and forwarded to rendering hosts.
type Frame struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Device preview dimensions in logical pixels. Zero means "unsized".
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Background is a hex color string (e.g. "#ffffff").
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	// Content is optional markdown describing the frame. Headless hosts
	// (the CLI player) render it in place of the real canvas.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}
