package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders frame content (markdown)
// using glamour. It auto-detects a light or dark terminal background.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
