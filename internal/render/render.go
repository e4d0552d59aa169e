// Package render formats model replies for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown replies into styled terminal text. A nil or
// disabled Renderer returns text unchanged.
type Renderer struct {
	tr *glamour.TermRenderer
}

// New returns a Renderer. When enabled is false, or glamour cannot be
// initialised, replies pass through verbatim.
func New(enabled bool, width int) *Renderer {
	if !enabled {
		return &Renderer{}
	}
	if width <= 0 {
		width = 100
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{tr: tr}
}

// Enabled reports whether replies are styled.
func (r *Renderer) Enabled() bool {
	return r != nil && r.tr != nil
}

// Render styles text, falling back to the raw text on any rendering error.
func (r *Renderer) Render(text string) string {
	if !r.Enabled() {
		return text
	}
	out, err := r.tr.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
