// Package markdown renders assistant replies for the terminal.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer wraps a glamour terminal renderer pinned to a wrap width.
// Rendering falls back to the raw text on any failure so a malformed reply
// never blanks the transcript.
type Renderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// NewRenderer builds a renderer for the given wrap width.
func NewRenderer(width int) (*Renderer, error) {
	if width < 20 {
		width = 20
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{width: width, renderer: tr}, nil
}

// Width returns the wrap width the renderer was built for.
func (r *Renderer) Width() int {
	if r == nil {
		return 0
	}
	return r.width
}

// Render converts markdown to styled terminal text.
func (r *Renderer) Render(content string) string {
	if r == nil || r.renderer == nil {
		return content
	}
	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
