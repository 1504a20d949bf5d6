package markdown

import (
	"strings"
	"testing"
)

func TestRenderKeepsContent(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(60)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out := r.Render("Here are **3 papers** on the topic.")
	if !strings.Contains(out, "3 papers") {
		t.Fatalf("rendered output lost content: %q", out)
	}
}

func TestNilRendererPassesThrough(t *testing.T) {
	t.Parallel()

	var r *Renderer
	if got := r.Render("plain"); got != "plain" {
		t.Fatalf("nil renderer must pass text through, got %q", got)
	}
	if r.Width() != 0 {
		t.Fatal("nil renderer width must be 0")
	}
}

func TestNarrowWidthIsClamped(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(1)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.Width() < 20 {
		t.Fatalf("width not clamped: %d", r.Width())
	}
}
