package tui

import "testing"

func TestLayoutSplitsWindow(t *testing.T) {
	layout := newPageLayout()
	layout.Update(120, 40)

	if layout.chatWidth < minChatWidth {
		t.Fatalf("chat column too narrow: %d", layout.chatWidth)
	}
	if layout.paperWidth < minPaperWidth {
		t.Fatalf("paper column too narrow: %d", layout.paperWidth)
	}
	if layout.chatWidth+layout.paperWidth > 120 {
		t.Fatalf("columns overflow the window: %d + %d", layout.chatWidth, layout.paperWidth)
	}
	if layout.bodyHeight >= 40 {
		t.Fatalf("no room left for chrome: body %d of 40", layout.bodyHeight)
	}
}

func TestLayoutClampsTinyWindows(t *testing.T) {
	layout := newPageLayout()
	layout.Update(40, 8)

	if layout.chatWidth != minChatWidth {
		t.Fatalf("chat width not clamped: %d", layout.chatWidth)
	}
	if layout.paperWidth != minPaperWidth {
		t.Fatalf("paper width not clamped: %d", layout.paperWidth)
	}
	if layout.bodyHeight != minBodyHeight {
		t.Fatalf("body height not clamped: %d", layout.bodyHeight)
	}
}

func TestScoreStyleThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{9.2, scoreGoodStyle.Render("x")},
		{7.0, scoreGoodStyle.Render("x")},
		{5.5, scoreFairStyle.Render("x")},
		{4.0, scoreFairStyle.Render("x")},
		{2.1, scoreLowStyle.Render("x")},
	}
	for _, tc := range cases {
		if got := scoreStyle(tc.score).Render("x"); got != tc.want {
			t.Errorf("scoreStyle(%.1f) picked the wrong style", tc.score)
		}
	}
}
