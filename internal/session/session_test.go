package session

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/nlin/paperchat/internal/api"
)

func paperFixture(id, title string) api.Paper {
	return api.Paper{
		ArxivID:    id,
		Title:      title,
		Authors:    []string{"A. Author"},
		Abstract:   "An abstract.",
		Published:  "2024-01-01",
		Categories: []string{"cs.LG"},
		PDFURL:     "https://arxiv.org/pdf/" + id + ".pdf",
	}
}

func TestBeginBuildsRequestFromPriorState(t *testing.T) {
	t.Parallel()

	s := New()
	s.ApplyReply(api.ChatResponse{Reply: "seed", Papers: []api.Paper{paperFixture("1", "One")}})
	before := s.Transcript()

	req, ok := s.Begin("  only recent ones  ")
	if !ok {
		t.Fatal("Begin rejected valid input")
	}
	if req.Message != "only recent ones" {
		t.Fatalf("message not trimmed: %q", req.Message)
	}
	if !reflect.DeepEqual(req.History, before) {
		t.Fatalf("history must exclude the new utterance: %#v", req.History)
	}
	if len(req.CurrentPapers) != 1 || req.CurrentPapers[0].ArxivID != "1" {
		t.Fatalf("request missing current catalog: %#v", req.CurrentPapers)
	}

	transcript := s.Transcript()
	last := transcript[len(transcript)-1]
	if last.Role != api.RoleUser || last.Content != "only recent ones" {
		t.Fatalf("optimistic user entry missing, got %#v", last)
	}
	if !s.Pending() {
		t.Fatal("Begin must mark the round-trip pending")
	}
}

func TestBeginRejectsWhitespaceOnlyInput(t *testing.T) {
	t.Parallel()

	s := New()
	if _, ok := s.Begin("   \t  "); ok {
		t.Fatal("whitespace-only input must be silently rejected")
	}
	if len(s.Transcript()) != 0 || s.Pending() {
		t.Fatal("rejected input must not mutate state")
	}
}

func TestBeginRejectsWhilePending(t *testing.T) {
	t.Parallel()

	s := New()
	if _, ok := s.Begin("first"); !ok {
		t.Fatal("first Begin should succeed")
	}
	if _, ok := s.Begin("second"); ok {
		t.Fatal("Begin must enforce single-flight")
	}
	if got := len(s.Transcript()); got != 1 {
		t.Fatalf("rejected Begin appended to transcript, len=%d", got)
	}
}

// Scenario: a fresh session, the backend answers with three papers.
func TestTurnWithPapersReplacesCatalog(t *testing.T) {
	t.Parallel()

	s := New()
	if _, ok := s.Begin("find papers on X"); !ok {
		t.Fatal("Begin failed")
	}
	papers := []api.Paper{paperFixture("1", "One"), paperFixture("2", "Two"), paperFixture("3", "Three")}
	s.ApplyReply(api.ChatResponse{Reply: "Here are 3 papers", Papers: papers})

	transcript := s.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Role != api.RoleUser || transcript[0].Content != "find papers on X" {
		t.Fatalf("unexpected user entry %#v", transcript[0])
	}
	if transcript[1].Role != api.RoleAssistant || transcript[1].Content != "Here are 3 papers" {
		t.Fatalf("unexpected assistant entry %#v", transcript[1])
	}
	if !reflect.DeepEqual(s.Catalog(), papers) {
		t.Fatalf("catalog = %#v, want response papers", s.Catalog())
	}
	if s.Pending() {
		t.Fatal("pending must clear after a completed turn")
	}
}

// Scenario: a follow-up turn with an empty paper list keeps the catalog.
func TestEmptyPaperListLeavesCatalogUntouched(t *testing.T) {
	t.Parallel()

	s := New()
	papers := []api.Paper{paperFixture("1", "One"), paperFixture("2", "Two"), paperFixture("3", "Three")}
	s.Begin("find papers on X")
	s.ApplyReply(api.ChatResponse{Reply: "Here are 3 papers", Papers: papers})

	s.Begin("only recent ones")
	s.ApplyReply(api.ChatResponse{Reply: "Got it, no new matches"})

	if got := len(s.Transcript()); got != 4 {
		t.Fatalf("transcript length = %d, want 4", got)
	}
	if !reflect.DeepEqual(s.Catalog(), papers) {
		t.Fatalf("empty paper list must not touch the catalog, got %#v", s.Catalog())
	}
}

// Scenario: the transport rejects with a structured detail field.
func TestFailureAppendsPrefixedDetail(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin("find papers on X")
	s.ApplyFailure(&api.APIError{StatusCode: 429, Detail: "rate limited"})

	transcript := s.Transcript()
	last := transcript[len(transcript)-1]
	if last.Role != api.RoleAssistant {
		t.Fatalf("failure entry must use the assistant role, got %q", last.Role)
	}
	if want := ErrorPrefix + "rate limited"; last.Content != want {
		t.Fatalf("failure entry = %q, want %q", last.Content, want)
	}
	if s.Pending() {
		t.Fatal("pending must release on the failure path too")
	}
}

func TestFailureFallsBackToErrorText(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin("hello")
	s.ApplyFailure(errors.New("connection refused"))

	transcript := s.Transcript()
	if want := ErrorPrefix + "connection refused"; transcript[len(transcript)-1].Content != want {
		t.Fatalf("got %q, want %q", transcript[len(transcript)-1].Content, want)
	}
}

func TestFailureKeepsCatalog(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin("find papers on X")
	s.ApplyReply(api.ChatResponse{Reply: "ok", Papers: []api.Paper{paperFixture("1", "One")}})

	s.Begin("more")
	s.ApplyFailure(errors.New("boom"))

	if got := len(s.Catalog()); got != 1 {
		t.Fatalf("failure must not discard recommendations, catalog len=%d", got)
	}
}

func TestTranscriptIsAppendOnly(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin("one")
	s.ApplyReply(api.ChatResponse{Reply: "r1"})
	first := s.Transcript()

	s.Begin("two")
	s.ApplyFailure(errors.New("x"))
	second := s.Transcript()

	if len(second) != len(first)+2 {
		t.Fatalf("each round-trip must append exactly 2 entries, %d -> %d", len(first), len(second))
	}
	if !reflect.DeepEqual(second[:len(first)], first) {
		t.Fatal("earlier entries must never be mutated or reordered")
	}
}

func TestTranscriptSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := New()
	s.Begin("one")
	snapshot := s.Transcript()
	snapshot[0].Content = "tampered"

	if s.Transcript()[0].Content != "one" {
		t.Fatal("mutating a snapshot must not reach session state")
	}
}

func TestSelectionSurvivesCatalogReplacement(t *testing.T) {
	t.Parallel()

	s := New()
	old := paperFixture("1", "One")
	s.Begin("x")
	s.ApplyReply(api.ChatResponse{Reply: "ok", Papers: []api.Paper{old}})
	s.Select(old)

	s.Begin("y")
	s.ApplyReply(api.ChatResponse{Reply: "new", Papers: []api.Paper{paperFixture("2", "Two")}})

	selected, ok := s.Selected()
	if !ok {
		t.Fatal("selection must survive a wholesale catalog replacement")
	}
	if selected.ArxivID != "1" {
		t.Fatalf("selection must keep the old paper by value, got %q", selected.ArxivID)
	}

	s.ClearSelection()
	if _, ok := s.Selected(); ok {
		t.Fatal("ClearSelection must drop the reference")
	}
}
