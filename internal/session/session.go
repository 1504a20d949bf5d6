// Package session holds the client-side state for one conversation with the
// recommendation backend: the chat transcript, the current paper catalog, and
// the per-paper download controllers. It knows nothing about rendering or
// transport; callers feed it responses and failures and read back snapshots.
package session

import (
	"strings"

	"github.com/nlin/paperchat/internal/api"
)

// ErrorPrefix starts the synthetic assistant entry appended when a chat
// round-trip fails. The rest of the entry is the most specific diagnostic
// the transport error carries.
const ErrorPrefix = "request failed: "

// Session owns the transcript and the catalog. The transcript is append-only;
// the catalog is only ever replaced wholesale, never edited element-wise.
// At most one chat round-trip is in flight at a time.
type Session struct {
	transcript []api.ChatMessage
	catalog    []api.Paper
	pending    bool

	selected    api.Paper
	hasSelected bool
}

func New() *Session {
	return &Session{}
}

// Pending reports whether a chat round-trip is in flight. Callers gate new
// submissions on this; Begin also rejects while pending.
func (s *Session) Pending() bool {
	return s.pending
}

// Transcript returns a snapshot copy of the transcript.
func (s *Session) Transcript() []api.ChatMessage {
	out := make([]api.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Catalog returns a snapshot copy of the current paper list.
func (s *Session) Catalog() []api.Paper {
	out := make([]api.Paper, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Begin starts a turn. It trims the utterance, silently rejecting empty input
// and input while a turn is pending. On acceptance it appends the user
// message (the optimistic update rendered before the network resolves), marks
// the round-trip pending, and returns the request built from the transcript
// as it stood before the append plus the current catalog.
func (s *Session) Begin(content string) (api.ChatRequest, bool) {
	content = strings.TrimSpace(content)
	if content == "" || s.pending {
		return api.ChatRequest{}, false
	}

	history := make([]api.ChatMessage, len(s.transcript))
	copy(history, s.transcript)
	papers := make([]api.Paper, len(s.catalog))
	copy(papers, s.catalog)

	s.transcript = append(s.transcript, api.ChatMessage{Role: api.RoleUser, Content: content})
	s.pending = true

	return api.ChatRequest{
		Message:       content,
		History:       history,
		CurrentPapers: papers,
	}, true
}

// ApplyReply finishes a turn with the backend's response: the reply becomes
// an assistant entry, and a non-empty paper list replaces the catalog
// wholesale. An empty list leaves the catalog untouched so the backend can
// answer conversationally (eg. a clarifying question) without discarding
// prior recommendations.
func (s *Session) ApplyReply(response api.ChatResponse) {
	s.transcript = append(s.transcript, api.ChatMessage{Role: api.RoleAssistant, Content: response.Reply})
	if len(response.Papers) > 0 {
		replacement := make([]api.Paper, len(response.Papers))
		copy(replacement, response.Papers)
		s.catalog = replacement
	}
	s.pending = false
}

// ApplyFailure finishes a turn whose transport call failed. The failure is
// recovered into an ordinary assistant entry; nothing is thrown further and
// the session stays usable.
func (s *Session) ApplyFailure(err error) {
	s.transcript = append(s.transcript, api.ChatMessage{
		Role:    api.RoleAssistant,
		Content: ErrorPrefix + api.ErrorDetail(err),
	})
	s.pending = false
}

// Select records the paper driving the detail overlay. The paper is stored
// by value: replacing the catalog does not invalidate the selection, since a
// paper's identity never changes mid-session.
func (s *Session) Select(paper api.Paper) {
	s.selected = paper
	s.hasSelected = true
}

// ClearSelection closes the detail overlay.
func (s *Session) ClearSelection() {
	s.selected = api.Paper{}
	s.hasSelected = false
}

// Selected returns the paper backing the detail overlay, if any.
func (s *Session) Selected() (api.Paper, bool) {
	return s.selected, s.hasSelected
}
