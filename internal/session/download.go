package session

import "github.com/nlin/paperchat/internal/api"

// FailedMessage replaces the per-paper status line when the download call
// itself fails. Backend-reported failures keep the backend's own message.
const FailedMessage = "download failed"

// DownloadState tracks one paper's download lifecycle:
// idle -> downloading -> idle with a success flag or a failure message.
// Any resting state accepts a new attempt.
type DownloadState struct {
	Downloading bool
	Downloaded  bool
	Message     string
	FilePath    string
}

// Downloads maps arxiv ids to their download state. States are created
// lazily on first use and never shared between papers, so attempts on
// different papers run fully independently.
type Downloads struct {
	states map[string]*DownloadState
}

func NewDownloads() *Downloads {
	return &Downloads{states: map[string]*DownloadState{}}
}

func (d *Downloads) state(arxivID string) *DownloadState {
	st, ok := d.states[arxivID]
	if !ok {
		st = &DownloadState{}
		d.states[arxivID] = st
	}
	return st
}

// State returns a copy of the paper's current download state.
func (d *Downloads) State(arxivID string) DownloadState {
	if st, ok := d.states[arxivID]; ok {
		return *st
	}
	return DownloadState{}
}

// Begin guards the transition into downloading. It returns false while an
// attempt is already in flight; the caller must then skip the transport call
// entirely. On acceptance any previous outcome message is cleared.
func (d *Downloads) Begin(arxivID string) bool {
	st := d.state(arxivID)
	if st.Downloading {
		return false
	}
	st.Downloading = true
	st.Message = ""
	return true
}

// Finish records the backend's verdict on an attempt.
func (d *Downloads) Finish(arxivID string, result api.DownloadResult) {
	st := d.state(arxivID)
	st.Downloading = false
	st.Downloaded = result.Success
	st.Message = result.Message
	if result.FilePath != nil {
		st.FilePath = *result.FilePath
	}
}

// Fail records a transport failure. The Downloaded flag keeps its prior
// value: a failed retry does not erase an earlier successful download.
func (d *Downloads) Fail(arxivID string) {
	st := d.state(arxivID)
	st.Downloading = false
	st.Message = FailedMessage
}

// Running counts attempts currently in flight across all papers.
func (d *Downloads) Running() int {
	count := 0
	for _, st := range d.states {
		if st.Downloading {
			count++
		}
	}
	return count
}
