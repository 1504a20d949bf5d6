package tui

import (
	"context"

	"github.com/nlin/paperchat/internal/api"
)

// Backend is the transport boundary the TUI drives. *api.Client implements
// it; tests substitute fakes. It is stateless and safe for concurrent use by
// the chat round-trip and any number of download attempts.
type Backend interface {
	Chat(ctx context.Context, request api.ChatRequest) (*api.ChatResponse, error)
	DownloadPaper(ctx context.Context, paper api.Paper) (*api.DownloadResult, error)
	ListDownloads(ctx context.Context) ([]api.DownloadedFile, error)
}

const heroTagline = "Conversational arXiv recommendations."

const (
	minChatWidth  = 30
	minPaperWidth = 34
	minBodyHeight = 10

	// Card rendering caps, matching what fits a narrow column.
	maxCardAuthors       = 3
	maxCardCategories    = 3
	abstractPreviewLimit = 200

	// Upper bound on the local PDF text shown inside the detail overlay.
	previewTextLimit = 1200
)

// Relevance score color thresholds.
const (
	scoreGoodThreshold = 7.0
	scoreFairThreshold = 4.0
)

var examplePrompts = []string{
	"Recommend recent papers on large language model safety",
	"Find papers that use reinforcement learning for robot control",
	"What work applies graph neural networks to drug discovery?",
}

// chatResultMsg settles the in-flight chat round-trip.
type chatResultMsg struct {
	response *api.ChatResponse
	err      error
}

// downloadResultMsg settles one paper's download attempt. The id routes the
// outcome to the right controller; several may be in flight at once.
type downloadResultMsg struct {
	arxivID string
	result  *api.DownloadResult
	err     error
}

// downloadListMsg settles the downloads-listing fetch.
type downloadListMsg struct {
	files []api.DownloadedFile
	err   error
}

// previewResultMsg carries extracted text for the detail overlay.
type previewResultMsg struct {
	arxivID string
	text    string
	err     error
}
