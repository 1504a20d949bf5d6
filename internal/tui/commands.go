package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nlin/paperchat/internal/api"
	"github.com/nlin/paperchat/internal/pdftext"
)

const (
	// The backend's LLM pipeline can take a while; the transport layer shares
	// this ceiling.
	chatDeadline     = 2 * time.Minute
	downloadDeadline = 90 * time.Second
	listingDeadline  = 15 * time.Second
)

func (m *model) startChat(request api.ChatRequest) tea.Cmd {
	backend := m.config.Backend
	return m.jobs.Start(jobKindChat, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, chatDeadline)
		defer cancel()
		response, err := backend.Chat(ctx, request)
		return chatResultMsg{response: response, err: err}, err
	})
}

func (m *model) startDownload(paper api.Paper) tea.Cmd {
	backend := m.config.Backend
	return m.jobs.Start(jobKindDownload, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, downloadDeadline)
		defer cancel()
		result, err := backend.DownloadPaper(ctx, paper)
		return downloadResultMsg{arxivID: paper.ArxivID, result: result, err: err}, err
	})
}

func (m *model) startListing() tea.Cmd {
	backend := m.config.Backend
	return m.jobs.Start(jobKindListing, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, listingDeadline)
		defer cancel()
		files, err := backend.ListDownloads(ctx)
		return downloadListMsg{files: files, err: err}, err
	})
}

func (m *model) startPreview(arxivID, path string) tea.Cmd {
	return m.jobs.Start(jobKindPreview, func(context.Context) (tea.Msg, error) {
		text, err := pdftext.Extract(path, previewTextLimit)
		return previewResultMsg{arxivID: arxivID, text: text, err: err}, err
	})
}
