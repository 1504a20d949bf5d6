// Package tui renders one conversation with the recommendation backend: a
// chat pane, a paper catalog pane, and a detail overlay, all driven by the
// session state machines in internal/session.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gookit/slog"

	"github.com/nlin/paperchat/internal/api"
	"github.com/nlin/paperchat/internal/markdown"
	"github.com/nlin/paperchat/internal/session"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Backend Backend
	Logger  *slog.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	composer := textinput.New()
	composer.Placeholder = "Describe your research interest, or refine the current results…"
	composer.CharLimit = 400
	composer.Width = 70
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	chatView := viewport.New(layout.chatWidth, layout.bodyHeight)
	paperView := viewport.New(layout.paperWidth, layout.bodyHeight)

	renderer, err := markdown.NewRenderer(layout.chatWidth - 2)
	if err != nil {
		renderer = nil
	}

	return &model{
		config:          config,
		session:         session.New(),
		downloads:       session.NewDownloads(),
		jobs:            newJobBus(config.Logger),
		composer:        composer,
		spinner:         spin,
		chatView:        chatView,
		paperView:       paperView,
		markdown:        renderer,
		layout:          layout,
		transcriptDirty: true,
		papersDirty:     true,
		infoMessage:     "Describe a research interest to get started.",
	}
}

type model struct {
	config Config

	session   *session.Session
	downloads *session.Downloads
	jobs      *jobBus

	composer  textinput.Model
	spinner   spinner.Model
	chatView  viewport.Model
	paperView viewport.Model
	markdown  *markdown.Renderer
	layout    pageLayout

	paperCursor int
	cardLines   []int

	overlayOpen bool
	previewFor  string
	previewText string
	previewErr  string

	listingOpen    bool
	listingLoading bool
	listing        []api.DownloadedFile
	listingErr     string

	infoMessage  string
	errorMessage string

	transcriptDirty bool
	papersDirty     bool
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.working() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatResultMsg:
		return m.handleChatResult(msg)

	case downloadResultMsg:
		return m.handleDownloadResult(msg)

	case downloadListMsg:
		m.listingLoading = false
		if msg.err != nil {
			m.listing = nil
			m.listingErr = api.ErrorDetail(msg.err)
		} else {
			m.listing = msg.files
			m.listingErr = ""
		}
		return m, nil

	case previewResultMsg:
		if m.previewFor != msg.arxivID {
			return m, nil
		}
		if msg.err != nil {
			m.previewErr = "could not read the stored PDF"
			m.previewText = ""
		} else {
			m.previewErr = ""
			m.previewText = msg.text
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	handled := true
	var cmd tea.Cmd
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		switch {
		case m.overlayOpen:
			m.closeOverlay()
		case m.listingOpen:
			m.listingOpen = false
		default:
			m.composer.SetValue("")
		}
	case "enter":
		return m.submitComposer()
	case "ctrl+n":
		m.moveCardCursor(1)
	case "ctrl+p":
		m.moveCardCursor(-1)
	case "ctrl+d":
		return m.startCursorDownload()
	case "ctrl+o":
		if m.overlayOpen {
			m.closeOverlay()
		} else {
			cmd = m.openOverlay()
		}
	case "ctrl+l":
		if m.listingOpen {
			m.listingOpen = false
		} else {
			m.listingOpen = true
			m.listingLoading = true
			m.listingErr = ""
			return m, tea.Batch(m.spinner.Tick, m.startListing())
		}
	case "1", "2", "3":
		if len(m.session.Transcript()) == 0 && strings.TrimSpace(m.composer.Value()) == "" {
			return m.submit(examplePrompts[key.String()[0]-'1'])
		}
		handled = false
	default:
		handled = false
	}
	if handled {
		return m, cmd
	}
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

// submitComposer dispatches the composer content as a chat turn. An empty
// composer plus Enter opens the detail overlay for the cursor card instead,
// mirroring a click on the card.
func (m *model) submitComposer() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.composer.Value())
	if content == "" {
		if !m.overlayOpen && len(m.session.Catalog()) > 0 {
			return m, m.openOverlay()
		}
		return m, nil
	}
	return m.submit(content)
}

func (m *model) submit(content string) (tea.Model, tea.Cmd) {
	request, ok := m.session.Begin(content)
	if !ok {
		if m.session.Pending() {
			m.infoMessage = "Still waiting on the assistant — one question at a time."
		}
		return m, nil
	}
	m.composer.SetValue("")
	m.infoMessage = ""
	m.errorMessage = ""
	m.markTranscriptDirty()
	return m, tea.Batch(m.spinner.Tick, m.startChat(request))
}

func (m *model) handleChatResult(msg chatResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.response == nil {
		m.session.ApplyFailure(msg.err)
	} else {
		m.session.ApplyReply(*msg.response)
		if len(msg.response.Papers) > 0 {
			m.paperCursor = 0
			m.infoMessage = "New recommendations. Ctrl+N/Ctrl+P to browse, Ctrl+D to download."
		}
	}
	m.markTranscriptDirty()
	m.markPapersDirty()
	return m, nil
}

func (m *model) handleDownloadResult(msg downloadResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.result == nil {
		m.downloads.Fail(msg.arxivID)
	} else {
		m.downloads.Finish(msg.arxivID, *msg.result)
	}
	m.markPapersDirty()

	// Extract the local text when the overlay is already showing this paper.
	if m.overlayOpen {
		if selected, ok := m.session.Selected(); ok && selected.ArxivID == msg.arxivID {
			if st := m.downloads.State(msg.arxivID); st.FilePath != "" && m.previewFor != msg.arxivID {
				m.previewFor = msg.arxivID
				m.previewText = ""
				m.previewErr = ""
				return m, m.startPreview(msg.arxivID, st.FilePath)
			}
		}
	}
	return m, nil
}

// startCursorDownload begins a download for the paper under the cursor, or
// for the overlay paper when the overlay is open. A request while that
// paper's download is in flight is silently ignored.
func (m *model) startCursorDownload() (tea.Model, tea.Cmd) {
	paper, ok := m.downloadTarget()
	if !ok {
		m.infoMessage = "No paper selected to download."
		return m, nil
	}
	if !m.downloads.Begin(paper.ArxivID) {
		return m, nil
	}
	m.markPapersDirty()
	return m, tea.Batch(m.spinner.Tick, m.startDownload(paper))
}

func (m *model) downloadTarget() (api.Paper, bool) {
	if m.overlayOpen {
		if selected, ok := m.session.Selected(); ok {
			return selected, true
		}
	}
	catalog := m.session.Catalog()
	if m.paperCursor < 0 || m.paperCursor >= len(catalog) {
		return api.Paper{}, false
	}
	return catalog[m.paperCursor], true
}

func (m *model) openOverlay() tea.Cmd {
	catalog := m.session.Catalog()
	if m.paperCursor < 0 || m.paperCursor >= len(catalog) {
		m.infoMessage = "No paper under the cursor."
		return nil
	}
	paper := catalog[m.paperCursor]
	m.session.Select(paper)
	m.overlayOpen = true
	m.previewText = ""
	m.previewErr = ""
	m.previewFor = ""
	if st := m.downloads.State(paper.ArxivID); st.FilePath != "" {
		m.previewFor = paper.ArxivID
		return m.startPreview(paper.ArxivID, st.FilePath)
	}
	return nil
}

func (m *model) closeOverlay() {
	m.overlayOpen = false
	m.session.ClearSelection()
	m.previewFor = ""
	m.previewText = ""
	m.previewErr = ""
}

func (m *model) moveCardCursor(delta int) {
	catalog := m.session.Catalog()
	if len(catalog) == 0 {
		return
	}
	target := m.paperCursor + delta
	if target < 0 {
		target = 0
	}
	if target >= len(catalog) {
		target = len(catalog) - 1
	}
	if target == m.paperCursor {
		return
	}
	m.paperCursor = target
	m.markPapersDirty()
	m.refreshPapersIfDirty()
	m.ensureCardVisible()
}

func (m *model) ensureCardVisible() {
	if m.paperCursor < 0 || m.paperCursor >= len(m.cardLines) {
		return
	}
	line := m.cardLines[m.paperCursor]
	if line < m.paperView.YOffset {
		m.paperView.SetYOffset(line)
		return
	}
	bottom := m.paperView.YOffset + m.paperView.Height - 1
	if line > bottom {
		m.paperView.SetYOffset(line - m.paperView.Height + 1)
	}
}

// working reports whether any asynchronous task needs the spinner alive.
func (m *model) working() bool {
	return m.session.Pending() || m.downloads.Running() > 0 || m.listingLoading
}

func (m *model) applyWindowSize(width, height int) {
	m.layout.Update(width, height)
	m.chatView.Width = m.layout.chatWidth
	m.chatView.Height = m.layout.bodyHeight
	m.paperView.Width = m.layout.paperWidth
	m.paperView.Height = m.layout.bodyHeight
	m.composer.Width = width - 8
	if m.composer.Width < 40 {
		m.composer.Width = 40
	}
	if wrap := m.layout.chatWidth - 2; m.markdown.Width() != wrap {
		if renderer, err := markdown.NewRenderer(wrap); err == nil {
			m.markdown = renderer
		}
	}
	m.markTranscriptDirty()
	m.markPapersDirty()
}

func (m *model) markTranscriptDirty() { m.transcriptDirty = true }
func (m *model) markPapersDirty()     { m.papersDirty = true }
