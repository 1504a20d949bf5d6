package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nlin/paperchat/internal/api"
	"github.com/nlin/paperchat/internal/pdftext"
	"github.com/nlin/paperchat/internal/session"
)

func (m *model) View() string {
	if m.overlayOpen {
		return joinNonEmpty([]string{m.heroView(), m.overlayView(), m.statusLine(), m.overlayHints()})
	}
	m.refreshTranscriptIfDirty()
	m.refreshPapersIfDirty()

	right := paneStyle.Width(m.layout.paperWidth).Render(m.paperView.View())
	if m.listingOpen {
		right = paneStyle.Width(m.layout.paperWidth).Render(m.listingView())
	}
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		paneStyle.Width(m.layout.chatWidth).Render(m.chatView.View()),
		right,
	)

	return joinNonEmpty([]string{
		m.heroView(),
		body,
		m.composerPanel(),
		m.statusLine(),
		m.hintsLine(),
	})
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render("PaperChat")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", taglineStyle.Render(heroTagline))
}

func (m *model) composerPanel() string {
	return m.composer.View()
}

func (m *model) statusLine() string {
	parts := []string{}
	if m.working() {
		label := "Working…"
		if m.session.Pending() {
			label = "Searching and analyzing papers…"
		} else if m.downloads.Running() > 0 {
			label = fmt.Sprintf("Downloading %d paper(s)…", m.downloads.Running())
		}
		parts = append(parts, fmt.Sprintf("%s %s", m.spinner.View(), label))
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(parts, "  ")
}

func (m *model) hintsLine() string {
	hints := "Enter: send  •  Ctrl+N/P: browse papers  •  Ctrl+D: download  •  Ctrl+O: details  •  Ctrl+L: downloads  •  Ctrl+C: quit"
	return helperStyle.Render(hints)
}

func (m *model) overlayHints() string {
	return helperStyle.Render("Ctrl+D: download  •  Esc: close")
}

func (m *model) refreshTranscriptIfDirty() {
	if !m.transcriptDirty {
		return
	}
	m.transcriptDirty = false
	m.chatView.SetContent(m.buildTranscript())
	m.chatView.GotoBottom()
}

func (m *model) buildTranscript() string {
	transcript := m.session.Transcript()
	wrap := m.layout.chatWidth - 2
	if len(transcript) == 0 {
		return m.welcomeView(wrap)
	}

	var b strings.Builder
	for i, message := range transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if message.Role == api.RoleUser {
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteRune('\n')
			b.WriteString(wordwrap.String(message.Content, wrap))
			continue
		}
		b.WriteString(assistantLabelStyle.Render("Assistant"))
		b.WriteRune('\n')
		b.WriteString(m.markdown.Render(message.Content))
	}
	if m.session.Pending() {
		b.WriteString("\n\n")
		b.WriteString(helperStyle.Render(fmt.Sprintf("%s Searching and analyzing papers…", m.spinner.View())))
	}
	return b.String()
}

func (m *model) welcomeView(wrap int) string {
	lines := []string{
		sectionHeaderStyle.Render("Welcome to PaperChat"),
		wordwrap.String("Describe your research interest and I will find the most relevant papers on arXiv.", wrap),
		"",
		helperStyle.Render("Try one of these (press the number):"),
	}
	for i, prompt := range examplePrompts {
		lines = append(lines, fmt.Sprintf(" %d) %s", i+1, wordwrap.String(prompt, wrap-4)))
	}
	return strings.Join(lines, "\n")
}

func (m *model) refreshPapersIfDirty() {
	if !m.papersDirty {
		return
	}
	m.papersDirty = false
	content, cardLines := m.buildPaperList()
	m.cardLines = cardLines
	m.paperView.SetContent(content)
}

func (m *model) buildPaperList() (string, []int) {
	catalog := m.session.Catalog()
	wrap := m.layout.paperWidth - 6
	if len(catalog) == 0 {
		empty := []string{
			sectionHeaderStyle.Render("Recommended Papers"),
			"",
			helperStyle.Render("Recommendations will appear here."),
			helperStyle.Render("Describe your research interest in the chat."),
		}
		return strings.Join(empty, "\n"), nil
	}

	cb := &contentBuilder{}
	cb.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Recommended Papers (%d)", len(catalog))))
	cb.WriteRune('\n')

	cardLines := make([]int, len(catalog))
	for idx, paper := range catalog {
		cb.WriteRune('\n')
		cardLines[idx] = cb.Line()
		card := m.renderPaperCard(paper, idx+1, wrap)
		if idx == m.paperCursor {
			cb.WriteString(cursorCardStyle.Render(card))
		} else {
			cb.WriteString(plainCardStyle.Render(card))
		}
		cb.WriteRune('\n')
	}
	return cb.String(), cardLines
}

func (m *model) renderPaperCard(paper api.Paper, index, wrap int) string {
	var b strings.Builder

	header := cardIndexStyle.Render(fmt.Sprintf("#%d", index))
	if paper.RelevanceScore != nil {
		header += "  " + scoreStyle(*paper.RelevanceScore).Render(fmt.Sprintf("%.1f", *paper.RelevanceScore))
	}
	b.WriteString(header)
	b.WriteRune('\n')

	b.WriteString(cardTitleStyle.Render(wordwrap.String(paper.Title, wrap)))
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render(shortenAuthors(paper.Authors)))
	b.WriteRune('\n')

	meta := paper.Published
	if len(paper.Categories) > 0 {
		limit := len(paper.Categories)
		if limit > maxCardCategories {
			limit = maxCardCategories
		}
		meta += "  " + categoryStyle.Render(strings.Join(paper.Categories[:limit], " "))
	}
	b.WriteString(meta)
	b.WriteRune('\n')

	if paper.RelevanceReason != nil && *paper.RelevanceReason != "" {
		b.WriteString(reasonStyle.Render(wordwrap.String(*paper.RelevanceReason, wrap)))
		b.WriteRune('\n')
	}

	b.WriteString(wordwrap.String(pdftext.Clip(paper.Abstract, abstractPreviewLimit), wrap))

	if status := m.downloadStatusLine(paper.ArxivID); status != "" {
		b.WriteRune('\n')
		b.WriteString(status)
	}
	return b.String()
}

func (m *model) downloadStatusLine(arxivID string) string {
	st := m.downloads.State(arxivID)
	switch {
	case st.Downloading:
		return helperStyle.Render(fmt.Sprintf("%s downloading…", m.spinner.View()))
	case st.Message == session.FailedMessage:
		return downloadFailStyle.Render("✗ " + st.Message)
	case st.Downloaded:
		message := st.Message
		if message == "" {
			message = "downloaded"
		}
		return downloadOKStyle.Render("✓ " + message)
	case st.Message != "":
		return downloadFailStyle.Render("✗ " + st.Message)
	default:
		return ""
	}
}

func (m *model) overlayView() string {
	paper, ok := m.session.Selected()
	if !ok {
		return helperStyle.Render("Nothing selected.")
	}
	wrap := m.layout.windowWidth - 12
	if wrap < 40 {
		wrap = 40
	}

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(wordwrap.String(paper.Title, wrap)))
	b.WriteString("\n\n")
	b.WriteString("Authors:    " + wordwrap.String(strings.Join(paper.Authors, ", "), wrap-12))
	b.WriteRune('\n')
	b.WriteString("Published:  " + paper.Published)
	b.WriteRune('\n')
	b.WriteString("Categories: " + categoryStyle.Render(strings.Join(paper.Categories, ", ")))
	b.WriteRune('\n')
	b.WriteString("arXiv:      " + paper.ArxivID + "  (" + paper.PDFURL + ")")
	b.WriteRune('\n')
	if paper.RelevanceScore != nil {
		b.WriteString("Relevance:  " + scoreStyle(*paper.RelevanceScore).Render(fmt.Sprintf("%.1f / 10", *paper.RelevanceScore)))
		b.WriteRune('\n')
	}
	if paper.RelevanceReason != nil && *paper.RelevanceReason != "" {
		b.WriteString(reasonStyle.Render(wordwrap.String(*paper.RelevanceReason, wrap)))
		b.WriteRune('\n')
	}

	b.WriteString("\n")
	b.WriteString(sectionHeaderStyle.Render("Abstract"))
	b.WriteRune('\n')
	b.WriteString(wordwrap.String(paper.Abstract, wrap))

	if status := m.downloadStatusLine(paper.ArxivID); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}

	switch {
	case m.previewErr != "":
		b.WriteString("\n\n")
		b.WriteString(sectionHeaderStyle.Render("Local PDF Text"))
		b.WriteRune('\n')
		b.WriteString(errorStyle.Render(m.previewErr))
	case m.previewText != "":
		b.WriteString("\n\n")
		b.WriteString(sectionHeaderStyle.Render("Local PDF Text"))
		b.WriteRune('\n')
		b.WriteString(helperStyle.Render(wordwrap.String(m.previewText, wrap)))
	}

	return overlayStyle.Width(m.layout.windowWidth - 4).Render(b.String())
}

func (m *model) listingView() string {
	lines := []string{sectionHeaderStyle.Render("Downloaded Files")}
	switch {
	case m.listingLoading:
		lines = append(lines, fmt.Sprintf("%s fetching…", m.spinner.View()))
	case m.listingErr != "":
		lines = append(lines, errorStyle.Render(m.listingErr))
	case len(m.listing) == 0:
		lines = append(lines, helperStyle.Render("Nothing downloaded yet."))
	default:
		for _, file := range m.listing {
			lines = append(lines, fmt.Sprintf(" • %s  %s", file.Filename, helperStyle.Render(formatSize(file.FileSize))))
		}
	}
	lines = append(lines, "", helperStyle.Render("Ctrl+L or Esc to go back."))
	return strings.Join(lines, "\n")
}

func shortenAuthors(authors []string) string {
	if len(authors) == 0 {
		return "unknown authors"
	}
	if len(authors) <= maxCardAuthors {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s et al. (%d)", strings.Join(authors[:maxCardAuthors], ", "), len(authors))
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string { return cb.builder.String() }

func (cb *contentBuilder) Line() int { return cb.lines }
