package tui

import "github.com/charmbracelet/lipgloss"

// pageLayout splits the window into the chat column, the paper column, and
// the chrome around them (hero, composer, status, hints).
type pageLayout struct {
	windowWidth  int
	windowHeight int
	chatWidth    int
	paperWidth   int
	bodyHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:  100,
		windowHeight: 30,
		chatWidth:    46,
		paperWidth:   50,
		bodyHeight:   20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	inner := width - 4
	chat := inner * 45 / 100
	if chat < minChatWidth {
		chat = minChatWidth
	}
	paper := inner - chat
	if paper < minPaperWidth {
		paper = minPaperWidth
	}
	l.chatWidth = chat
	l.paperWidth = paper

	const chrome = 8
	body := height - chrome
	if body < minBodyHeight {
		body = minBodyHeight
	}
	l.bodyHeight = body
}

var (
	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	cardTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	cardIndexStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	categoryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	reasonStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("186")).Italic(true)
	downloadOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downloadFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	scoreGoodStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	scoreFairStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	scoreLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	cursorCardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("205")).
			PaddingLeft(1)

	plainCardStyle = lipgloss.NewStyle().PaddingLeft(2)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)
)

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= scoreGoodThreshold:
		return scoreGoodStyle
	case score >= scoreFairThreshold:
		return scoreFairStyle
	default:
		return scoreLowStyle
	}
}
