package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/storage"
)

const (
	maxScores  = 100
	maxPlayers = 50

	// rows used by title, tab bar, stats line, table border and help
	scoreboardChrome = 10
)

var (
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// scoreboardTab is one page of the scoreboard: a game's score list, or the
// cross-game leaderboard when gameID is empty.
type scoreboardTab struct {
	gameID string
	title  string
}

func (t scoreboardTab) leaderboard() bool { return t.gameID == "" }

// ScoreboardKeyMap holds the scoreboard bindings. Scrolling keys are passed
// through to the table.
type ScoreboardKeyMap struct {
	Scroll key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Next, k.Prev, k.Back, k.Quit}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Scroll, k.Next, k.Prev}, {k.Back, k.Quit}}
}

func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next board")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev board")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows one board per registered game followed by the
// player leaderboard.
type ScoreboardModel struct {
	store     *storage.Store
	tabs      []scoreboardTab
	tabCursor int
	rows      []table.Row
	stats     string
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel builds the scoreboard. store may be nil, in which case
// every board is empty.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	games := registry.List()
	tabs := make([]scoreboardTab, 0, len(games)+1)
	for _, g := range games {
		tabs = append(tabs, scoreboardTab{gameID: g.ID, title: g.Title})
	}
	tabs = append(tabs, scoreboardTab{title: "Leaderboard"})

	m := ScoreboardModel{
		store:  store,
		tabs:   tabs,
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.load()
	return m
}

func (m ScoreboardModel) current() scoreboardTab {
	return m.tabs[m.tabCursor]
}

func (m *ScoreboardModel) columns() []table.Column {
	nameWidth := min(max(m.width-44, 10), 24)
	if m.current().leaderboard() {
		return []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Player", Width: nameWidth},
			{Title: "Total", Width: 10},
			{Title: "Games", Width: 6},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: nameWidth},
		{Title: "Score", Width: 8},
		{Title: "Lvl", Width: 4},
		{Title: "Date", Width: 12},
	}
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-scoreboardChrome, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the current board from the store and rebuilds the table.
func (m *ScoreboardModel) load() {
	m.rows, m.stats = nil, ""
	if m.store != nil {
		if tab := m.current(); tab.leaderboard() {
			m.rows = m.leaderboardRows()
			m.stats = fmt.Sprintf("%d players", len(m.rows))
		} else {
			m.rows = m.scoreRows(tab.gameID)
			m.stats = m.gameStats(tab.gameID)
		}
	}
	m.table = m.createTable()
}

func (m *ScoreboardModel) scoreRows(gameID string) []table.Row {
	scores, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, 0, len(scores))
	for i, s := range scores {
		player := s.Player
		if player == "" {
			player = "-"
		}
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(i+1),
			player,
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Level),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	return rows
}

func (m *ScoreboardModel) leaderboardRows() []table.Row {
	totals, err := m.store.PlayerTotals(maxPlayers)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, 0, len(totals))
	for i, p := range totals {
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(i+1),
			p.Player,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Games),
		})
	}
	return rows
}

func (m *ScoreboardModel) gameStats(gameID string) string {
	stats, err := m.store.GetGameStats(gameID)
	if err != nil || stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("best %d  ·  %d runs  ·  avg %.0f", stats.HighScore, stats.GamesCount, stats.AvgScore)
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.tabCursor = (m.tabCursor + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.tabCursor = (m.tabCursor + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerStyled(menuTitleStyle, "HIGH SCORES", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabBar(), m.width))
	b.WriteString("\n\n")

	var body string
	if len(m.rows) == 0 {
		body = boardEmptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	} else {
		body = m.table.View()
	}
	b.WriteString(centerText(boardFrameStyle.Render(body), m.width))
	b.WriteString("\n")

	if m.stats != "" {
		b.WriteString(centerStyled(menuDimStyle, m.stats, m.width))
	}
	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabBar lists every board, collapsing to the current one when the bar
// does not fit.
func (m ScoreboardModel) tabBar() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.tabCursor {
			parts[i] = boardActiveStyle.Render(tab.title)
		} else {
			parts[i] = boardTabStyle.Render(truncateRunes(tab.title, 12))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(bar) > m.width-4 {
		bar = boardActiveStyle.Render("‹ " + m.current().title + " ›")
	}
	return bar
}

// truncateRunes shortens s to at most n runes, marking the cut with a dot.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "."
}

func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard in its own program and reports whether
// the user went back rather than quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
