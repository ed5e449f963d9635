package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/storage"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID   string
	Title    string
	Category string
	Plays    int
	Best     int
}

// MenuModel is the Bubble Tea model for the game picker menu.
type MenuModel struct {
	items          []MenuItem
	recent         []string // titles, newest first
	cursor         int
	width          int
	height         int
	player         string
	config         core.RuntimeConfig
	keys           MenuKeyMap
	help           help.Model
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model. Bests are the player's own when
// a player is given, the all-time high otherwise.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, player string) MenuModel {
	return MenuModel{
		items:  loadMenuItems(store, player),
		recent: loadRecent(store, player),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		player: player,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

func loadMenuItems(store *storage.Store, player string) []MenuItem {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))

	var plays map[string]int
	if store != nil {
		plays, _ = store.PlayCounts()
	}

	for _, g := range games {
		item := MenuItem{
			GameID:   g.ID,
			Title:    g.Title,
			Category: g.Category,
			Plays:    plays[g.ID],
		}
		if store != nil {
			if player != "" {
				item.Best, _, _ = store.PlayerBest(g.ID, player)
			} else {
				item.Best, _ = store.HighScore(g.ID)
			}
		}
		items = append(items, item)
	}
	return items
}

// loadRecent returns the titles of the player's recently played games.
func loadRecent(store *storage.Store, player string) []string {
	if store == nil || player == "" {
		return nil
	}
	entries, err := store.RecentGames(player)
	if err != nil {
		return nil
	}
	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		if info, ok := registry.Lookup(e.GameID); ok {
			titles = append(titles, info.Title)
		}
	}
	return titles
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(m.keys, msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle, "R E T R O H U B", m.width))
	b.WriteString("\n\n")

	subtitle := "Select a game"
	if m.player != "" {
		subtitle = fmt.Sprintf("Welcome, %s. Select a game", m.player)
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerStyled(menuDimStyle, "No games installed.", m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := fmt.Sprintf("%-18s %6d plays   best %6d", item.Title, item.Plays, item.Best)
		if i == m.cursor {
			b.WriteString(centerStyled(menuCurStyle, "> "+line, m.width))
		} else {
			b.WriteString(centerText("  "+line, m.width))
		}
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(centerStyled(menuDimStyle, "Recently played: "+strings.Join(m.recent, ", "), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuDimStyle, m.help.View(m.keys), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// Recent returns the titles of the player's recently played games.
func (m MenuModel) Recent() []string {
	return m.recent
}

// Items returns the listed games.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerStyled centers text and then applies style, so the padding stays
// unstyled.
func centerStyled(style lipgloss.Style, text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return style.Render(text)
	}
	return strings.Repeat(" ", (width-w)/2) + style.Render(text)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, player string) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg, player),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.GameID = m.Selected().GameID
	}
	return result, nil
}
