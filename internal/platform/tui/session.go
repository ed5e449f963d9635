package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/registry"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenDifficulty
	screenGame
	screenScoreboard
)

// activeGame is the game a session is running. It is shared by every copy
// of the session model so a dropped connection can close it.
type activeGame struct {
	mu     sync.Mutex
	game   registry.Game
	closed bool
}

func (a *activeGame) set(g registry.Game) {
	a.mu.Lock()
	a.game = g
	a.mu.Unlock()
}

// close closes the current game once.
func (a *activeGame) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if c, ok := a.game.(io.Closer); ok {
		_ = c.Close()
	}
}

// SessionModel manages the full session flow: menu, optional difficulty
// picker, game, scoreboard, and back to the menu.
type SessionModel struct {
	deps       Deps
	config     core.RuntimeConfig
	player     string
	screen     sessionScreen
	menu       MenuModel
	difficulty DifficultyModel
	scoreboard ScoreboardModel
	pending    registry.Game // created, waiting for a difficulty
	gameModel  Model
	active     *activeGame
	quitting   bool
}

// NewSessionModel creates a new session model for player.
func NewSessionModel(deps Deps, cfg core.RuntimeConfig, player string) SessionModel {
	return SessionModel{
		deps:   deps,
		config: cfg,
		player: player,
		menu:   NewMenuModel(deps.Store, cfg, player),
		active: &activeGame{},
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenDifficulty:
		return m.updateDifficulty(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode. The menu quits its own
// program on every choice, so those commands are dropped here.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.screen = screenScoreboard
		m.scoreboard = NewScoreboardModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			m.deps.logger().Error("create game", "game", m.menu.Selected().GameID, "error", err)
			return m.toMenu()
		}
		if _, ok := game.(DifficultySetter); ok {
			m.pending = game
			m.screen = screenDifficulty
			m.difficulty = NewDifficultyModel(game.Title(), m.config.ScreenW, m.config.ScreenH)
			return m, m.difficulty.Init()
		}
		return m.startGame(game)
	}

	return m, cmd
}

func (m SessionModel) updateDifficulty(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.difficulty.Update(msg)
	if d, ok := newModel.(DifficultyModel); ok {
		m.difficulty = d
	}

	switch {
	case m.difficulty.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.difficulty.WantsBack():
		m.pending = nil
		return m.toMenu()
	case m.difficulty.Selected() != nil:
		game := m.pending
		m.pending = nil
		if ds, ok := game.(DifficultySetter); ok {
			ds.SetDifficulty(*m.difficulty.Selected())
		}
		return m.startGame(game)
	}
	return m, cmd
}

func (m SessionModel) startGame(game registry.Game) (tea.Model, tea.Cmd) {
	m.active.set(game)
	m.gameModel = newMenuGameModel(game, m.deps, m.config)
	m.screen = screenGame
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = gameModel
	}

	if m.gameModel.BackToMenu() {
		m.active.set(nil)
		return m.toMenu()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// toMenu rebuilds the menu so play counts and bests are current.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.deps.Store, m.config, m.player)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenDifficulty:
		return m.difficulty.View()
	case screenGame:
		return m.gameModel.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// Close ends the session: a game still running is closed, which reports
// its run, and pending score submissions are waited for.
func (m SessionModel) Close() {
	m.active.close()
	if m.deps.Recorder != nil {
		m.deps.Recorder.Wait()
	}
}
