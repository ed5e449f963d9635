package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/storage"
	"github.com/vovakirdan/retrohub/internal/submit"
)

// recordTimeout bounds one background score submission.
const recordTimeout = 10 * time.Second

// Deps bundles the services a game session reports to. Every field is
// optional.
type Deps struct {
	Store    *storage.Store
	Recorder *submit.Recorder
	Logger   *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// record hands a finished run to the recorder.
func (d Deps) record(run core.RunSummary) {
	d.logger().Info("run ended", "game", run.GameKey, "score", run.Score, "level", run.Level, "reason", run.Reason)
	if d.Recorder != nil {
		d.Recorder.RecordAsync(run, recordTimeout)
	}
}

// countPlay bumps the game's play counter and puts it at the front of the
// player's recently played list.
func (d Deps) countPlay(gameID string) {
	if d.Store == nil {
		return
	}
	if err := d.Store.IncrementPlay(gameID); err != nil {
		d.logger().Warn("count play", "game", gameID, "error", err)
	}
	if d.Recorder == nil {
		return
	}
	if err := d.Store.RecordHistory(d.Recorder.Player(), gameID, time.Now()); err != nil {
		d.logger().Warn("record history", "game", gameID, "error", err)
	}
}

// Model is the Bubble Tea model for running arcade games.
type Model struct {
	game   registry.Game
	screen *core.Screen
	deps   Deps
	config core.RuntimeConfig
	keys   *KeyMapper
	frame  core.InputFrame

	pointerX     int
	pointerMoved bool

	state     core.GameState
	reporter  bool // game reports its own runs
	reported  bool // current game over already recorded
	allowBack bool
	quitting  bool
	back      bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, deps Deps, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		deps:   deps,
		config: cfg,
		keys:   NewKeyMapper(),
		frame:  core.NewInputFrame(),
	}

	if r, ok := game.(registry.RunReporter); ok {
		r.OnRunEnded(deps.record)
		m.reporter = true
	}
	return m
}

// newMenuGameModel creates a model whose Back key returns to a menu while
// the game is paused or over.
func newMenuGameModel(game registry.Game, deps Deps, cfg core.RuntimeConfig) Model {
	m := NewModel(game, deps, cfg)
	m.allowBack = true
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.deps.countPlay(m.game.ID())
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch m.keys.Press(msg, now) {
	case core.ActionQuit:
		m.quitting = true
		m.closeGame()
		return m, tea.Quit
	case core.ActionBack:
		if m.allowBack && (m.state.GameOver || m.state.Paused) {
			m.back = true
			m.closeGame()
		}
	}

	return m, nil
}

// handleMouse moves the paddle target and serves on a left click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.pointerX = msg.X
	m.pointerMoved = true
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.keys.Trigger(core.ActionFire)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games that cannot follow a resize start over.
	if !m.state.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick advances the game by one frame stamped with the tick time.
func (m Model) handleTick(at time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.back {
		return m, nil
	}

	m.frame.Clear()
	m.frame.At = at
	m.keys.Fill(&m.frame, at)
	if m.pointerMoved {
		m.frame.Point(m.pointerX)
		m.pointerMoved = false
	}

	wasOver := m.state.GameOver
	result := m.game.Step(m.frame)
	m.state = result.State

	if wasOver && !m.state.GameOver {
		m.reported = false
		m.deps.countPlay(m.game.ID())
	}
	if !m.reporter && m.state.GameOver && !m.reported {
		m.reported = true
		m.deps.record(core.RunSummary{GameKey: m.game.ID(), Score: m.state.Score, Reason: core.EndGameOver})
	}

	return m, tickCmd(m.config.TickRate)
}

// closeGame ends the session's game. Games that report their own runs do
// so from Close.
func (m *Model) closeGame() {
	m.keys.Release()
	if c, ok := m.game.(io.Closer); ok {
		if err := c.Close(); err != nil {
			m.deps.logger().Warn("close game", "game", m.game.ID(), "error", err)
		}
		return
	}
	if !m.reporter && !m.reported {
		m.reported = true
		m.deps.record(core.RunSummary{GameKey: m.game.ID(), Score: m.state.Score, Reason: core.EndQuit})
	}
}

// saveScreenshot saves the current screen as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.deps.logger().Warn("screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".retrohub", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.deps.logger().Warn("screenshot", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.deps.logger().Warn("screenshot", "error", err)
		return
	}
	m.deps.logger().Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run starts the Bubble Tea program with the given model and waits for
// pending score submissions once it exits.
func Run(game registry.Game, deps Deps, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, deps, cfg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err := p.Run()

	// Close again in case the program was killed before a quit key. It
	// reports an unfinished run at most once.
	if c, ok := game.(io.Closer); ok {
		_ = c.Close()
	}
	if deps.Recorder != nil {
		deps.Recorder.Wait()
	}
	return err
}
