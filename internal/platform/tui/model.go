package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Options configures persistence for a Model. The zero value plays without
// saving anything.
type Options struct {
	Store  *storage.Store // May be nil
	Slot   string         // Save slot; defaults to storage.DefaultSlot
	Logger *log.Logger
}

// Model is the Bubble Tea model for a 2048 game.
type Model struct {
	game       *t2048.Game
	screen     *core.Screen
	store      *storage.Store
	slot       string
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	status     core.Status
	keys       KeyMap
	help       help.Model
	best       int
	quitting   bool
	scoreSaved bool // Whether the current game over has been recorded
}

// NewModel creates a Bubble Tea model that plays game.
func NewModel(game *t2048.Game, cfg core.RuntimeConfig, opts Options) Model {
	if opts.Slot == "" {
		opts.Slot = storage.DefaultSlot
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  opts.Store,
		slot:   opts.Slot,
		logger: opts.Logger,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		status: game.Status(),
	}
	m.help.Width = cfg.ScreenW
	game.Reset(cfg)

	if m.store != nil {
		best, err := m.store.HighScore(game.Session().Config().Size)
		if err != nil {
			m.logger.Warn("could not read high score", "error", err)
		}
		m.best = best
	}
	// A resumed game that already ended was recorded before it was saved.
	m.scoreSaved = m.status.GameOver
	return m
}

// Init lays out the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.layout()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Moves are applied on the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Shot):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.persist()
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs one game step with the input collected since the last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	restarted := m.inputFrame.Has(core.ActionRestart)
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	if restarted && !result.Status.GameOver {
		m.scoreSaved = false
	}
	m.status = result.Status
	m.best = max(m.best, m.status.Score)

	if m.status.GameOver && !m.scoreSaved {
		m.recordScore()
		m.scoreSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// recordScore stores the finished game. Failures are logged; play continues.
func (m *Model) recordScore() {
	st := m.game.Session().State()
	m.logger.Info("game over", "score", st.Score, "max_tile", st.Board.MaxTile(), "moves", st.MoveCount)
	if m.store == nil || st.Score == 0 {
		return
	}
	if _, err := m.store.SaveScore(st); err != nil {
		m.logger.Error("could not save score", "error", err)
	}
}

// persist saves the game in progress so the next start resumes it.
func (m *Model) persist() {
	if m.store == nil {
		return
	}
	if err := SaveSession(m.store, m.slot, m.game.Session()); err != nil {
		m.logger.Error("could not save game", "slot", m.slot, "error", err)
		return
	}
	m.logger.Debug("game saved", "slot", m.slot, "moves", m.status.Moves)
}

// helpView returns the status and key help lines shown under the board.
func (m Model) helpView() string {
	return fmt.Sprintf("Best: %d  ", m.best) + m.help.View(m.keys)
}

// layout gives the game whatever height the help lines leave.
func (m *Model) layout() {
	h := max(m.config.ScreenH-lipgloss.Height(m.helpView()), 0)
	m.screen.Resize(m.config.ScreenW, h)
	cfg := m.config
	cfg.ScreenH = h
	m.game.Resize(cfg.ScreenW, cfg.ScreenH)
}

// saveScreenshot saves the current screen as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("2048_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpView()))
	return b.String()
}

// Status returns the game status as of the last tick.
func (m Model) Status() core.Status {
	return m.status
}

// Run plays game in the terminal until the user quits.
func Run(game *t2048.Game, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
