package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/config"
)

// MenuChoice is what the player picked in the start menu.
type MenuChoice int

const (
	MenuNone     MenuChoice = iota // Still choosing, or quit
	MenuContinue                   // Resume the saved game
	MenuNewGame                    // Start fresh with the chosen size and difficulty
	MenuScores                     // Open the scoreboard
)

// MenuSelection is the start menu result.
type MenuSelection struct {
	Choice     MenuChoice
	Size       int
	Difficulty config.DifficultyPreset
}

// MenuKeyMap defines the key bindings for the start menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h", "a"), key.WithHelp("←", "less")),
		Right:  key.NewBinding(key.WithKeys("right", "l", "d"), key.WithHelp("→", "more")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type menuItem int

const (
	itemContinue menuItem = iota
	itemNewGame
	itemSize
	itemDifficulty
	itemScores
	itemQuit
)

// MenuSizes are the board sizes offered by the start menu.
var MenuSizes = []int{3, 4, 5, 6}

var menuDifficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

// MenuModel is the start menu shown before local play.
type MenuModel struct {
	items      []menuItem
	cursor     int
	sizeIdx    int
	diffIdx    int
	savedScore int // Score of the saved game; ignored without one
	keys       MenuKeyMap
	help       help.Model
	width      int
	height     int
	selection  MenuSelection
}

// NewMenuModel builds the menu. hasSave adds a Continue entry showing
// savedScore. size and difficulty preselect the options.
func NewMenuModel(hasSave bool, savedScore, size int, difficulty config.DifficultyPreset, width, height int) MenuModel {
	items := []menuItem{itemNewGame, itemSize, itemDifficulty, itemScores, itemQuit}
	if hasSave {
		items = append([]menuItem{itemContinue}, items...)
	}

	sizeIdx := slices.Index(MenuSizes, size)
	if sizeIdx < 0 {
		sizeIdx = slices.Index(MenuSizes, 4)
	}
	diffIdx := slices.Index(menuDifficulties, difficulty)
	if diffIdx < 0 {
		diffIdx = slices.Index(menuDifficulties, config.DifficultyNormal)
	}

	m := MenuModel{
		items:      items,
		sizeIdx:    sizeIdx,
		diffIdx:    diffIdx,
		savedScore: savedScore,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
		width:      width,
		height:     height,
	}
	m.help.Width = width
	return m
}

// Init initializes the model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.selection = MenuSelection{}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Right):
		m.cycle(1)
	case key.Matches(msg, m.keys.Select):
		return m.choose()
	}
	return m, nil
}

// cycle steps the option under the cursor.
func (m *MenuModel) cycle(delta int) {
	switch m.items[m.cursor] {
	case itemSize:
		m.sizeIdx = (m.sizeIdx + delta + len(MenuSizes)) % len(MenuSizes)
	case itemDifficulty:
		m.diffIdx = (m.diffIdx + delta + len(menuDifficulties)) % len(menuDifficulties)
	}
}

func (m MenuModel) choose() (tea.Model, tea.Cmd) {
	var choice MenuChoice
	switch m.items[m.cursor] {
	case itemContinue:
		choice = MenuContinue
	case itemNewGame:
		choice = MenuNewGame
	case itemScores:
		choice = MenuScores
	case itemQuit:
		choice = MenuNone
	default:
		m.cycle(1)
		return m, nil
	}
	m.selection = MenuSelection{
		Choice:     choice,
		Size:       MenuSizes[m.sizeIdx],
		Difficulty: menuDifficulties[m.diffIdx],
	}
	return m, tea.Quit
}

// Selection returns the result. Choice is MenuNone after quitting.
func (m MenuModel) Selection() MenuSelection {
	return m.selection
}

func (m MenuModel) itemLabel(item menuItem) string {
	switch item {
	case itemContinue:
		return fmt.Sprintf("Continue (score %d)", m.savedScore)
	case itemNewGame:
		return "New game"
	case itemSize:
		size := MenuSizes[m.sizeIdx]
		return fmt.Sprintf("Board: < %dx%d >", size, size)
	case itemDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", menuDifficulties[m.diffIdx])
	case itemScores:
		return "High scores"
	default:
		return "Quit"
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + m.itemLabel(item)
		if i == m.cursor {
			line = selectedStyle.Render("> " + m.itemLabel(item))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// RunMenu shows the start menu and returns the selection.
func RunMenu(hasSave bool, savedScore, size int, difficulty config.DifficultyPreset, width, height int) (MenuSelection, error) {
	p := tea.NewProgram(
		NewMenuModel(hasSave, savedScore, size, difficulty, width, height),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return MenuSelection{}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuSelection{}, nil
	}
	return m.Selection(), nil
}
