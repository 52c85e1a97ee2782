// Package tui renders a game in the terminal with Bubble Tea.
//
// The model only reads engine snapshots and forwards key presses as engine
// events; all game rules stay in the game package.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/construction-wordle/internal/game"
)

// Styles holds the lipgloss styles for each tile kind.
type Styles struct {
	Title   lipgloss.Style
	Exact   lipgloss.Style
	Present lipgloss.Style
	Absent  lipgloss.Style
	Input   lipgloss.Style
	Focused lipgloss.Style
	Empty   lipgloss.Style
	Won     lipgloss.Style
	Lost    lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles mirrors the classic green/yellow/gray board.
func DefaultStyles() Styles {
	tile := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Exact:   tile.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		Present: tile.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		Absent:  tile.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
		Input:   tile.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")),
		Focused: tile.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")),
		Empty:   tile.Foreground(lipgloss.Color("8")),
		Won:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Lost:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// KeyMap defines the board's key bindings. Letters are not bound; any
// rune key types into the focused slot.
type KeyMap struct {
	Submit    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
	Restart   key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "move")),
		Right:     key.NewBinding(key.WithKeys("right")),
		Restart:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "restart")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Backspace, k.Left, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Model is the Bubble Tea model wrapping one engine.
type Model struct {
	engine *game.Engine
	styles Styles
	keys   KeyMap
	help   help.Model
	cursor int
}

// NewModel creates a model over e.
func NewModel(e *game.Engine) Model {
	return Model{engine: e, styles: DefaultStyles(), keys: DefaultKeyMap(), help: help.New()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.engine.Restart()
	case key.Matches(msg, m.keys.Submit):
		m.engine.Submit()
	case key.Matches(msg, m.keys.Backspace):
		m.engine.Backspace(m.cursor)
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Right):
		if m.cursor < game.WordLength-1 {
			m.cursor++
		}
		return m, nil
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if m.engine.TypeChar(m.cursor, string(r)) && m.cursor < game.WordLength-1 {
				m.cursor++
			}
		}
		return m, nil
	default:
		return m, nil
	}
	m.cursor = m.focus()
	return m, nil
}

// focus follows the engine's first empty slot, staying on the last slot
// when the row is full.
func (m Model) focus() int {
	if f := m.engine.Focus(); f >= 0 {
		return f
	}
	return game.WordLength - 1
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.engine.Snapshot()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Construction Wordle"))
	b.WriteString("\n")

	for _, row := range s.Rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}
	if !s.Status.Terminal() {
		b.WriteString(m.renderInput(s.Input, true))
		b.WriteString("\n")
		for i := len(s.Rows) + 1; i < s.MaxAttempts; i++ {
			b.WriteString(m.renderInput([game.WordLength]string{}, false))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch s.Status {
	case game.StatusWon:
		b.WriteString(m.styles.Won.Render(s.Message))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Restart, m.keys.Quit}))
	case game.StatusLost:
		b.WriteString(m.styles.Lost.Render(s.Message))
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Restart, m.keys.Quit}))
	default:
		b.WriteString(m.styles.Help.Render(fmt.Sprintf("attempt %d/%d", s.Attempts+1, s.MaxAttempts)))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRow(row game.Row) string {
	tiles := make([]string, game.WordLength)
	for i, mark := range row.Marks {
		letter := strings.ToUpper(row.Guess[i : i+1])
		switch mark {
		case game.MarkExact:
			tiles[i] = m.styles.Exact.Render(letter)
		case game.MarkPresent:
			tiles[i] = m.styles.Present.Render(letter)
		default:
			tiles[i] = m.styles.Absent.Render(letter)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// renderInput draws an input row; only the active row shows the cursor.
func (m Model) renderInput(slots [game.WordLength]string, active bool) string {
	tiles := make([]string, game.WordLength)
	for i, v := range slots {
		switch {
		case active && i == m.cursor:
			tiles[i] = m.styles.Focused.Render(orBlank(v))
		case v != "":
			tiles[i] = m.styles.Input.Render(v)
		default:
			tiles[i] = m.styles.Empty.Render("_")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func orBlank(s string) string {
	if s == "" {
		return " "
	}
	return s
}
