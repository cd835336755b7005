package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fabulatree/fabula/pkg/play"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PlayModel - Full-screen interactive story traversal
// =============================================================================

// PlayModel is the bubbletea model for full-screen play.
type PlayModel struct {
	Title   string
	Session *play.Session[string]
	Cursor  int
	Aborted bool
}

// NewPlayModel creates a play model positioned at the story root.
func NewPlayModel(st *storyfile.Story) (PlayModel, error) {
	sess, err := play.NewSession(st.Tree)
	if err != nil {
		return PlayModel{}, err
	}
	return PlayModel{Title: st.Title, Session: sess}, nil
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Aborted = !m.Session.Done()
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Session.Choices())-1 {
			m.Cursor++
		}
	case "enter":
		if m.Session.Done() {
			return m, tea.Quit
		}
		// Choices are numbered from 1; the cursor is zero-based.
		if _, err := m.Session.Choose(m.Cursor + 1); err == nil {
			m.Cursor = 0
		}
	}
	return m, nil
}

func (m PlayModel) View() string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Adventure"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	node := m.Session.Current()
	b.WriteString(StyleValue.Render(node.Text()))
	b.WriteString("\n\n")

	if m.Session.Done() {
		b.WriteString(StyleSuccess.Render("The journey ends here."))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("press enter to leave"))
		return b.String()
	}

	for i, child := range m.Session.Choices() {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%d. %s", cursor, i+1, child.Text())
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// runPlayTUI drives the full-screen play loop to completion.
func (c *CLI) runPlayTUI(st *storyfile.Story) error {
	model, err := NewPlayModel(st)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}

	if m, ok := final.(PlayModel); ok && m.Aborted {
		c.Logger.Debug("adventure abandoned", "node", m.Session.Current().ID)
	}
	return nil
}
