package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fabulatree/fabula/pkg/story"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

func testStory() *storyfile.Story {
	tr := story.New[string]()
	tr.SetRoot("1", "You wake up in a cavern.")
	tr.Link("1", "2", "Go deeper")
	tr.Link("1", "3", "Climb out")
	return &storyfile.Story{Title: "The Cavern", Tree: tr}
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m PlayModel, s string) PlayModel {
	t.Helper()
	next, _ := m.Update(key(s))
	got, ok := next.(PlayModel)
	if !ok {
		t.Fatalf("Update returned %T, want PlayModel", next)
	}
	return got
}

func TestPlayModelNavigation(t *testing.T) {
	m, err := NewPlayModel(testStory())
	if err != nil {
		t.Fatalf("NewPlayModel: %v", err)
	}

	if m.Cursor != 0 {
		t.Fatalf("initial cursor = %d", m.Cursor)
	}

	m = step(t, m, "j")
	if m.Cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.Cursor)
	}

	// Cursor is clamped at the last choice.
	m = step(t, m, "j")
	if m.Cursor != 1 {
		t.Errorf("cursor ran past the last choice: %d", m.Cursor)
	}

	m = step(t, m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.Cursor)
	}
}

func TestPlayModelChoose(t *testing.T) {
	m, err := NewPlayModel(testStory())
	if err != nil {
		t.Fatal(err)
	}

	m = step(t, m, "j")     // point at "Climb out"
	m = step(t, m, "enter") // follow it

	if got := m.Session.Current().ID; got != "3" {
		t.Errorf("current = %s, want 3", got)
	}
	if !m.Session.Done() {
		t.Error("leaf node should end the session")
	}
	if m.Cursor != 0 {
		t.Errorf("cursor not reset after choosing: %d", m.Cursor)
	}

	view := m.View()
	if !strings.Contains(view, "Climb out") {
		t.Errorf("end view missing node text:\n%s", view)
	}
	if !strings.Contains(view, "journey ends") {
		t.Errorf("end view missing closing line:\n%s", view)
	}
}

func TestPlayModelQuitMarksAborted(t *testing.T) {
	m, err := NewPlayModel(testStory())
	if err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(key("q"))
	got := next.(PlayModel)
	if cmd == nil {
		t.Error("q did not quit")
	}
	if !got.Aborted {
		t.Error("quitting mid-story should mark the run aborted")
	}
}

func TestPlayModelViewListsChoices(t *testing.T) {
	m, err := NewPlayModel(testStory())
	if err != nil {
		t.Fatal(err)
	}

	view := m.View()
	for _, want := range []string{"The Cavern", "You wake up in a cavern.", "1. Go deeper", "2. Climb out"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
