package play

import (
	"errors"
	"testing"

	"github.com/fabulatree/fabula/pkg/story"
)

func caveTree() *story.Tree[string] {
	tr := story.New[string]()
	tr.SetRoot("1", "You wake up in a cavern.")
	tr.Link("1", "2", "Go deeper")
	tr.Link("1", "3", "Climb out")
	return tr
}

func TestNewSessionNoRoot(t *testing.T) {
	if _, err := NewSession(story.New[string]()); !errors.Is(err, ErrNoRoot) {
		t.Errorf("err = %v, want ErrNoRoot", err)
	}
}

func TestSessionHappyPath(t *testing.T) {
	sess, err := NewSession(caveTree())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if sess.Done() {
		t.Fatal("session done before any choice")
	}
	if got := len(sess.Choices()); got != 2 {
		t.Fatalf("choices = %d, want 2", got)
	}

	node, err := sess.Choose(1)
	if err != nil {
		t.Fatalf("Choose(1): %v", err)
	}
	if node.ID != "2" {
		t.Errorf("current = %s, want 2", node.ID)
	}
	if !sess.Done() {
		t.Error("leaf node must terminate the session")
	}
	if sess.Choices() != nil {
		t.Error("finished session still offers choices")
	}
}

func TestSessionChooseErrors(t *testing.T) {
	sess, _ := NewSession(caveTree())

	for _, k := range []int{0, -1, 3} {
		if _, err := sess.Choose(k); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Choose(%d) err = %v, want ErrOutOfRange", k, err)
		}
		if sess.Current().ID != "1" {
			t.Fatalf("out-of-range choice moved the session to %s", sess.Current().ID)
		}
	}

	if _, err := sess.Choose(2); err != nil {
		t.Fatalf("Choose(2): %v", err)
	}
	if _, err := sess.Choose(1); !errors.Is(err, ErrFinished) {
		t.Errorf("err = %v, want ErrFinished", err)
	}
}

func TestSessionLeafRoot(t *testing.T) {
	tr := story.New[string]()
	tr.SetRoot("only", "The whole story.")

	sess, err := NewSession(tr)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if !sess.Done() {
		t.Error("childless root must start terminated")
	}
}

func TestSessionCycleRevisit(t *testing.T) {
	tr := story.New[string]()
	tr.SetRoot("1", "start")
	tr.Link("1", "2", "onward")
	tr.Link("2", "1", "")

	sess, _ := NewSession(tr)
	if _, err := sess.Choose(1); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	node, err := sess.Choose(1)
	if err != nil {
		t.Fatalf("Choose back: %v", err)
	}
	if node.ID != "1" || sess.Done() {
		t.Error("cycling back to the root must be allowed and non-terminal")
	}
}

func TestResume(t *testing.T) {
	tr := caveTree()

	sess, err := Resume(tr, "2")
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if sess.Current().ID != "2" || !sess.Done() {
		t.Errorf("resumed at %s done=%v, want 2 done=true", sess.Current().ID, sess.Done())
	}

	if _, err := Resume(tr, "nope"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}
