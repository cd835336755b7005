package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fabulatree/fabula/pkg/session"
	"github.com/fabulatree/fabula/pkg/story"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tr := story.New[string]()
	tr.SetRoot("1", "You stand at the mouth of a cave.")
	tr.Link("1", "2", "Step inside")
	tr.Link("1", "3", "Walk away")

	st := &storyfile.Story{Title: "The Cavern", Tree: tr}
	srv := New(st, session.NewMemoryStore(), time.Hour, log.New(io.Discard))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeView(t *testing.T, resp *http.Response) sessionView {
	t.Helper()
	defer resp.Body.Close()
	var v sessionView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestPlayOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	// Start a session at the root.
	resp := postJSON(t, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	v := decodeView(t, resp)
	if v.SessionID == "" || v.Node.ID != "1" || v.Node.Done {
		t.Fatalf("unexpected create view: %+v", v)
	}
	if len(v.Node.Choices) != 2 || v.Node.Choices[0].Text != "Step inside" {
		t.Fatalf("choices = %+v", v.Node.Choices)
	}

	// Inspect without moving.
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s", ts.URL, v.SessionID))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeView(t, resp)
	if got.Node.ID != "1" {
		t.Errorf("GET moved the session to %s", got.Node.ID)
	}

	// Follow choice 1 to a leaf.
	resp = postJSON(t, fmt.Sprintf("%s/api/sessions/%s/choice", ts.URL, v.SessionID), `{"choice":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("choice status = %d", resp.StatusCode)
	}
	end := decodeView(t, resp)
	if end.Node.ID != "2" || !end.Node.Done || len(end.Node.Choices) != 0 {
		t.Fatalf("unexpected leaf view: %+v", end)
	}

	// Choosing after the end conflicts.
	resp = postJSON(t, fmt.Sprintf("%s/api/sessions/%s/choice", ts.URL, v.SessionID), `{"choice":1}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("choice after end status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestChoiceValidation(t *testing.T) {
	ts := newTestServer(t)

	v := decodeView(t, postJSON(t, ts.URL+"/api/sessions", ""))
	url := fmt.Sprintf("%s/api/sessions/%s/choice", ts.URL, v.SessionID)

	for _, body := range []string{`{"choice":0}`, `{"choice":3}`, `{"choice":-1}`, `not json`} {
		resp := postJSON(t, url, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q status = %d, want 400", body, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Recoverable: the session is still at the root afterwards.
	resp, _ := http.Get(fmt.Sprintf("%s/api/sessions/%s", ts.URL, v.SessionID))
	if got := decodeView(t, resp); got.Node.ID != "1" {
		t.Errorf("session moved to %s after rejected choices", got.Node.ID)
	}
}

func TestChoiceRefreshesExpiry(t *testing.T) {
	tr := story.New[string]()
	tr.SetRoot("1", "You stand at the mouth of a cave.")
	tr.Link("1", "2", "Step inside")
	tr.Link("2", "3", "Light a torch")

	store := session.NewMemoryStore()
	st := &storyfile.Story{Title: "The Cavern", Tree: tr}
	srv := New(st, store, time.Hour, log.New(io.Discard))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	v := decodeView(t, postJSON(t, ts.URL+"/api/sessions", ""))

	// Age the session so it is about to expire.
	ctx := context.Background()
	state, err := store.Get(ctx, v.SessionID)
	if err != nil || state == nil {
		t.Fatalf("Get: %v, %v", state, err)
	}
	state.ExpiresAt = time.Now().Add(time.Minute)
	if err := store.Set(ctx, state); err != nil {
		t.Fatalf("Set: %v", err)
	}

	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/choice", ts.URL, v.SessionID), `{"choice":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("choice status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// An active session is kept alive: the choice pushed expiry well past
	// the one minute left before it.
	refreshed, err := store.Get(ctx, v.SessionID)
	if err != nil || refreshed == nil {
		t.Fatalf("Get after choice: %v, %v", refreshed, err)
	}
	if !refreshed.ExpiresAt.After(time.Now().Add(30 * time.Minute)) {
		t.Errorf("choice did not refresh expiry: %v", refreshed.ExpiresAt)
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %s", body.Error.Code)
	}
}

func TestCreateWithoutRoot(t *testing.T) {
	st := &storyfile.Story{Tree: story.New[string]()}
	srv := New(st, session.NewMemoryStore(), 0, log.New(io.Discard))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/sessions", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
