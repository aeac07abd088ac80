package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// View selects which main panel the dashboard shows
type View string

const (
	ViewGraph View = "graph"
	ViewTree  View = "tree"
)

// Valid reports whether v is a view the dashboard knows how to show
func (v View) Valid() bool {
	return v == ViewGraph || v == ViewTree
}

// State is the slice of dashboard state that survives restarts
type State struct {
	View View `json:"view"`
}

// StateStore persists the view selection between sessions. The zero
// value before Restore shows the graph view.
type StateStore struct {
	path string

	mu    sync.Mutex
	state State
}

// NewStateStore creates a store writing to state.json under dir
func NewStateStore(dir string) *StateStore {
	return &StateStore{
		path:  filepath.Join(dir, "state.json"),
		state: State{View: ViewGraph},
	}
}

// Show switches the active view. With persist set the choice is written
// to disk so the next session starts on the same view.
func (s *StateStore) Show(view View, persist bool) error {
	if !view.Valid() {
		view = ViewGraph
	}
	s.mu.Lock()
	s.state.View = view
	s.mu.Unlock()

	if !persist {
		return nil
	}
	return s.save()
}

// View returns the currently active view
func (s *StateStore) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View
}

// Restore loads the saved state from disk. A missing, unreadable or
// invalid file falls back to the graph view without writing anything
// back.
func (s *StateStore) Restore() View {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.reset()
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil || !st.View.Valid() {
		return s.reset()
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return st.View
}

func (s *StateStore) reset() View {
	s.mu.Lock()
	s.state = State{View: ViewGraph}
	s.mu.Unlock()
	return ViewGraph
}

func (s *StateStore) save() error {
	s.mu.Lock()
	data, err := json.Marshal(s.state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
