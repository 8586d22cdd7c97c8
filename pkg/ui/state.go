package ui

import (
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
)

// TreeState is the persistent expand state of the tree view, saved to
// tree-state.json in the state directory.
//
//	{
//	  "version": 1,
//	  "expanded": ["01J...", "01K..."]
//	}
//
// Only expanded element IDs are stored; everything else starts collapsed.
// IDs of elements that no longer exist are ignored on load and dropped on
// the next save.
type TreeState struct {
	Version  int      `json:"version"`
	Expanded []string `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence.
const TreeStateVersion = 1

// LoadTreeState reads the state at path. A missing or corrupt file yields an
// empty state.
func LoadTreeState(path string) *TreeState {
	state := &TreeState{Version: TreeStateVersion}
	if path == "" {
		return state
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// first run
		return state
	}
	var loaded TreeState
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return state
	}
	if loaded.Version > TreeStateVersion {
		log.Printf("warning: tree state version %d is newer than supported, using defaults", loaded.Version)
		return state
	}
	state.Expanded = loaded.Expanded
	return state
}

// SaveTreeState writes the expanded IDs to path. Errors are logged and do
// not interrupt the session.
func SaveTreeState(path string, expanded map[string]bool) {
	if path == "" {
		return
	}
	state := TreeState{Version: TreeStateVersion, Expanded: []string{}}
	for id, open := range expanded {
		if open {
			state.Expanded = append(state.Expanded, id)
		}
	}
	sort.Strings(state.Expanded)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", dir, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}
