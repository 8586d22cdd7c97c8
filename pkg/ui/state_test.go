package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadTreeState_Missing(t *testing.T) {
	state := LoadTreeState(filepath.Join(t.TempDir(), "none.json"))
	if state.Version != TreeStateVersion || len(state.Expanded) != 0 {
		t.Errorf("expected empty state, got %+v", state)
	}
	if LoadTreeState("").Version != TreeStateVersion {
		t.Error("expected empty path to yield an empty state")
	}
}

func TestLoadTreeState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree-state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if state := LoadTreeState(path); len(state.Expanded) != 0 {
		t.Errorf("expected corrupt file ignored, got %+v", state)
	}
}

func TestLoadTreeState_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree-state.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "expanded": ["a"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if state := LoadTreeState(path); len(state.Expanded) != 0 {
		t.Errorf("expected newer version ignored, got %+v", state)
	}
}

func TestSaveTreeState_SortedExpandedOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tree-state.json")
	SaveTreeState(path, map[string]bool{"b": true, "c": false, "a": true})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected state file written: %v", err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Errorf("expected version in file, got %s", data)
	}
	state := LoadTreeState(path)
	if !reflect.DeepEqual(state.Expanded, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", state.Expanded)
	}
}

func TestSaveTreeState_EmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree-state.json")
	SaveTreeState(path, nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"expanded": []`) {
		t.Errorf("expected empty array, got %s", data)
	}
}
