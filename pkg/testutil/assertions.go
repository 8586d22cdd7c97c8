package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/modelbrowser/pkg/loader"
)

// AssertUniqueIDs fails t when two specs share an ID.
func AssertUniqueIDs(t testing.TB, specs []loader.ElementSpec) {
	t.Helper()
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.ID] {
			t.Errorf("duplicate element id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

// GoldenFile compares output with a file under testdata. Set
// GENERATE_GOLDEN=1 to rewrite the file instead.
type GoldenFile struct {
	t      testing.TB
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
func NewGoldenFile(t testing.TB, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual with the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()
	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var exp, act string
		if i < len(expectedLines) {
			exp = expectedLines[i]
		}
		if i < len(actualLines) {
			act = actualLines[i]
		}
		if exp != act {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, exp, act)
			return
		}
	}
}

// AssertJSON compares actual, encoded as indented JSON, with the golden file.
func (g *GoldenFile) AssertJSON(actual any) {
	g.t.Helper()
	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}
	g.Assert(string(data))
}
