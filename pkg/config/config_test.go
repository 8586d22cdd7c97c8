package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.DetailWidth != 60 {
		t.Errorf("expected detail width 60, got %d", cfg.UI.DetailWidth)
	}
	if cfg.UI.SplitRatio != 0.5 {
		t.Errorf("expected split ratio 0.5, got %f", cfg.UI.SplitRatio)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected debounce 200ms, got %v", cfg.Watch.Debounce)
	}
	if !cfg.Watch.IsEnabled() {
		t.Error("expected watching enabled by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.WordWrap != 60 {
		t.Errorf("expected default config, got word wrap %d", cfg.UI.WordWrap)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
models:
  - name: safety
    paths:
      - ~/work/safety.model.yaml
      - /absolute/hazards.model.yaml

ui:
  detail_width: 80
  split_ratio: 0.6
  hide_detail: true

state:
  dir: ~/state

watch:
  enabled: false
  debounce: 500ms
  poll_interval: 5s
  force_poll: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Models) != 1 || len(cfg.Models[0].Paths) != 2 {
		t.Fatalf("unexpected models %+v", cfg.Models)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "work/safety.model.yaml"); cfg.Models[0].Paths[0] != want {
		t.Errorf("expected expanded path %q, got %q", want, cfg.Models[0].Paths[0])
	}
	if cfg.Models[0].Paths[1] != "/absolute/hazards.model.yaml" {
		t.Errorf("expected absolute path preserved, got %q", cfg.Models[0].Paths[1])
	}
	if cfg.UI.DetailWidth != 80 || cfg.UI.SplitRatio != 0.6 || !cfg.UI.HideDetail {
		t.Errorf("unexpected ui config %+v", cfg.UI)
	}
	if cfg.UI.WordWrap != 60 {
		t.Errorf("expected unset word wrap to keep default, got %d", cfg.UI.WordWrap)
	}
	if cfg.State.Dir != filepath.Join(home, "state") {
		t.Errorf("unexpected state dir %q", cfg.State.Dir)
	}
	if cfg.Watch.IsEnabled() || !cfg.Watch.ForcePoll {
		t.Errorf("unexpected watch config %+v", cfg.Watch)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond || cfg.Watch.PollInterval != 5*time.Second {
		t.Errorf("unexpected durations %v %v", cfg.Watch.Debounce, cfg.Watch.PollInterval)
	}
}

func TestLoadFrom_ClampsSplitRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  split_ratio: 0.95\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.SplitRatio != 0.5 {
		t.Errorf("expected out-of-range ratio reset to 0.5, got %f", cfg.UI.SplitRatio)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	enabled := true
	cfg := Config{
		Models: []ModelSet{{Name: "m", Paths: []string{"/p/a.model.yaml"}}},
		UI:     UIConfig{DetailWidth: 70, WordWrap: 50, SplitRatio: 0.3},
		Watch:  WatchConfig{Enabled: &enabled, Debounce: time.Second},
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if len(loaded.Models) != 1 || loaded.Models[0].Paths[0] != "/p/a.model.yaml" {
		t.Errorf("unexpected models %+v", loaded.Models)
	}
	if loaded.UI.SplitRatio != 0.3 || loaded.UI.WordWrap != 50 {
		t.Errorf("unexpected ui %+v", loaded.UI)
	}
	if loaded.Watch.Debounce != time.Second || !loaded.Watch.IsEnabled() {
		t.Errorf("unexpected watch %+v", loaded.Watch)
	}
}

func TestFindModels(t *testing.T) {
	cfg := Config{Models: []ModelSet{{Name: "alpha"}, {Name: "Beta"}}}

	if m := cfg.FindModels("alpha"); m == nil || m.Name != "alpha" {
		t.Error("expected to find 'alpha'")
	}
	if m := cfg.FindModels("BETA"); m == nil || m.Name != "Beta" {
		t.Error("expected to find 'Beta' case-insensitively")
	}
	if cfg.FindModels("nonexistent") != nil {
		t.Error("expected nil for unknown model set")
	}
}

func TestStatePath(t *testing.T) {
	cfg := Config{State: StateConfig{Dir: "/var/mb"}}
	if got := cfg.StatePath(); got != "/var/mb/tree-state.json" {
		t.Errorf("unexpected state path %q", got)
	}

	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	if got := (Config{}).StatePath(); got != filepath.Join(dir, "mb", "tree-state.json") {
		t.Errorf("unexpected default state path %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandHome(tt.input); got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, want := ConfigDir(), filepath.Join(dir, "mb"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := ConfigPath(), filepath.Join(dir, "mb", "config.yaml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	if got, want := StateDir(), filepath.Join(dir, "mb"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
