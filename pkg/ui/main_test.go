package ui

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Keep tests away from the real state and config directories.
	dir, err := os.MkdirTemp("", "mb-ui-test-")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_STATE_HOME", dir)
	os.Setenv("XDG_CONFIG_HOME", dir)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
