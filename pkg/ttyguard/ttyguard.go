// Package ttyguard keeps terminal probes out of machine-readable output.
//
// Importing bubbletea lets lipgloss query the terminal for its background
// color on startup. The OSC/DSR sequences it writes corrupt JSON that a
// script reads from stdout. Import this package for its side effect before
// anything that pulls in lipgloss:
//
//	import _ "github.com/vanderheijden86/modelbrowser/pkg/ttyguard"
//
// For non-interactive invocations it sets CI=1, which termenv treats as a
// signal to skip probing.
package ttyguard

import (
	"os"
	"strings"
)

func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !ShouldSuppress(os.Args, os.Getenv("MB_ROBOT") == "1") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// ShouldSuppress reports whether args describe a run that prints for a
// machine instead of starting the browser.
func ShouldSuppress(args []string, envRobot bool) bool {
	if envRobot {
		return true
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--robot-") || strings.HasPrefix(arg, "-robot-") {
			return true
		}
		switch arg {
		case "--version", "-version", "--help", "-help", "-h":
			return true
		}
	}
	return false
}
