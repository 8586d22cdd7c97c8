package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

var (
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Element categories
	Package      lipgloss.AdaptiveColor
	Classifier   lipgloss.AdaptiveColor
	Feature      lipgloss.AdaptiveColor
	Relationship lipgloss.AdaptiveColor
	Diagram      lipgloss.AdaptiveColor
	Safety       lipgloss.AdaptiveColor // FTA and STPA elements

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style

	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	StatusText    lipgloss.Style
	ErrorText     lipgloss.Style
	DetailBorder  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Package:      lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Classifier:   lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"}, // Blue
		Feature:      lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Relationship: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Diagram:      lipgloss.AdaptiveColor{Light: "#36B37E", Dark: "#57D9A3"}, // Green
		Safety:       lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Footer = r.NewStyle().Foreground(t.Secondary)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.StatusText = r.NewStyle().Foreground(ColorSuccess)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.DetailBorder = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// KindIcon returns a one-cell glyph and a color for an element kind.
func (t Theme) KindIcon(k model.Kind) (string, lipgloss.AdaptiveColor) {
	switch {
	case k == model.KindPackage:
		return "▣", t.Package
	case k.Is(model.TraitDiagram):
		return "◫", t.Diagram
	case k == model.KindTopEvent || k == model.KindLoss || k == model.KindHazard || k == model.KindSituation:
		return "⚠", t.Safety
	case k.Is(model.TraitRelationship):
		return "→", t.Relationship
	case k.Is(model.TraitFeature):
		return "·", t.Feature
	case k.Is(model.TraitClassifier):
		return "◆", t.Classifier
	case k == model.KindPicture:
		return "▨", t.Subtext
	case k == model.KindMetadata:
		return "≡", t.Subtext
	default:
		return "•", t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
