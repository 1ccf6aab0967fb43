package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours the chrome around the preview. The preview itself uses the
// frame colours from the renderer.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // current word
	Secondary lipgloss.Color // header
	Accent    lipgloss.Color // interval plot
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// Themes in the order the theme key cycles through them. The first one is
// the default.
var Themes = []Theme{
	{"cyberpunk", "#ff2bd6", "#2de2e6", "#f6f930", "#f2f2f2", "#6b6b80", "#3cf281", "#ff9f1c", "#ff3860"},
	{"retro", "#33ff33", "#1fb81f", "#a8ffa8", "#33ff33", "#1a5c1a", "#a8ffa8", "#e6e600", "#ff5050"},
	{"minimal", "#ffffff", "#bdbdbd", "#4aa3ff", "#e8e8e8", "#7a7a7a", "#5cd65c", "#ffb347", "#ff5c5c"},
	{"ocean", "#48b5ff", "#7fdbff", "#ffd166", "#e3f2fd", "#4f7a94", "#06d6a0", "#ffc857", "#ef476f"},
}

// ThemeNames lists the theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// LookupTheme returns the named theme or an error listing the choices.
func LookupTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme: %s (available: %s)", name, strings.Join(ThemeNames(), ", "))
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	if t, err := LookupTheme(name); err == nil {
		return t
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
