package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"snaptick/internal/storage"
)

// Theme is the color scheme. The ordinal is what gets persisted.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
	ThemeAmoled
)

// DefaultTheme is used until the stored preference has been read.
const DefaultTheme = ThemeDark

var themeNames = []string{"light", "dark", "amoled"}

func (t Theme) String() string {
	if t < 0 || int(t) >= len(themeNames) {
		return fmt.Sprintf("Theme(%d)", int(t))
	}
	return themeNames[t]
}

// ThemeFromOrdinal maps a stored ordinal back to a Theme. Unknown values
// fall back to DefaultTheme.
func ThemeFromOrdinal(n int) Theme {
	if n < 0 || n >= len(themeNames) {
		return DefaultTheme
	}
	return Theme(n)
}

// ParseTheme accepts a theme name.
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range themeNames {
		if s == name {
			return Theme(i), nil
		}
	}
	return DefaultTheme, fmt.Errorf("invalid theme %q: must be light, dark, or amoled", s)
}

// State is the in-memory app state shown by the presentation layer. Theme,
// SortBy and Streak mirror stored preferences; FreeTime is transient.
type State struct {
	Theme        Theme
	SortBy       storage.SortOrder
	Streak       int
	FreeTime     time.Duration
	BuildVersion string
}

// DefaultState is the state before preferences are loaded.
func DefaultState(version string) State {
	return State{
		Theme:        DefaultTheme,
		SortBy:       storage.DefaultSortOrder,
		BuildVersion: version,
	}
}
