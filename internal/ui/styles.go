package ui

import (
	"snaptick/internal/config"
	"snaptick/internal/viewmodel"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the theme-dependent base colors.
type palette struct {
	bg, bgLight, text, textMuted string
}

var palettes = map[viewmodel.Theme]palette{
	viewmodel.ThemeLight:  {bg: "#FFFFFF", bgLight: "#E5E7EB", text: "#111827", textMuted: "#6B7280"},
	viewmodel.ThemeDark:   {bg: "#1F2937", bgLight: "#374151", text: "#F9FAFB", textMuted: "#9CA3AF"},
	viewmodel.ThemeAmoled: {bg: "#000000", bgLight: "#1A1A1A", text: "#FFFFFF", textMuted: "#8B8B8B"},
}

// Styles holds all application styles for one theme.
type Styles struct {
	Theme viewmodel.Theme

	// Colors
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle     lipgloss.Style
	DateStyle      lipgloss.Style
	StreakStyle    lipgloss.Style
	PaneStyle      lipgloss.Style
	PaneTitleStyle lipgloss.Style

	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string
	TimeStyle           lipgloss.Style
	CategoryStyle       lipgloss.Style
	ReminderIcon        string
	RepeatIcon          string

	// Priority badge styles
	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style

	BarStyle     lipgloss.Style
	BarFreeStyle lipgloss.Style
}

// NewStyles creates the styles for theme. Empty colors fall back to the
// built-in defaults.
func NewStyles(theme viewmodel.Theme, colors config.ColorsConfig) *Styles {
	p, ok := palettes[theme]
	if !ok {
		theme = viewmodel.DefaultTheme
		p = palettes[theme]
	}

	s := &Styles{Theme: theme}

	s.ColorPrimary = colorOrDefault(colors.Primary, "#7C3AED")
	s.ColorSecondary = colorOrDefault(colors.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(colors.Muted, "#6B7280")

	// Fixed semantic colors
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBg = lipgloss.Color(p.bg)
	s.ColorBgLight = lipgloss.Color(p.bgLight)
	s.ColorText = lipgloss.Color(p.text)
	s.ColorTextMuted = lipgloss.Color(p.textMuted)

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	// Tasks
	s.TaskDoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Strikethrough(true)

	s.TaskPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.TaskCheckboxDone = lipgloss.NewStyle().Foreground(s.ColorSuccess).Render("[✓]")
	s.TaskCheckboxPending = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("[ ]")

	s.TimeStyle = lipgloss.NewStyle().
		Foreground(s.ColorSecondary)

	s.CategoryStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.ReminderIcon = lipgloss.NewStyle().Foreground(s.ColorWarning).Render("⏰")
	s.RepeatIcon = lipgloss.NewStyle().Foreground(s.ColorSecondary).Render("↻")

	s.PriorityHighStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.PriorityMediumStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning)

	s.PriorityLowStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	// Help bar
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorSecondary).
		Bold(true)

	// Status messages
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	// Input
	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	// Summary stats
	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	// Free time bars
	s.BarStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary)

	s.BarFreeStyle = lipgloss.NewStyle().
		Foreground(s.ColorSecondary)
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
