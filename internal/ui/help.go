package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetStyles swaps the styles after a theme change.
func (h *HelpOverlay) SetStyles(s *Styles) { h.styles = s }

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	row := func(k, desc string) string {
		return keyStyle.Render(k) + descStyle.Render(desc) + "\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("snaptick - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	b.WriteString(row("f", "Free time"))
	b.WriteString(row("s", "Settings"))
	b.WriteString(row("Esc", "Back to today"))
	b.WriteString(row("?", "Toggle help"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Today"))
	b.WriteString("\n")
	b.WriteString(row("a", "Add task"))
	b.WriteString(row("e / Enter", "Edit task"))
	b.WriteString(row("d / Space", "Toggle done"))
	b.WriteString(row("x", "Delete task"))
	b.WriteString(row("p", "Pomodoro"))
	b.WriteString(row("j / k", "Navigate up/down"))
	b.WriteString(row("g / G", "Go to top/bottom"))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Edit"))
	b.WriteString("\n")
	b.WriteString(row("Tab", "Next field"))
	b.WriteString(row("Space", "Toggle priority/reminder/repeat"))
	b.WriteString(row("Enter", "Save"))
	b.WriteString(row("Esc", "Cancel"))

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return RenderCentered(overlayStyle.Render(b.String()), h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
