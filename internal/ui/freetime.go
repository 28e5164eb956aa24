package ui

import (
	"fmt"
	"strings"
	"time"

	"snaptick/internal/analysis"
	"snaptick/internal/viewmodel"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// FreeTimeView shows how today's pending tasks split the day.
type FreeTimeView struct {
	vm     *viewmodel.ViewModel
	report *analysis.Report
	now    func() time.Time
	width  int
	styles *Styles
}

// NewFreeTimeView creates the free time screen.
func NewFreeTimeView(vm *viewmodel.ViewModel, styles *Styles, now func() time.Time) *FreeTimeView {
	if now == nil {
		now = time.Now
	}
	return &FreeTimeView{vm: vm, styles: styles, now: now}
}

// Compute analyzes today's list and reports the free time to the view model.
func (v *FreeTimeView) Compute() tea.Cmd {
	v.report = analysis.Analyze(v.vm.Today(), v.now())
	return v.vm.Handle(viewmodel.UpdateFreeTime{Value: v.report.Free})
}

// Report returns the last computed report.
func (v *FreeTimeView) Report() *analysis.Report { return v.report }

// SetWidth sets the screen width.
func (v *FreeTimeView) SetWidth(width int) { v.width = width }

// SetStyles swaps the styles after a theme change.
func (v *FreeTimeView) SetStyles(s *Styles) { v.styles = s }

// View renders one bar per task plus the free remainder.
func (v *FreeTimeView) View() string {
	var b strings.Builder
	b.WriteString(v.styles.PaneTitleStyle.Render("FREE TIME"))
	b.WriteString("\n\n")

	if v.report == nil {
		b.WriteString(v.styles.HelpStyle.Render("  Nothing analyzed yet"))
		return v.styles.PaneStyle.Width(max(v.width, 40)).Render(b.String())
	}

	r := v.report
	labelWidth := 20
	barWidth := max(10, v.width-labelWidth-16)

	bar := func(d time.Duration) int {
		return int(float64(barWidth) * float64(d) / float64(analysis.DayLength))
	}

	for _, s := range r.Slices {
		label := runewidth.FillRight(runewidth.Truncate(s.Title, labelWidth-1, "…"), labelWidth)
		b.WriteString("  " + v.styles.StatLabelStyle.Render(label))
		b.WriteString(v.styles.BarStyle.Render(strings.Repeat("█", bar(s.Duration))))
		b.WriteString(" " + v.styles.StatValueStyle.Render(formatDuration(s.Duration)))
		b.WriteString("\n")
	}
	if len(r.Slices) > 0 {
		b.WriteString("\n")
	}

	label := runewidth.FillRight("Free", labelWidth)
	b.WriteString("  " + v.styles.StatLabelStyle.Render(label))
	b.WriteString(v.styles.BarFreeStyle.Render(strings.Repeat("░", bar(r.Free))))
	b.WriteString(" " + v.styles.StatValueStyle.Render(formatDuration(r.Free)))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("  %d pending · %s busy · %s free", r.Total, formatDuration(r.Busy), formatDuration(r.Free))
	b.WriteString(v.styles.StatusStyle.Render(summary))

	return v.styles.PaneStyle.Width(max(v.width, 40)).Render(b.String())
}
