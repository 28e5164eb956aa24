package ui

import (
	"fmt"
	"strings"

	"snaptick/internal/config"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TaskList shows today's tasks and turns list keys into view model events.
type TaskList struct {
	vm     *viewmodel.ViewModel
	tasks  []storage.Task
	cursor int
	width  int
	height int
	styles *Styles
	keys   TaskKeyMap
}

// NewTaskList creates the task list screen.
func NewTaskList(vm *viewmodel.ViewModel, styles *Styles, keyCfg *config.KeysConfig) *TaskList {
	return &TaskList{
		vm:     vm,
		styles: styles,
		keys:   NewTaskKeyMap(keyCfg),
	}
}

// Refresh reloads the list from the view model, keeping the cursor in range.
func (p *TaskList) Refresh() {
	p.tasks = p.vm.Today()
	if p.cursor >= len(p.tasks) {
		p.cursor = max(0, len(p.tasks)-1)
	}
}

// SetSize sets the list dimensions.
func (p *TaskList) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetStyles swaps the styles after a theme change.
func (p *TaskList) SetStyles(s *Styles) { p.styles = s }

// Selected returns the task under the cursor.
func (p *TaskList) Selected() (storage.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tasks) {
		return storage.Task{}, false
	}
	return p.tasks[p.cursor], true
}

// Update handles list keys. Delete is left to the App so it can confirm.
func (p *TaskList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if len(p.tasks) > 0 {
			p.cursor = min(p.cursor+1, len(p.tasks)-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(keyMsg, p.keys.Top):
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Bottom):
		p.cursor = max(0, len(p.tasks)-1)

	case key.Matches(keyMsg, p.keys.Toggle):
		if t, ok := p.Selected(); ok {
			return p.vm.Handle(viewmodel.MarkCompleted{TaskID: t.ID, Completed: !t.Completed})
		}

	case key.Matches(keyMsg, p.keys.Edit):
		if t, ok := p.Selected(); ok {
			return p.vm.Handle(viewmodel.RequestEdit{TaskID: t.ID})
		}

	case key.Matches(keyMsg, p.keys.Pomodoro):
		if t, ok := p.Selected(); ok {
			return p.vm.Handle(viewmodel.RequestPomodoro{TaskID: t.ID})
		}
	}
	return nil
}

// View renders the task list.
func (p *TaskList) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("TODAY"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  Nothing planned. Press 'a' to add a task."))
		b.WriteString("\n")
		return p.frame(b.String())
	}

	maxTasks := p.height - 6
	if maxTasks < 3 {
		maxTasks = 5
	}
	startIdx := 0
	if p.cursor >= maxTasks {
		startIdx = p.cursor - maxTasks + 1
	}

	doneCount := 0
	for i, task := range p.tasks {
		if task.Completed {
			doneCount++
		}
		if i < startIdx || i >= startIdx+maxTasks {
			continue
		}
		b.WriteString(p.renderRow(task, i == p.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", doneCount, len(p.tasks))))
	b.WriteString("\n")

	return p.frame(b.String())
}

func (p *TaskList) frame(content string) string {
	return p.styles.PaneStyle.Width(max(p.width, 20)).Render(content)
}

// renderRow lays out: priority, checkbox, time range, title, flags.
func (p *TaskList) renderRow(task storage.Task, selected bool) string {
	checkbox := p.styles.TaskCheckboxPending
	if task.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}
	timeRange := fmt.Sprintf("%s-%s", task.StartTime, task.EndTime)
	flags := p.formatFlags(task)

	// 1 lead + 1 priority + 3 checkbox + 1 + time + 1 + text + 1 + flags
	fixed := 7 + runewidth.StringWidth(timeRange) + 1
	if w := lipgloss.Width(flags); w > 0 {
		fixed += w + 1
	}
	avail := p.width - 4 - fixed
	if avail < 5 {
		avail = 5
	}
	text := runewidth.Truncate(task.Title, avail, "..")
	pad := strings.Repeat(" ", max(1, avail-runewidth.StringWidth(text)+1))

	if selected {
		row := fmt.Sprintf("%s%s %s %s%s%s", p.formatPriorityBadge(task.Priority), checkbox, timeRange, text, pad, flags)
		return p.styles.TaskSelectedStyle.Render(" " + row + " ")
	}

	styled := p.styles.TaskPendingStyle.Render(text)
	if task.Completed {
		styled = p.styles.TaskDoneStyle.Render(text)
	}
	return fmt.Sprintf(" %s%s %s %s%s%s",
		p.formatPriorityBadge(task.Priority), checkbox, p.styles.TimeStyle.Render(timeRange), styled, pad, flags)
}

// formatPriorityBadge returns "!" for high, "~" for medium, " " for low.
func (p *TaskList) formatPriorityBadge(priority storage.Priority) string {
	switch priority {
	case storage.PriorityHigh:
		return p.styles.PriorityHighStyle.Render("!")
	case storage.PriorityMedium:
		return p.styles.PriorityMediumStyle.Render("~")
	default:
		return " "
	}
}

func (p *TaskList) formatFlags(task storage.Task) string {
	var parts []string
	if task.Category != "" {
		parts = append(parts, p.styles.CategoryStyle.Render(runewidth.Truncate(task.Category, 12, "..")))
	}
	if task.Reminder {
		parts = append(parts, p.styles.ReminderIcon)
	}
	if task.Repeat {
		parts = append(parts, p.styles.RepeatIcon)
	}
	return strings.Join(parts, " ")
}

// Stats returns task statistics.
func (p *TaskList) Stats() (done, total int) {
	for _, task := range p.tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(p.tasks)
}
