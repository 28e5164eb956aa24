package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"snaptick/internal/config"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField int

const (
	fieldTitle formField = iota
	fieldStart
	fieldEnd
	fieldCategory
	fieldPomodoro
	fieldWeekdays
	fieldPriority
	fieldReminder
	fieldRepeat
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:    "Title",
	fieldStart:    "Start",
	fieldEnd:      "End",
	fieldCategory: "Category",
	fieldPomodoro: "Pomodoro",
	fieldWeekdays: "Repeat on",
	fieldPriority: "Priority",
	fieldReminder: "Reminder",
	fieldRepeat:   "Repeat",
}

// EditForm edits the view model's staged task. Every change is sent to the
// view model as a field event; nothing is stored until the form is saved.
type EditForm struct {
	vm     *viewmodel.ViewModel
	inputs map[formField]*textinput.Model
	focus  formField
	err    string
	width  int
	styles *Styles
	keys   FormKeyMap
}

// NewEditForm creates the edit form.
func NewEditForm(vm *viewmodel.ViewModel, styles *Styles, keyCfg *config.KeysConfig) *EditForm {
	newInput := func(placeholder string, limit int) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 40
		return &ti
	}
	return &EditForm{
		vm: vm,
		inputs: map[formField]*textinput.Model{
			fieldTitle:    newInput("What needs to be done?", 200),
			fieldStart:    newInput("HH:MM", 8),
			fieldEnd:      newInput("HH:MM", 8),
			fieldCategory: newInput("work, home, ...", 40),
			fieldPomodoro: newInput("minutes", 4),
			fieldWeekdays: newInput("mon,wed,fri (empty = every day)", 40),
		},
		styles: styles,
		keys:   NewFormKeyMap(keyCfg),
	}
}

// Load fills the form from the staged task and focuses the title.
func (f *EditForm) Load() tea.Cmd {
	t := f.vm.Staged()
	f.inputs[fieldTitle].SetValue(t.Title)
	f.inputs[fieldStart].SetValue(t.StartTime.String())
	f.inputs[fieldEnd].SetValue(t.EndTime.String())
	f.inputs[fieldCategory].SetValue(t.Category)
	f.inputs[fieldPomodoro].SetValue("")
	if t.PomodoroMinutes > 0 {
		f.inputs[fieldPomodoro].SetValue(strconv.Itoa(t.PomodoroMinutes))
	}
	f.inputs[fieldWeekdays].SetValue(formatWeekdays(t.RepeatWeekdays))
	f.err = ""
	return f.setFocus(fieldTitle)
}

// IsNew reports whether saving will create a task rather than update one.
func (f *EditForm) IsNew() bool { return f.vm.Staged().ID == 0 }

// SetWidth sets the form width.
func (f *EditForm) SetWidth(width int) {
	f.width = width
	for _, in := range f.inputs {
		in.Width = max(10, width-20)
	}
}

// SetStyles swaps the styles after a theme change.
func (f *EditForm) SetStyles(s *Styles) { f.styles = s }

func (f *EditForm) setFocus(field formField) tea.Cmd {
	for id, in := range f.inputs {
		if id != field {
			in.Blur()
		}
	}
	f.focus = field
	if in, ok := f.inputs[field]; ok {
		return in.Focus()
	}
	return nil
}

// Update handles form keys. Saving returns the Create or Update command.
func (f *EditForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if in, ok := f.inputs[f.focus]; ok {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return cmd
		}
		return nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Confirm):
		return f.Submit()
	case key.Matches(keyMsg, f.keys.Next):
		return f.setFocus((f.focus + 1) % fieldCount)
	case key.Matches(keyMsg, f.keys.Prev):
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	}

	in, isText := f.inputs[f.focus]
	if !isText {
		if key.Matches(keyMsg, f.keys.Cycle) {
			f.cycle(keyMsg.String() == "left")
		}
		return nil
	}

	var cmd tea.Cmd
	*in, cmd = in.Update(keyMsg)
	f.sync(f.focus)
	return cmd
}

// cycle flips a toggle field or steps the priority.
func (f *EditForm) cycle(back bool) {
	t := f.vm.Staged()
	switch f.focus {
	case fieldPriority:
		step := 1
		if back {
			step = 2
		}
		f.vm.Handle(viewmodel.SetPriority{Priority: (t.Priority + storage.Priority(step)) % 3})
	case fieldReminder:
		f.vm.Handle(viewmodel.SetReminder{Enabled: !t.Reminder})
	case fieldRepeat:
		f.vm.Handle(viewmodel.SetRepeat{Enabled: !t.Repeat})
	}
}

// sync sends the value of a text field to the view model when it parses.
func (f *EditForm) sync(field formField) error {
	value := strings.TrimSpace(f.inputs[field].Value())
	var ev viewmodel.Event

	switch field {
	case fieldTitle:
		ev = viewmodel.SetTitle{Title: value}
	case fieldCategory:
		ev = viewmodel.SetCategory{Category: value}
	case fieldStart, fieldEnd:
		tod, err := storage.ParseTimeOfDay(value)
		if err != nil {
			return fmt.Errorf("%s: %w", fieldLabels[field], err)
		}
		if field == fieldStart {
			ev = viewmodel.SetStartTime{Time: tod}
		} else {
			ev = viewmodel.SetEndTime{Time: tod}
		}
	case fieldPomodoro:
		n := 0
		if value != "" {
			var err error
			if n, err = strconv.Atoi(value); err != nil || n < 0 {
				return fmt.Errorf("%s: %q is not a number of minutes", fieldLabels[field], value)
			}
		}
		ev = viewmodel.SetPomodoro{Minutes: n}
	case fieldWeekdays:
		days, err := storage.ParseWeekdays(value)
		if err != nil {
			return fmt.Errorf("%s: %w", fieldLabels[field], err)
		}
		ev = viewmodel.SetRepeatWeekdays{Days: days}
	default:
		return nil
	}

	f.vm.Handle(ev)
	return nil
}

// Submit syncs every field and commits the staged task. Parse and validation
// errors stay on the form.
func (f *EditForm) Submit() tea.Cmd {
	for field := range f.inputs {
		if err := f.sync(field); err != nil {
			f.err = err.Error()
			return nil
		}
	}
	staged := f.vm.Staged()
	if err := staged.Validate(); err != nil {
		f.err = err.Error()
		return nil
	}
	f.err = ""
	if staged.ID == 0 {
		return f.vm.Handle(viewmodel.Create{Task: staged})
	}
	return f.vm.Handle(viewmodel.Update{})
}

// Err returns the current form error, if any.
func (f *EditForm) Err() string { return f.err }

// View renders the form.
func (f *EditForm) View() string {
	var b strings.Builder

	title := "EDIT TASK"
	if f.IsNew() {
		title = "NEW TASK"
	}
	b.WriteString(f.styles.PaneTitleStyle.Render(title))
	b.WriteString("\n\n")

	t := f.vm.Staged()
	labelStyle := f.styles.StatLabelStyle.Width(12)
	for field := formField(0); field < fieldCount; field++ {
		label := fieldLabels[field]
		if field == f.focus {
			b.WriteString(f.styles.InputPromptStyle.Render("› "))
			label = f.styles.InputPromptStyle.Width(12).Render(label)
		} else {
			b.WriteString("  ")
			label = labelStyle.Render(label)
		}
		b.WriteString(label)

		switch field {
		case fieldPriority:
			b.WriteString(f.styles.StatValueStyle.Render(t.Priority.String()))
		case fieldReminder:
			b.WriteString(f.styles.StatValueStyle.Render(onOff(t.Reminder)))
		case fieldRepeat:
			b.WriteString(f.styles.StatValueStyle.Render(onOff(t.Repeat)))
		default:
			b.WriteString(f.inputs[field].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + f.styles.StatLabelStyle.Render("Duration: ") + f.styles.StatValueStyle.Render(formatDuration(t.Duration())))
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(f.styles.ErrorStyle.Render("  " + f.err))
		b.WriteString("\n")
	}

	return f.styles.PaneStyle.Width(max(f.width, 40)).Render(b.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var weekdayShort = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func formatWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			parts = append(parts, weekdayShort[d])
		}
	}
	return strings.Join(parts, ",")
}

// formatDuration renders a duration as "1h 30m", "45m" or "0m".
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "invalid"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
