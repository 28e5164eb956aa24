// Package ui provides the terminal user interface for snaptick.
// This file contains the main App model which routes keys to the active
// screen and view model results back to the screens.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"snaptick/internal/config"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies what the app is showing.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenEdit
	ScreenFreeTime
	ScreenSettings
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	Colors           config.ColorsConfig
	ConfirmDeletions bool
	Now              func() time.Time
}

// App is the main application model.
type App struct {
	vm          *viewmodel.ViewModel
	styles      *Styles
	config      *AppConfig
	now         func() time.Time
	taskList    *TaskList
	editForm    *EditForm
	freeTime    *FreeTimeView
	settings    *SettingsView
	helpOverlay *HelpOverlay
	help        help.Model
	confirmDel  *confirmDeleteState
	screen      Screen
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	keys     GlobalKeyMap
	taskKeys TaskKeyMap
	formKeys FormKeyMap
	helpKeys HelpKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates the application around vm. Nothing is loaded until Init.
func NewApp(vm *viewmodel.ViewModel, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{ConfirmDeletions: true}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	styles := NewStyles(vm.State().Theme, cfg.Colors)
	return &App{
		vm:          vm,
		styles:      styles,
		config:      cfg,
		now:         cfg.Now,
		taskList:    NewTaskList(vm, styles, cfg.Keys),
		editForm:    NewEditForm(vm, styles, cfg.Keys),
		freeTime:    NewFreeTimeView(vm, styles, cfg.Now),
		settings:    NewSettingsView(vm, styles, cfg.Keys),
		helpOverlay: NewHelpOverlay(styles),
		help:        newHelpModel(styles),
		screen:      ScreenHome,
		keys:        NewGlobalKeyMap(cfg.Keys),
		taskKeys:    NewTaskKeyMap(cfg.Keys),
		formKeys:    NewFormKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}
}

// tickMsg is sent periodically for clock and status updates.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the clock and the view model's session.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), a.vm.Init())
}

// Screen returns the active screen.
func (a *App) Screen() Screen { return a.screen }

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The view model sees every message first so screens render its new state.
	if cmd := a.vm.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()

	case tickMsg:
		if a.status != "" && a.now().After(a.statusUntil) {
			a.status = ""
		}
		cmds = append(cmds, tickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, a.handleKey(msg))

	case viewmodel.SessionLoadedMsg:
		if msg.Err != nil {
			a.SetStatus("Start: "+msg.Err.Error(), true)
		} else if msg.Streak > 0 {
			a.SetStatus(fmt.Sprintf("Day streak: %d", msg.Streak), false)
		}

	case viewmodel.TaskLoadedMsg:
		switch {
		case msg.Err != nil:
			a.SetStatus("Open task: "+msg.Err.Error(), true)
		case msg.Pomodoro:
			a.SetStatus(pomodoroStatus(msg.Task), false)
		default:
			cmds = append(cmds, a.openEditor())
		}

	case viewmodel.TaskCompletedMsg:
		if msg.Err != nil {
			a.SetStatus("Complete task: "+msg.Err.Error(), true)
		}

	case viewmodel.TaskDeletedMsg:
		if msg.Err != nil {
			a.SetStatus("Delete task: "+msg.Err.Error(), true)
		} else {
			a.SetStatus("Deleted: "+msg.Task.Title, false)
		}

	case viewmodel.TaskCreatedMsg:
		switch {
		case !msg.Inserted:
			a.SetStatus("Add task: "+msg.Err.Error(), true)
		case msg.Err != nil:
			a.screen = ScreenHome
			a.SetStatus("Added, but reminder failed: "+msg.Err.Error(), true)
		default:
			a.screen = ScreenHome
			a.SetStatus("Added: "+msg.Task.Title+reminderNote(msg.Scheduled), false)
		}

	case viewmodel.TaskUpdatedMsg:
		if msg.Err != nil {
			a.SetStatus("Save task: "+msg.Err.Error(), true)
			if errors.Is(msg.Err, storage.ErrInvalidTask) || errors.Is(msg.Err, storage.ErrNotFound) {
				break
			}
		} else {
			a.SetStatus("Saved: "+msg.Task.Title+reminderNote(msg.Scheduled), false)
		}
		a.screen = ScreenHome

	case viewmodel.PrefSavedMsg:
		if msg.Err != nil {
			a.SetStatus("Save setting: "+msg.Err.Error(), true)
		}

	case viewmodel.NavActionMsg:
		if msg.Err != nil {
			a.SetStatus(msg.Item.String()+": "+msg.Err.Error(), true)
		} else if msg.Item == viewmodel.NavShareApp {
			a.SetStatus("Share text copied to clipboard", false)
		}

	default:
		if a.screen == ScreenEdit {
			cmds = append(cmds, a.editForm.Update(msg))
		}
	}

	a.syncTheme()
	a.taskList.Refresh()

	if a.quitting {
		a.vm.Close()
		cmds = append(cmds, tea.Quit)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd
		case "n", "N", "esc", "q":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	// The edit form owns every key except its own exits.
	if a.screen == ScreenEdit {
		switch {
		case msg.String() == "ctrl+c":
			a.quitting = true
		case key.Matches(msg, a.formKeys.Cancel):
			a.screen = ScreenHome
		default:
			return a.editForm.Update(msg)
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return nil
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil
	case key.Matches(msg, a.keys.Back):
		a.screen = ScreenHome
		return nil
	case key.Matches(msg, a.keys.FreeTime):
		a.screen = ScreenFreeTime
		return a.freeTime.Compute()
	case key.Matches(msg, a.keys.Settings):
		a.screen = ScreenSettings
		return nil
	}

	switch a.screen {
	case ScreenSettings:
		return a.settings.Update(msg)
	case ScreenFreeTime:
		return nil
	}

	switch {
	case key.Matches(msg, a.taskKeys.Add):
		a.vm.Handle(viewmodel.NewDraft{})
		return a.openEditor()
	case key.Matches(msg, a.taskKeys.Delete):
		task, ok := a.taskList.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return nil
		}
		del := a.vm.Handle(viewmodel.SwipeDelete{Task: task})
		if !a.config.ConfirmDeletions {
			return del
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete task?",
			body:  task.Title,
			cmd:   del,
		}
		return nil
	}
	return a.taskList.Update(msg)
}

func (a *App) openEditor() tea.Cmd {
	a.screen = ScreenEdit
	return a.editForm.Load()
}

// syncTheme rebuilds the styles when the view model's theme changed.
func (a *App) syncTheme() {
	theme := a.vm.State().Theme
	if theme == a.styles.Theme {
		return
	}
	a.styles = NewStyles(theme, a.config.Colors)
	a.taskList.SetStyles(a.styles)
	a.editForm.SetStyles(a.styles)
	a.freeTime.SetStyles(a.styles)
	a.settings.SetStyles(a.styles)
	a.helpOverlay.SetStyles(a.styles)
	a.help = newHelpModel(a.styles)
}

func newHelpModel(s *Styles) help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = s.HelpKeyStyle
	h.Styles.ShortDesc = s.HelpStyle
	h.Styles.ShortSeparator = s.HelpStyle
	return h
}

func (a *App) updateLayout() {
	contentHeight := max(5, a.height-3)
	width := max(20, a.width-2)
	a.taskList.SetSize(width, contentHeight)
	a.editForm.SetWidth(width)
	a.freeTime.SetWidth(width)
	a.settings.SetWidth(width)
	a.helpOverlay.SetSize(a.width, a.height)
	a.help.Width = a.width
}

func pomodoroStatus(t storage.Task) string {
	minutes := t.PomodoroMinutes
	if minutes == 0 {
		minutes = int(t.Duration().Minutes())
	}
	return fmt.Sprintf("Pomodoro: %s (%dm)", t.Title, minutes)
}

func reminderNote(scheduled bool) string {
	if scheduled {
		return " (reminder set)"
	}
	return ""
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.screen {
	case ScreenEdit:
		b.WriteString(a.editForm.View())
	case ScreenFreeTime:
		b.WriteString(a.freeTime.View())
	case ScreenSettings:
		b.WriteString(a.settings.View())
	default:
		b.WriteString(a.taskList.View())
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

func (a *App) renderGoodbye() string {
	done, total := a.taskList.Stats()

	var b strings.Builder
	b.WriteString("\n  See you later!\n\n")
	if total > 0 {
		pct := (done * 100) / total
		b.WriteString(fmt.Sprintf("  Today: %d/%d tasks done (%d%%)\n\n", done, total, pct))
	}
	return b.String()
}

// renderTitleBar shows the app name, progress, streak and clock.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" snaptick ")

	var items []string
	if done, total := a.taskList.Stats(); total > 0 {
		items = append(items, fmt.Sprintf("Tasks: %d/%d", done, total))
	}
	if free := a.vm.State().FreeTime; free > 0 {
		items = append(items, "Free: "+formatDuration(free))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(items, "  "))

	var streak string
	if n := a.vm.State().Streak; n > 0 {
		streak = a.styles.StreakStyle.Render(fmt.Sprintf("🔥 %d", n))
	}

	date := a.styles.DateStyle.Render(a.now().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(streak) + lipgloss.Width(date)
	spacer := max(2, a.width-used-4)

	return title + "  " + stats + strings.Repeat(" ", spacer) + streak + " " + date
}

// renderHelpBar shows the status line or context-sensitive key hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch a.screen {
	case ScreenEdit:
		if err := a.editForm.Err(); err != "" {
			return a.styles.ErrorStyle.Render(err)
		}
		return a.help.View(a.formKeys)
	case ScreenFreeTime:
		return a.styles.RenderHelp("esc", "back", "?", "help")
	case ScreenSettings:
		return a.styles.RenderHelp(
			"enter", "select",
			"j/k", "nav",
			"esc", "back",
		)
	}
	return a.help.View(a.taskKeys) + "  " + a.styles.RenderHelp(
		"f", "free",
		"s", "settings",
		"?", "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

// Run starts the Bubble Tea program around vm.
func Run(vm *viewmodel.ViewModel, cfg *AppConfig) error {
	p := tea.NewProgram(NewApp(vm, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
