package ui

import (
	"fmt"
	"strings"

	"snaptick/internal/config"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type settingsItem int

const (
	itemAmoled settingsItem = iota
	itemSort
	itemReportBugs
	itemSuggestions
	itemRateUs
	itemShare
	itemCount
)

// sortCycle is the order the sort entry steps through.
var sortCycle = []storage.SortOrder{
	storage.SortStartTimeAsc,
	storage.SortStartTimeDesc,
	storage.SortPriorityDesc,
	storage.SortPriorityAsc,
	storage.SortCreatedAsc,
	storage.SortCreatedDesc,
}

var sortLabels = map[storage.SortOrder]string{
	storage.SortStartTimeAsc:  "start time ↑",
	storage.SortStartTimeDesc: "start time ↓",
	storage.SortPriorityDesc:  "priority ↓",
	storage.SortPriorityAsc:   "priority ↑",
	storage.SortCreatedAsc:    "created ↑",
	storage.SortCreatedDesc:   "created ↓",
}

// SettingsView is the drawer: theme and sort toggles plus the outbound links.
type SettingsView struct {
	vm     *viewmodel.ViewModel
	cursor settingsItem
	width  int
	styles *Styles
	keys   SettingsKeyMap
}

// NewSettingsView creates the settings screen.
func NewSettingsView(vm *viewmodel.ViewModel, styles *Styles, keyCfg *config.KeysConfig) *SettingsView {
	return &SettingsView{vm: vm, styles: styles, keys: NewSettingsKeyMap(keyCfg)}
}

// SetWidth sets the screen width.
func (v *SettingsView) SetWidth(width int) { v.width = width }

// SetStyles swaps the styles after a theme change.
func (v *SettingsView) SetStyles(s *Styles) { v.styles = s }

// Update moves the cursor and activates entries.
func (v *SettingsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, v.keys.Up):
		v.cursor = max(0, v.cursor-1)
	case key.Matches(keyMsg, v.keys.Down):
		v.cursor = min(itemCount-1, v.cursor+1)
	case key.Matches(keyMsg, v.keys.Top):
		v.cursor = 0
	case key.Matches(keyMsg, v.keys.Bottom):
		v.cursor = itemCount - 1
	case key.Matches(keyMsg, v.keys.Select):
		return v.activate()
	}
	return nil
}

func (v *SettingsView) activate() tea.Cmd {
	state := v.vm.State()
	switch v.cursor {
	case itemAmoled:
		return v.vm.Handle(viewmodel.ToggleTheme{Enabled: state.Theme != viewmodel.ThemeAmoled})
	case itemSort:
		return v.vm.Handle(viewmodel.UpdateSort{Order: nextSort(state.SortBy)})
	case itemReportBugs:
		return v.vm.Handle(viewmodel.NavDrawerAction{Item: viewmodel.NavReportBugs})
	case itemSuggestions:
		return v.vm.Handle(viewmodel.NavDrawerAction{Item: viewmodel.NavSuggestions})
	case itemRateUs:
		return v.vm.Handle(viewmodel.NavDrawerAction{Item: viewmodel.NavRateUs})
	case itemShare:
		return v.vm.Handle(viewmodel.NavDrawerAction{Item: viewmodel.NavShareApp})
	}
	return nil
}

func nextSort(cur storage.SortOrder) storage.SortOrder {
	for i, o := range sortCycle {
		if o == cur {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func (v *SettingsView) label(item settingsItem) string {
	state := v.vm.State()
	switch item {
	case itemAmoled:
		return "AMOLED theme: " + onOff(state.Theme == viewmodel.ThemeAmoled)
	case itemSort:
		return "Sort by: " + sortLabels[state.SortBy]
	case itemReportBugs:
		return viewmodel.NavReportBugs.String()
	case itemSuggestions:
		return viewmodel.NavSuggestions.String()
	case itemRateUs:
		return viewmodel.NavRateUs.String()
	case itemShare:
		return viewmodel.NavShareApp.String()
	}
	return ""
}

// View renders the settings list.
func (v *SettingsView) View() string {
	var b strings.Builder
	b.WriteString(v.styles.PaneTitleStyle.Render("SETTINGS"))
	b.WriteString("\n\n")

	for item := settingsItem(0); item < itemCount; item++ {
		if item == itemReportBugs {
			b.WriteString("\n")
		}
		line := v.label(item)
		if item == v.cursor {
			b.WriteString(v.styles.TaskSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(v.styles.TaskPendingStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	state := v.vm.State()
	b.WriteString("\n")
	b.WriteString(v.styles.HelpStyle.Render(fmt.Sprintf("  snaptick %s", state.BuildVersion)))

	return v.styles.PaneStyle.Width(max(v.width, 40)).Render(b.String())
}
