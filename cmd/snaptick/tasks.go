package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// taskFlags are the task fields settable from the command line.
type taskFlags struct {
	start    string
	end      string
	priority string
	category string
	reminder bool
	repeat   bool
	weekdays string
	pomodoro int
	date     string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.start, "start", "", "start time (HH:MM)")
	fl.StringVar(&f.end, "end", "", "end time (HH:MM)")
	fl.StringVarP(&f.priority, "priority", "p", "", "priority: low, medium or high")
	fl.StringVarP(&f.category, "category", "c", "", "category label")
	fl.BoolVar(&f.reminder, "reminder", false, "notify at the start time (delivered while the TUI is running)")
	fl.BoolVar(&f.repeat, "repeat", false, "repeat the task")
	fl.StringVar(&f.weekdays, "on", "", "weekdays a repeat task is due, e.g. mon,wed,fri (default every day)")
	fl.IntVar(&f.pomodoro, "pomodoro", 0, "pomodoro length in minutes")
	fl.StringVar(&f.date, "date", "", "date (YYYY-MM-DD)")
}

// events turns the flags the user set into edit events.
func (f *taskFlags) events(cmd *cobra.Command) ([]viewmodel.Event, error) {
	changed := cmd.Flags().Changed
	var evs []viewmodel.Event

	if changed("start") {
		t, err := storage.ParseTimeOfDay(f.start)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		evs = append(evs, viewmodel.SetStartTime{Time: t})
	}
	if changed("end") {
		t, err := storage.ParseTimeOfDay(f.end)
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		evs = append(evs, viewmodel.SetEndTime{Time: t})
	}
	if changed("priority") {
		p, err := storage.ParsePriority(f.priority)
		if err != nil {
			return nil, fmt.Errorf("--priority: %w", err)
		}
		evs = append(evs, viewmodel.SetPriority{Priority: p})
	}
	if changed("category") {
		evs = append(evs, viewmodel.SetCategory{Category: strings.TrimSpace(f.category)})
	}
	if changed("reminder") {
		evs = append(evs, viewmodel.SetReminder{Enabled: f.reminder})
	}
	if changed("repeat") {
		evs = append(evs, viewmodel.SetRepeat{Enabled: f.repeat})
	}
	if changed("on") {
		days, err := storage.ParseWeekdays(f.weekdays)
		if err != nil {
			return nil, fmt.Errorf("--on: %w", err)
		}
		evs = append(evs, viewmodel.SetRepeatWeekdays{Days: days})
	}
	if changed("pomodoro") {
		if f.pomodoro < 0 {
			return nil, fmt.Errorf("--pomodoro must not be negative")
		}
		evs = append(evs, viewmodel.SetPomodoro{Minutes: f.pomodoro})
	}
	if changed("date") {
		evs = append(evs, viewmodel.SetDate{Date: f.date})
	}
	return evs, nil
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			ctx := cmd.Context()
			var tasks []storage.Task
			if all {
				tasks, err = s.tasks.List(ctx)
			} else {
				tasks, err = s.tasks.ListToday(ctx, s.now())
			}
			if err != nil {
				return err
			}
			tasks = storage.SortTasks(tasks, s.vm.State().SortBy)

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			return writeTaskTable(cmd.OutOrStdout(), tasks)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every stored task, not only today's")
	return cmd
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task for today",
		Long: `Add a task. It starts at the current minute and lasts 30 minutes
unless --start and --end say otherwise.`,
		Example: `  snaptick add Write report --start 09:00 --end 10:30 -p high --reminder
  snaptick add Gym --start 18:00 --end 19:00 --repeat --on mon,wed,fri`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evs, err := f.events(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			s.handle(viewmodel.NewDraft{})
			s.handle(viewmodel.SetTitle{Title: strings.Join(args, " ")})
			for _, ev := range evs {
				s.handle(ev)
			}

			msg, err := s.handle(viewmodel.Create{Task: s.vm.Staged()})
			created, _ := msg.(viewmodel.TaskCreatedMsg)
			if !created.Inserted {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			noteReminder(cmd, created.Scheduled)
			return report(cmd, opts, created.Task, "Added")
		},
	}
	f.register(cmd)
	return cmd
}

func newDoneCommand(opts *rootOptions, completed bool) *cobra.Command {
	use, short, verb := "done <id>", "Mark a task completed", "Completed"
	if !completed {
		use, short, verb = "undone <id>", "Mark a task not completed", "Reopened"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			msg, err := s.handle(viewmodel.MarkCompleted{TaskID: id, Completed: completed})
			if err != nil {
				return err
			}
			done := msg.(viewmodel.TaskCompletedMsg)
			noteReminder(cmd, done.Scheduled)
			return report(cmd, opts, done.Task, verb)
		},
	}
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var f taskFlags
	var title string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Example: `  snaptick edit 3 --end 11:00
  snaptick edit 3 --title "Write final report" --reminder=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			evs, err := f.events(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				evs = append(evs, viewmodel.SetTitle{Title: title})
			}
			if len(evs) == 0 {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			if _, err := s.handle(viewmodel.RequestEdit{TaskID: id}); err != nil {
				return err
			}
			for _, ev := range evs {
				s.handle(ev)
			}
			msg, err := s.handle(viewmodel.Update{})
			updated, _ := msg.(viewmodel.TaskUpdatedMsg)
			if err != nil {
				if errors.Is(err, storage.ErrInvalidTask) || errors.Is(err, storage.ErrNotFound) {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			noteReminder(cmd, updated.Scheduled)
			return report(cmd, opts, updated.Task, "Updated")
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			task, err := s.task(cmd.Context(), id)
			if err != nil {
				return err
			}
			if _, err := s.handle(viewmodel.SwipeDelete{Task: task}); err != nil {
				return err
			}
			return report(cmd, opts, task, "Deleted")
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// report prints the outcome of a single-task command.
func report(cmd *cobra.Command, opts *rootOptions, t storage.Task, verb string) error {
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), t)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s task %d: %s (%s-%s)\n", verb, t.ID, t.Title, t.StartTime, t.EndTime)
	return err
}

// noteReminder tells the user that a reminder armed by a one-shot command
// is dropped when the process exits. The TUI re-arms it on start.
func noteReminder(cmd *cobra.Command, scheduled bool) {
	if !scheduled {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Note: reminders are only delivered while the snaptick TUI is running; it re-arms this one on start.")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTaskTable(w io.Writer, tasks []storage.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "Nothing planned for today.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTIME\tPRIORITY\tTITLE\tFLAGS")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s-%s\t%s\t%s\t%s\n",
			t.ID, done, t.StartTime, t.EndTime, t.Priority,
			runewidth.Truncate(t.Title, 40, "…"), taskFlagsLabel(t))
	}
	return tw.Flush()
}

func taskFlagsLabel(t storage.Task) string {
	var parts []string
	if t.Category != "" {
		parts = append(parts, "#"+t.Category)
	}
	if t.Reminder {
		parts = append(parts, "reminder")
	}
	if t.Repeat {
		parts = append(parts, "repeat")
	}
	if t.PomodoroMinutes > 0 {
		parts = append(parts, fmt.Sprintf("pomodoro %dm", t.PomodoroMinutes))
	}
	return strings.Join(parts, " ")
}
