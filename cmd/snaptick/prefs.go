package main

import (
	"fmt"
	"strings"

	"snaptick/internal/analysis"
	"snaptick/internal/storage"
	"snaptick/internal/viewmodel"

	"github.com/spf13/cobra"
)

func newThemeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|amoled]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "amoled"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			if len(args) == 1 {
				theme, err := viewmodel.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if _, err := s.handle(viewmodel.SetTheme{Theme: theme}); err != nil {
					return err
				}
			}
			return printValue(cmd, opts, "theme", s.vm.State().Theme.String())
		},
	}
}

func newSortCommand(opts *rootOptions) *cobra.Command {
	names := make([]string, 0, 6)
	for o := storage.SortCreatedAsc; o <= storage.SortPriorityDesc; o++ {
		names = append(names, o.String())
	}
	return &cobra.Command{
		Use:       "sort [" + strings.Join(names, "|") + "]",
		Short:     "Show or set the task list order",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.start(); err != nil {
				return err
			}

			if len(args) == 1 {
				order, err := storage.ParseSortOrder(args[0])
				if err != nil {
					return err
				}
				if _, err := s.handle(viewmodel.UpdateSort{Order: order}); err != nil {
					return err
				}
			}
			return printValue(cmd, opts, "sort", s.vm.State().SortBy.String())
		},
	}
}

func newStreakCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the number of consecutive days the app was opened",
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
			return printValue(cmd, opts, "streak", s.vm.State().Streak)
		},
	}
}

func newFreeTimeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "freetime",
		Short: "Show how today's pending tasks split the day",
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

			now := s.now()
			tasks, err := s.tasks.ListToday(cmd.Context(), now)
			if err != nil {
				return err
			}
			r := analysis.Analyze(tasks, now)
			s.handle(viewmodel.UpdateFreeTime{Value: r.Free})

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				data, err := analysis.FormatJSON(r)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprintf(out, "%s: %d pending, %s busy, %s free\n", r.Date, r.Total, r.Busy, s.vm.State().FreeTime)
			for _, sl := range r.Slices {
				fmt.Fprintf(out, "  %5.1f%%  %-8s %s\n", sl.Share*100, sl.Duration, sl.Title)
			}
			return nil
		},
	}
}

func newRolloverCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the daily rollover and show what it did",
		Long: `Every activation resets repeat tasks left over from earlier days and
updates the streak. This command runs that step and reports the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			loaded, err := s.start()
			res := loaded.Rollover
			if opts.Format == "json" {
				if werr := writeJSON(cmd.OutOrStdout(), map[string]any{
					"state":       res.State.String(),
					"last_opened": res.LastOpened,
					"reset":       res.Reset,
					"failed":      res.Failed,
					"streak":      res.Streak,
				}); werr != nil {
					return werr
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state:       %s\n", res.State)
			if res.LastOpened != "" {
				fmt.Fprintf(out, "last opened: %s\n", res.LastOpened)
			}
			fmt.Fprintf(out, "reset:       %d repeat task(s)\n", res.Reset)
			if res.Failed > 0 {
				fmt.Fprintf(out, "failed:      %d\n", res.Failed)
			}
			fmt.Fprintf(out, "streak:      %d\n", res.Streak)
			return err
		},
	}
}

func printValue(cmd *cobra.Command, opts *rootOptions, name string, value any) error {
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{name: value})
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}
