package main

import (
	"fmt"
	"time"

	"snaptick/internal/ui"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	DataDir    string
	Verbose    bool
	Format     string // "text" | "json"

	now func() time.Time // tests only
}

var validFormats = []string{"text", "json"}

// newRootCommand creates the snaptick command tree.
func newRootCommand() *cobra.Command {
	return newRootCommandWith(&rootOptions{})
}

func newRootCommandWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snaptick",
		Short: "Plan today in time-boxed tasks",
		Long: `snaptick keeps a list of time-boxed tasks for today, reminds you when
they start, resets repeating tasks every morning and tracks your daily streak.

Run without a command to open the terminal UI.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range validFormats {
				if f == opts.Format {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/snaptick/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (default ~/.snaptick)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(
		newListCommand(opts),
		newAddCommand(opts),
		newDoneCommand(opts, true),
		newDoneCommand(opts, false),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newThemeCommand(opts),
		newSortCommand(opts),
		newStreakCommand(opts),
		newFreeTimeCommand(opts),
		newRolloverCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func runTUI(opts *rootOptions, cmd *cobra.Command) error {
	if opts.Verbose {
		return fmt.Errorf("--verbose would write into the terminal UI; set log.level: debug in the config instead")
	}
	s, err := openSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("starting", "version", version, "data_dir", s.cfg.GetDataDir())
	return ui.Run(s.vm, &ui.AppConfig{
		Keys:             &s.cfg.Keys,
		Colors:           s.cfg.Colors,
		ConfirmDeletions: true,
		Now:              s.now,
	})
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "snaptick version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
			return nil
		},
	}
}
