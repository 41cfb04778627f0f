package main

import (
	"IntervalTimers/config"
	"IntervalTimers/i18n"
	"IntervalTimers/store"
	"IntervalTimers/timer"
	"IntervalTimers/tui"
	"IntervalTimers/ui"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Flag names.
const (
	FlagConfig  = "config"
	FlagDB      = "db"
	FlagVerbose = "verbose"
	FlagMute    = "mute"
	FlagTUI     = "tui"
)

// AppID identifies the application to fyne's preferences store.
const AppID = "io.github.intervaltimers"

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	v       *viper.Viper
	content timer.AppContentReader
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree. Without a subcommand it opens the window.
func NewRootCmd(content timer.AppContentReader) *cobra.Command {
	c := &cli{v: viper.New(), content: content}

	rootCmd := &cobra.Command{
		Use:           "intervals",
		Short:         "Build, save and run interval timers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGUI()
		},
	}

	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: "+filepath.Join(config.ConfigDir(), config.ConfigFile)+")")
	rootCmd.PersistentFlags().String(FlagDB, "", "Saved timers database path")
	rootCmd.PersistentFlags().BoolP(FlagVerbose, "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = c.v.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(
		c.runCmd(),
		c.listCmd(),
		c.showCmd(),
		c.saveCmd(),
		c.renameCmd(),
		c.deleteCmd(),
		c.expandCmd(),
		c.configCmd(),
	)
	return rootCmd
}

// load resolves the configuration and the console logger.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(c.v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed(FlagDB) {
		cfg.Storage.Path = c.v.GetString(FlagDB)
	}
	if cfg.UI.Language != "" {
		i18n.SetLang(cfg.UI.Language)
	}
	c.cfg = cfg
	c.logger = NewConsoleLogger(cmd.ErrOrStderr(), c.v.GetBool(FlagVerbose))
	return nil
}

// withApp opens the saved timers for the duration of fn.
func (c *cli) withApp(ctx context.Context, logger *slog.Logger, mute bool, fn func(*AppManager) error) error {
	a, err := NewAppManager(ctx, c.cfg, c.content, logger, mute)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()
	return fn(a)
}

func (c *cli) fileLogger() (*FileLoggerResult, error) {
	return SetupFileLogger(config.LogsDir(), fileLevel(c.v.GetBool(FlagVerbose)), c.cfg.LogRotation)
}

func (c *cli) runGUI() error {
	logs, err := c.fileLogger()
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logs.Close() }()
	logger := logs.Logger
	logger.Info("starting", "version", version, "db", c.cfg.Storage.Path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return c.withApp(ctx, logger, false, func(a *AppManager) error {
		fyneApp := app.NewWithID(AppID)
		fyneApp.Settings().SetTheme(ui.NewCustomTheme())

		go a.Run(ctx)

		mw := ui.CreateMainWindow(a, fyneApp)
		mw.Window().SetOnClosed(cancel)
		mw.Window().ShowAndRun()

		cancel()
		<-a.Loop().Done()
		return nil
	})
}

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <name|id|steps...>",
		Short: "Run a saved timer, a preset or steps given inline",
		Example: `  intervals run Tabata
  intervals run 3
  intervals run 20 10 x7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useTUI := term.IsTerminal(int(os.Stdout.Fd()))
			if cmd.Flags().Changed(FlagTUI) {
				useTUI, _ = cmd.Flags().GetBool(FlagTUI)
			}
			mute, _ := cmd.Flags().GetBool(FlagMute)

			logger := c.logger
			if useTUI {
				logs, err := c.fileLogger()
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer func() { _ = logs.Close() }()
				logger = logs.Logger
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.withApp(ctx, logger, mute, func(a *AppManager) error {
				instructions, title, err := a.ResolveSteps(args)
				if err != nil {
					return err
				}

				loopCtx, cancel := context.WithCancel(ctx)
				defer func() {
					cancel()
					<-a.Loop().Done()
				}()
				go a.Run(loopCtx)

				if useTUI {
					if err := a.StartRun(timer.Expand(instructions)); err != nil {
						return err
					}
					return tui.Run(ctx, a.Loop(), title)
				}
				return runPlain(ctx, cmd.OutOrStdout(), a, title, timer.Expand(instructions))
			})
		},
	}
	cmd.Flags().Bool(FlagMute, false, "Do not play the step cue")
	cmd.Flags().Bool(FlagTUI, false, "Show the terminal view (default: when stdout is a terminal)")
	return cmd
}

// runPlain prints one line per step and returns when the run finishes or
// ctx is cancelled.
func runPlain(ctx context.Context, out io.Writer, a *AppManager, title string, seq []int) error {
	var (
		mu       sync.Mutex
		lastStep = -1
		once     sync.Once
		finished = make(chan struct{})
	)
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	a.Subscribe(func(s timer.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		switch s.State {
		case timer.StateRunning:
			if s.Index != lastStep {
				lastStep = s.Index
				fmt.Fprintf(out, "%s %d/%d  %s\n", bold(">"), s.Current(), s.Total, timer.FormatClock(s.Remaining))
			}
		case timer.StateFinished:
			fmt.Fprintln(out, green(i18n.T("Finished")))
			once.Do(func() { close(finished) })
		case timer.StateIdle:
			once.Do(func() { close(finished) })
		}
	})

	fmt.Fprintf(out, "%s  %s  (%s)\n", bold(title), timer.FormatTime(timer.TotalSeconds(seq)), pluralSteps(len(seq)))
	if err := a.StartRun(seq); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		_ = a.StopRun()
		return nil
	}
}

func pluralSteps(n int) string {
	if n == 1 {
		return "1 step"
	}
	return fmt.Sprintf("%d steps", n)
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved timers and presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), c.logger, true, func(a *AppManager) error {
				out := cmd.OutOrStdout()
				heading := color.New(color.Bold).SprintFunc()
				id := color.New(color.FgCyan).SprintFunc()

				fmt.Fprintln(out, heading(i18n.T("Saved timers")))
				timers := store.SortedByName(a.Session().SavedTimers())
				if len(timers) == 0 {
					fmt.Fprintln(out, "  (none)")
				}
				for _, t := range timers {
					fmt.Fprintf(out, "  %s  %-24s %s\n", id(fmt.Sprintf("%3d", t.ID)), t.Name, totalOf(t.Instructions))
				}

				fmt.Fprintln(out, heading(i18n.T("Presets")))
				for _, p := range a.Presets() {
					fmt.Fprintf(out, "       %-24s %s  %s\n", p.Name, totalOf(p.Instructions), p.Description)
				}
				return nil
			})
		},
	}
}

func totalOf(instructions []timer.Instruction) string {
	return timer.FormatTime(timer.TotalSeconds(timer.Expand(instructions)))
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|id>",
		Short: "Show the steps of a saved timer or preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), c.logger, true, func(a *AppManager) error {
				var (
					name         string
					instructions []timer.Instruction
				)
				if t, ok := a.Session().Resolve(args[0]); ok {
					name, instructions = t.Name, t.Instructions
				} else if p, ok := a.FindPreset(args[0]); ok {
					name, instructions = p.Name, p.Instructions
				} else {
					return fmt.Errorf("%q: %w", args[0], ErrUnknownTimer)
				}
				printTimer(cmd.OutOrStdout(), name, instructions)
				return nil
			})
		},
	}
}

func printTimer(out io.Writer, name string, instructions []timer.Instruction) {
	seq := timer.Expand(instructions)
	fmt.Fprintln(out, color.New(color.Bold).Sprint(name))
	fmt.Fprintf(out, "  steps:    %s\n", timer.Describe(instructions))
	fmt.Fprintf(out, "  sequence: %s\n", formatSequence(seq))
	fmt.Fprintf(out, "  total:    %s (%s)\n", timer.FormatTime(timer.TotalSeconds(seq)), pluralSteps(len(seq)))
}

func formatSequence(seq []int) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = timer.FormatClock(s)
	}
	return strings.Join(parts, " ")
}

func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "save <name> <steps...>",
		Short:   "Save steps as a named timer",
		Example: "  intervals save Tabata 20 10 x7",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := timer.ParseSteps(args[1:])
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), c.logger, true, func(a *AppManager) error {
				t, err := a.Session().Save(cmd.Context(), args[0], l.Instructions())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q as %d\n", color.New(color.FgGreen).Sprint("saved"), t.Name, t.ID)
				return nil
			})
		},
	}
}

func (c *cli) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name|id> <new-name>",
		Short: "Rename a saved timer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), c.logger, true, func(a *AppManager) error {
				t, ok := a.Session().Resolve(args[0])
				if !ok {
					return fmt.Errorf("%q: %w", args[0], store.ErrTimerNotFound)
				}
				if err := a.Session().Rename(cmd.Context(), t.ID, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q to %q\n", color.New(color.FgGreen).Sprint("renamed"), t.Name, strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a saved timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), c.logger, true, func(a *AppManager) error {
				t, ok := a.Session().Resolve(args[0])
				if !ok {
					return fmt.Errorf("%q: %w", args[0], store.ErrTimerNotFound)
				}
				if err := a.Session().Delete(cmd.Context(), t.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", color.New(color.FgRed).Sprint("deleted"), t.Name)
				return nil
			})
		},
	}
}

func (c *cli) expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <steps...>",
		Short: "Print the flat sequence for steps without saving them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := timer.ParseSteps(args)
			if err != nil {
				return err
			}
			instructions := l.Instructions()
			printTimer(cmd.OutOrStdout(), timer.Describe(instructions), instructions)
			return nil
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file named by --config may not exist yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.v.GetString(FlagConfig)
			if path == "" {
				path = filepath.Join(config.ConfigDir(), config.ConfigFile)
			}
			written, err := config.WriteDefault(path)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.New(color.FgGreen).Sprint("wrote"), path)
			return nil
		},
	}
	configCmd.AddCommand(initCmd)
	return configCmd
}
