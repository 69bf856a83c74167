package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"imtest/internal/app"
	"imtest/internal/input"

	"github.com/spf13/cobra"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	speed         string
	filter        string
	verbose       bool
	debug         bool
	silent        bool
	reportPath    string
	noStopOnError bool
	realTime      bool
	maxFrames     int
	watch         bool
	progress      bool
	noColor       bool
}

// completeSpeedFlag provides shell completion for the speed flag
func completeSpeedFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{input.SpeedFast.String(), input.SpeedNormal.String(), input.SpeedCinematic.String()}, cobra.ShellCompDirectiveNoFileComp
}

// completeFilterFlag provides shell completion for the filter flag
func completeFilterFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"all", "tests", "perfs"}, cobra.ShellCompDirectiveNoFileComp
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [filter...]",
		Short: "Run the demo suite against the headless host",
		Long: `The run command queues the tests selected by the filter, runs them
frame by frame against the headless host and prints a summary.

Filters:
  all, empty          every registered test
  tests, perfs        one group
  widgets,-check      comma separated terms matched against category and name,
                      "^term" anchors at the start and "-term" excludes
  expr: <expression>  an expression over Category, Name, Group, Flags and SourceFile

Positional arguments are joined with commas and override --filter.

The command exits with code 2 when a test failed and 1 on other errors.

Example usage:
  imtest run                              # Run every test
  imtest run widgets                      # Run the widget tests
  imtest run --speed=cinematic ^button    # Watch the mouse move
  imtest run --filter='expr: Group == "Perfs"'
  imtest run --report=report.json         # Also write a JSON report
  imtest run --watch                      # Re-run when imtest.yaml changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.filter = strings.Join(args, ",")
			}
			return runTests(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.speed, "speed", "", "Run speed: fast, normal or cinematic (default from configuration)")
	cmd.Flags().StringVar(&opts.filter, "filter", "all", "Select the tests to run")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Print the log of every test")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Discard process logs")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Path to save a JSON report of the run")
	cmd.Flags().BoolVar(&opts.noStopOnError, "no-stop-on-error", false, "Keep running queued tests after a failure")
	cmd.Flags().BoolVar(&opts.realTime, "real-time", false, "Pace frames to the configured delta time")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", 0, "Stop after this many frames (default from configuration)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run the suite when the configuration file changes")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a spinner while each test runs")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	_ = cmd.RegisterFlagCompletionFunc("speed", completeSpeedFlag)
	_ = cmd.RegisterFlagCompletionFunc("filter", completeFilterFlag)

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.maxFrames < 0 {
			return fmt.Errorf("--max-frames must not be negative, got %d", opts.maxFrames)
		}
		if opts.speed != "" {
			if _, err := input.ParseSpeed(opts.speed); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd
}

func runTests(cmd *cobra.Command, opts *runOptions) error {
	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := app.NewConfig(opts.debug, configPath, opts.filter)
	cfg.Silent = opts.silent
	cfg.Speed = opts.speed
	cfg.NoStopOnError = opts.noStopOnError
	cfg.RealTime = opts.realTime
	cfg.MaxFrames = opts.maxFrames
	cfg.Verbose = opts.verbose
	cfg.Progress = opts.progress
	cfg.Color = !opts.noColor
	cfg.ReportPath = opts.reportPath
	cfg.Out = cmd.OutOrStdout()
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	if opts.watch {
		return application.Watch(ctx)
	}
	return application.Run(ctx)
}

// commandContext returns the command's context, or a background context when
// the command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
