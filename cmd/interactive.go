package cmd

import (
	"os/signal"
	"syscall"

	"imtest/internal/app"

	"github.com/spf13/cobra"
)

func newInteractiveCmd() *cobra.Command {
	var (
		debug bool
		speed string
	)
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Run tests from an interactive prompt",
		Long: `The interactive command keeps the headless host running and reads
commands from a prompt with history and tab completion.

Commands: help, list [filter], run [filter], abort, speed <mode>, status, quit.
Ctrl+C aborts the running command; Ctrl+D or 'quit' leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interrupts are handled per command by the prompt.
			ctx, cancel := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM)
			defer cancel()

			cfg := app.NewConfig(debug, configPath, "")
			cfg.Speed = speed
			cfg.Color = true
			cfg.Out = cmd.OutOrStdout()
			cfg.LogOutput = cmd.ErrOrStderr()
			application, err := app.NewApplication(cfg)
			if err != nil {
				return err
			}
			return application.Interactive(ctx, nil)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&speed, "speed", "", "Initial run speed: fast, normal or cinematic")
	_ = cmd.RegisterFlagCompletionFunc("speed", completeSpeedFlag)
	return cmd
}
