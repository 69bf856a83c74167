package cmd

import (
	"context"
	"errors"
	"os"

	"imtest/internal/config"
	"imtest/internal/engine"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (invalid arguments, bad configuration).
	ExitCodeError = 1
	// ExitCodeTestsFailed indicates that the suite ran and at least one test failed.
	ExitCodeTestsFailed = 2
)

// configPath is the --config persistent flag shared by every subcommand.
var configPath string

// rootCmd represents the base command for the imtest application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "imtest",
	Short: "Drive and test an immediate-mode GUI by simulating user input",
	Long: `imtest runs scripted UI tests against an immediate-mode GUI.

Tests locate widgets by their hashed ID paths, move a simulated mouse,
type text and check the resulting state, one host frame at a time.
The bundled demo suite runs against a headless host.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "imtest version %s\n" .Version}}`)

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var failed *engine.SuiteFailedError
	if errors.As(err, &failed) {
		return ExitCodeTestsFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Engine configuration file (default is ./"+config.DefaultFileName+" when present)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInteractiveCmd())
	rootCmd.AddCommand(newHashCmd())
	rootCmd.AddCommand(newConfigCmd())
}
