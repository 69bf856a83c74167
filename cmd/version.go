package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of imtest",
		Long:  `All software has versions. This is imtest's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is set by main during build time.
			fmt.Fprintf(cmd.OutOrStdout(), "imtest version %s\n", rootCmd.Version)
		},
	}
}
