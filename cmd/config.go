package cmd

import (
	"fmt"

	"imtest/internal/app"
	"imtest/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective engine configuration as YAML",
		Long: `The config command loads the configuration file, validates it and prints
the result with every default filled in. Use --defaults to print the
built-in configuration, a starting point for imtest.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engineCfg := config.Default()
			if !defaults {
				appCfg := app.NewConfig(false, configPath, "")
				appCfg.Silent = true
				application, err := app.NewApplication(appCfg)
				if err != nil {
					return err
				}
				engineCfg = application.EngineConfig()
			}
			data, err := config.Marshal(engineCfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in defaults instead of the loaded file")
	return cmd
}
