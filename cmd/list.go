package cmd

import (
	"fmt"
	"strings"

	"imtest/internal/app"
	"imtest/internal/formatting"

	"github.com/spf13/cobra"
)

var listOutputFormats = []string{
	string(formatting.FormatTable),
	string(formatting.FormatConsole),
	string(formatting.FormatJSON),
	string(formatting.FormatYAML),
	string(formatting.FormatTemplate),
}

// listOptions holds the flags of the list command.
type listOptions struct {
	output   string
	template string
	quiet    bool
	noColor  bool
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list [filter...]",
		Short: "List the registered tests",
		Long: `The list command prints the tests of the demo suite without running them.
The filter uses the same syntax as 'imtest run'.

Example usage:
  imtest list                                   # Table of every test
  imtest list perfs --output=json
  imtest list --output=template --template='{{.Category}}/{{.Name | upper}}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTests(cmd, strings.Join(args, ","), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Output format ("+strings.Join(listOutputFormats, ", ")+")")
	cmd.Flags().StringVar(&opts.template, "template", "", "Go template for --output=template, sprig functions available")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress decorative output")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return listOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		format, err := formatting.ParseFormat(opts.output)
		if err != nil {
			return err
		}
		if format == formatting.FormatTemplate && opts.template == "" {
			return fmt.Errorf("--template is required when using --output=template")
		}
		return nil
	}
	return cmd
}

func listTests(cmd *cobra.Command, filter string, opts *listOptions) error {
	cfg := app.NewConfig(false, configPath, filter)
	cfg.Silent = true
	cfg.Out = cmd.OutOrStdout()
	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	results, err := application.Tests(filter)
	if err != nil {
		return err
	}

	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
		Format:   format,
		Quiet:    opts.quiet,
		Color:    !opts.noColor,
		Template: opts.template,
	})
	return formatter.FormatResults(cmd.OutOrStdout(), results)
}
