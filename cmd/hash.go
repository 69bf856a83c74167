package cmd

import (
	"fmt"
	"strconv"

	"imtest/pkg/pathhash"

	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var (
		seed  string
		label bool
	)
	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print the ID a decorated path hashes to",
		Long: `The hash command prints the ID the engine derives for each path, which
helps when debugging a reference that does not find its item.

A leading "/" ignores the seed, "\" escapes the next character and "###"
discards everything hashed before it.

Example usage:
  imtest hash "Demo/Buttons/OK"
  imtest hash --seed=0x1A2B3C4D "OK"
  imtest hash --label "a/b"                 # hash one label, "/" included`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := strconv.ParseUint(seed, 0, 32)
			if err != nil {
				return fmt.Errorf("invalid seed %q: %w", seed, err)
			}
			for _, path := range args {
				var id pathhash.ID
				if label {
					id = pathhash.HashString(path, uint32(s))
				} else {
					id = pathhash.Hash(path, uint32(s))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "0x%08X  %s\n", id, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "0", "Seed the path is relative to, decimal or 0x hex")
	cmd.Flags().BoolVar(&label, "label", false, "Hash each argument as a single label")
	return cmd
}
