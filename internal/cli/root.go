package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the solventory CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solventory",
		Short: "Solventory - laboratory solvent inventory tracker",
		Long:  "Tracks solvent amounts per lab room with an append-only usage log.",
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSeedCommand())

	return cmd
}
