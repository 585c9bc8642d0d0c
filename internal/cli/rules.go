package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/colortab/internal/game"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print how to play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\nRules:\n", game.Title)
			for i, r := range game.Rules {
				fmt.Fprintf(out, "  %d. %s\n", i+1, r)
			}
			fmt.Fprintln(out, "\nKeys (terminal):")
			for i, c := range game.Palette {
				fmt.Fprintf(out, "  %d / %c  %s\n", i+1, c.Info().Key, c)
			}
			return nil
		},
	}
}
