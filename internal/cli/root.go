package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string // YAML config file; empty falls back to COLORTAB_CONFIG
	LogLevel   string // overrides LOG_LEVEL when set
}

// NewRootCommand creates the root command for the colortab CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "colortab",
		Short: "ColorTabGame - a color sequence memory game",
		Long: `ColorTabGame flashes a growing sequence of colored panels; repeat it
to advance a level, miss once and the game is over.

Play in the terminal with "colortab play" or serve the browser version with
"colortab serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.LogLevel == "" {
				return nil
			}
			if _, err := zerolog.ParseLevel(opts.LogLevel); err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))

	return cmd
}

// logLevel picks the flag over the configured level.
func (o *RootOptions) logLevel(configured string) zerolog.Level {
	name := configured
	if o.LogLevel != "" {
		name = o.LogLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
