package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colortab/internal/audio"
	"github.com/robalobadob/colortab/internal/clock"
	"github.com/robalobadob/colortab/internal/config"
	"github.com/robalobadob/colortab/internal/daily"
	"github.com/robalobadob/colortab/internal/game"
	"github.com/robalobadob/colortab/internal/session"
	"github.com/robalobadob/colortab/internal/tui"
)

// PlayOptions holds play-specific flags.
type PlayOptions struct {
	Mode    string
	LogFile string
	Mute    bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play ColorTabGame in the terminal.

Press the panels with 1-4, y/r/p/g or the mouse. Tones are synthesised
locally; if no audio device is available the game runs silently.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch session.Mode(opts.Mode) {
			case session.ModeNormal, session.ModeDaily:
				return nil
			}
			return fmt.Errorf("invalid mode %q: must be normal or daily", opts.Mode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", string(session.ModeNormal), "game mode (normal|daily)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file (default: discard)")
	cmd.Flags().BoolVar(&opts.Mute, "mute", false, "disable sound")

	return cmd
}

func runPlay(ctx context.Context, rootOpts *RootOptions, opts *PlayOptions) error {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// tcell owns the terminal, so logs go to a file or nowhere.
	var sink io.Writer = io.Discard
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		sink = f
	}
	zerolog.SetGlobalLevel(rootOpts.logLevel(cfg.LogLevel))
	log.Logger = zerolog.New(sink).With().Timestamp().Logger()

	player, closeAudio := openAudio(cfg.Audio && !opts.Mute)
	defer closeAudio()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	clk := clock.NewReal()
	var picker game.Picker
	mode := session.Mode(opts.Mode)
	if mode == session.ModeDaily {
		picker = daily.Picker(clk.Now(), cfg.DailySalt)
	}

	app := tui.New(screen)
	sess := session.New(session.Options{
		Mode:     mode,
		Picker:   picker,
		Clock:    clk,
		Audio:    player,
		Timing:   cfg.Timing,
		Listener: app,
	})
	defer sess.Close()
	app.Attach(sess)

	log.Info().Str("gameId", sess.ID()).Str("mode", opts.Mode).Msg("terminal game started")
	return app.Run(ctx)
}

// openAudio returns the local synthesiser, or a silent player when sound is
// disabled or no output device can be opened.
func openAudio(enabled bool) (audio.Player, func()) {
	if !enabled {
		return audio.Nop{}, func() {}
	}
	synth, err := audio.NewSynth()
	if err != nil {
		log.Warn().Err(err).Msg("audio unavailable, playing silently")
		return audio.Nop{}, func() {}
	}
	return synth, synth.Close
}
