package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colortab/internal/config"
	"github.com/robalobadob/colortab/internal/db"
	"github.com/robalobadob/colortab/internal/httpserver"
	"github.com/robalobadob/colortab/internal/store"
	"github.com/robalobadob/colortab/internal/users"
)

// sweepInterval is how often idle sessions are checked for eviction.
const sweepInterval = time.Minute

// ServeOptions holds serve-specific flags.
type ServeOptions struct {
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser game and its HTTP API",
		Long: `Serve the embedded browser client together with the game API.

Sessions live in memory; accounts are stored in SQLite (DB_PATH).
Display events and sound cues are pushed over Server-Sent Events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	setupServerLogging(cfg, rootOpts)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	mem := store.NewMemoryStore(cfg.SessionTTL)
	srv := httpserver.New(cfg, mem, users.NewStore(conn))
	mem.OnEvict(srv.Forget)
	go mem.Run(ctx, sweepInterval)

	log.Info().Str("port", cfg.Port).Bool("production", cfg.Production).Msg("starting colortab server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func setupServerLogging(cfg *config.Config, rootOpts *RootOptions) {
	zerolog.SetGlobalLevel(rootOpts.logLevel(cfg.LogLevel))
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
