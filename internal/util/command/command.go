// Package command holds shared plumbing for cobra subcommands: grouping
// and running a short-lived task against a fully initialized server.
package command

import (
	"context"
	"os"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a parent command that only dispatches to its
// subcommands and prints usage when invoked bare.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
			os.Exit(0)
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// WithServer initializes a server from the given config, runs f against it
// and tears the server down again. Meant for one-shot commands that need
// the full component graph but not the HTTP listener.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return err
	}
	defer func() {
		if err := s.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down server")
		}
	}()

	return f(ctx, s)
}

// ConfigureLogger applies the configured level and output format to the
// global zerolog logger.
func ConfigureLogger(cfg config.Logger) {
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		}))
	}
}
