package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/api/router"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/persistence"
	"github.com/cruxfinance/crux-backend/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const migrateFlag = "migrate"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the HTTP server",
		Run: func(cmd *cobra.Command, _ []string) {
			migrate, err := cmd.Flags().GetBool(migrateFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse flags")
			}
			runServer(migrate)
		},
	}
	cmd.Flags().Bool(migrateFlag, false, "Apply pending database migrations before serving")
	return cmd
}

func runServer(migrate bool) {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if migrate {
		applied, err := persistence.ApplyMigrations(s.DB, persistence.MigrationsDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Int("applied", applied).Msg("Applied migrations")
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to gracefully shut down server")
	}
}
