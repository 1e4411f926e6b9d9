package db

import (
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/persistence"
	"github.com/cruxfinance/crux-backend/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Applies pending database migrations",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			command.ConfigureLogger(cfg.Logger)

			db, err := persistence.NewDB(cfg.Database)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to open database")
			}
			defer db.Close()

			applied, err := persistence.ApplyMigrations(db, persistence.MigrationsDir)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to apply migrations")
			}
			log.Info().Int("applied", applied).Msg("Applied migrations")
		},
	}
}
