package db

import (
	"context"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/cruxfinance/crux-backend/internal/ergo"
	"github.com/cruxfinance/crux-backend/internal/util/command"
	"github.com/cruxfinance/crux-backend/internal/wallet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSeed() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seeds a development identity",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()

			err := command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				dev, err := wallet.NewDevWallet(cfg.Chain.NetworkPrefix, ergo.SignerTypeNautilus)
				if err != nil {
					return err
				}
				if _, err := dev.Connect(ctx); err != nil {
					return err
				}

				address, err := dev.GetChangeAddress(ctx)
				if err != nil {
					return err
				}

				if _, err := s.Identities.IssueNonce(ctx, address); err != nil {
					return err
				}

				log.Info().Str("address", address).Msg("Seeded development identity")
				return nil
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to seed database")
			}
		},
	}
}
