package main

import (
	"github.com/cruxfinance/crux-backend/cmd/db"
	"github.com/cruxfinance/crux-backend/cmd/env"
	"github.com/cruxfinance/crux-backend/cmd/probe"
	"github.com/cruxfinance/crux-backend/cmd/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crux-backend",
		Short: "Wallet authentication and payment service",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
		},
	}

	rootCmd.AddCommand(
		server.New(),
		db.New(),
		env.New(),
		probe.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute root command")
	}
}
