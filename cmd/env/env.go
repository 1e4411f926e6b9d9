// Package env implements the env subcommand, which prints the fully
// resolved service configuration. Useful for diffing what a deployment
// actually picked up from its environment.
package env

import (
	"encoding/json"
	"fmt"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved server configuration",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()
			cfg.Auth.JWTSecret = "[redacted]"

			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to render config")
			}
			fmt.Println(string(out))
		},
	}
}
