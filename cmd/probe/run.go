package probe

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cruxfinance/crux-backend/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runProbe performs one HTTP GET against the local management plane and
// exits non-zero on anything but 200.
func runProbe(cmd *cobra.Command, path string) {
	verbose, err := cmd.Flags().GetBool(verboseFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse flags")
	}

	cfg := config.DefaultServiceConfigFromEnv()

	listen := cfg.Echo.ListenAddress
	if strings.HasPrefix(listen, ":") {
		listen = "127.0.0.1" + listen
	}
	url := fmt.Sprintf("http://%s%s", listen, path)

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(url)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Probe failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read probe response")
	}

	if verbose {
		fmt.Println(string(body))
	}
	if res.StatusCode != http.StatusOK {
		log.Fatal().Int("status", res.StatusCode).Str("url", url).Msg("Probe reported unhealthy")
	}
}
