package probe

import (
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the server's liveness endpoint",
		Run: func(cmd *cobra.Command, _ []string) {
			runProbe(cmd, "/-/healthy")
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")
	return cmd
}
