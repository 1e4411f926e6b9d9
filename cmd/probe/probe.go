// Package probe implements the liveness and readiness subcommands used by
// container health checks. They call the running server's management
// endpoints and translate the result into an exit code.
package probe

import (
	"github.com/cruxfinance/crux-backend/internal/util/command"
	"github.com/spf13/cobra"
)

const verboseFlag string = "verbose"

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}
