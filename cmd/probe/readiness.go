package probe

import (
	"github.com/spf13/cobra"

	"github.com/vechain/walletkit/internal/config"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs the readiness probe against the local server",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			cfg := config.DefaultServiceConfigFromEnv()

			runProbe(probeArgs{
				path:    "/-/ready",
				timeout: cfg.Management.ReadinessTimeout,
				config:  cfg,
				verbose: verbose,
			})
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}
