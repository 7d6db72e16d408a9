package probe

import (
	"github.com/spf13/cobra"

	"github.com/vechain/walletkit/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs the liveness probe against the local server",
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			cfg := config.DefaultServiceConfigFromEnv()

			runProbe(probeArgs{
				path:    "/-/healthy",
				timeout: cfg.Management.LivenessTimeout,
				config:  cfg,
				verbose: verbose,
			})
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}
