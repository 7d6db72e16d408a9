package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vechain/walletkit/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the effective server configuration",
		Long:  `Prints the service environment as resolved from WALLETKIT_* variables and defaults.`,
		Run: func(_ *cobra.Command, _ []string) {
			printServiceEnv()
		},
	}
}

func printServiceEnv() {
	cfg := config.DefaultServiceConfigFromEnv()

	encoded, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal service config")
	}

	fmt.Println(string(encoded))
}
