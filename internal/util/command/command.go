package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/api/router"
	"github.com/vechain/walletkit/internal/config"
)

// NewSubcommandGroup returns a parent command that only serves to group
// its subcommands
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%v subcommands", use),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithServer initializes a fully wired server, runs fn against it and
// shuts the server down afterwards. Intended for one-shot commands.
func WithServer(ctx context.Context, cfg config.Server, fn func(ctx context.Context, s *api.Server) error) error {
	s, err := api.InitNewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	router.Init(s)

	defer func() {
		if errs := s.Shutdown(ctx); len(errs) > 0 {
			log.Error().Errs("errors", errs).Msg("Errors while shutting down server")
		}
	}()

	if !s.Ready() {
		return errors.New("server is not ready")
	}

	return fn(ctx, s)
}
