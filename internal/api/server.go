package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/auth"
	"github.com/vechain/walletkit/internal/config"
	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/thor"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1Auth  *echo.Group
	APIV1Txs   *echo.Group
	APIV1Fees  *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config     config.Server
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Store      store.Store
	Thor       thor.Client
	Bridge     *Bridge
	Connection connection.Manager
	Signer     signer.Service
	Fees       feedelegation.Service
	Auth       auth.Manager
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	st store.Store,
	client thor.Client,
	bridge *Bridge,
	connections connection.Manager,
	signers signer.Service,
	fees feedelegation.Service,
	authManager auth.Manager,
) *Server {
	return &Server{
		Config:     cfg,
		Registry:   registry,
		Metrics:    m,
		Store:      st,
		Thor:       client,
		Bridge:     bridge,
		Connection: connections,
		Signer:     signers,
		Fees:       fees,
		Auth:       authManager,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if s.Echo == nil ||
		s.Router == nil ||
		s.Registry == nil ||
		s.Metrics == nil ||
		s.Store == nil ||
		s.Thor == nil ||
		s.Bridge == nil ||
		s.Connection == nil ||
		s.Signer == nil ||
		s.Fees == nil ||
		s.Auth == nil {
		log.Debug().Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if closer, ok := s.Store.(io.Closer); ok && closer != nil {
		log.Debug().Msg("Closing store")

		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
			errs = append(errs, err)
		}
	}

	return errs
}
