package api

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/auth"
	"github.com/vechain/walletkit/internal/config"
	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/smartaccount"
	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
)

// PROVIDERS - constructor functions assembled by wire, see wire.go

func newRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func newMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.New(registry)
}

//nolint:ireturn
func newStore(cfg config.Server) (store.Store, error) {
	if cfg.Store.Dir == "" {
		log.Warn().Msg("No store directory configured, state will not survive restarts")
		return store.NewMemoryStore(), nil
	}

	return store.NewBadgerStore(cfg.Store.Dir)
}

//nolint:ireturn
func newThorClient(cfg config.Server) (thor.Client, error) {
	return thor.NewClient(cfg.Thor.NodeURLs, thor.Options{
		BlockInterval:  cfg.Thor.BlockInterval,
		ReceiptTimeout: cfg.Thor.ReceiptTimeout,
	})
}

func enabledMethods(cfg config.Server) []types.LoginMethod {
	methods := make([]types.LoginMethod, 0, len(cfg.Auth.EnabledMethods))
	for _, raw := range cfg.Auth.EnabledMethods {
		methods = append(methods, types.LoginMethod(raw))
	}

	return methods
}

// newProviders assembles the provider set served by the bridge. The
// external wallet provider is always available; embedded and cross-app
// providers require a configured wallet service URL.
func newProviders(cfg config.Server, bridge *Bridge) ([]provider.Provider, error) {
	external, err := provider.NewExternalProvider(bridge)
	if err != nil {
		return nil, err
	}

	providers := []provider.Provider{external}

	if cfg.Auth.EmbeddedServiceURL == "" {
		log.Warn().Msg("No embedded wallet service configured, embedded and cross-app logins are unavailable")
		return providers, nil
	}

	embedded, err := provider.NewEmbeddedProvider(bridge, provider.EmbeddedConfig{
		ServiceURL:      cfg.Auth.EmbeddedServiceURL,
		CeremonyTimeout: cfg.Auth.CeremonyTimeout,
	})
	if err != nil {
		return nil, err
	}
	providers = append(providers, embedded)

	apps, err := parsePartnerApps(cfg.Auth.PartnerAppsJSON)
	if err != nil {
		return nil, err
	}
	if len(apps) > 0 {
		crossApp, err := provider.NewCrossAppProvider(bridge, embedded, apps)
		if err != nil {
			return nil, err
		}
		providers = append(providers, crossApp)
	}

	return providers, nil
}

func parsePartnerApps(raw string) ([]provider.EcosystemApp, error) {
	if raw == "" {
		return nil, nil
	}

	var apps []provider.EcosystemApp
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		return nil, errors.Wrap(err, "failed to parse partner apps")
	}

	return apps, nil
}

//nolint:ireturn
func newConnectionManager(
	cfg config.Server,
	providers []provider.Provider,
	st store.Store,
	client thor.Client,
	m *metrics.Metrics,
) (connection.Manager, error) {
	return connection.NewManager(connection.Config{
		Providers:      providers,
		EnabledMethods: enabledMethods(cfg),
		Store:          st,
		Client:         client,
		Metrics:        m,
		CacheTTL:       cfg.Auth.CacheTTL,
	})
}

//nolint:ireturn
func newSmartAccountService(cfg config.Server, client thor.Client) (smartaccount.Service, error) {
	factories := make(map[string]common.Address, len(cfg.SmartAccount.FactoryAddresses))
	for network, address := range cfg.SmartAccount.FactoryAddresses {
		if !common.IsHexAddress(address) {
			return nil, errors.Errorf("invalid factory address %q for network %q", address, network)
		}
		factories[network] = common.HexToAddress(address)
	}

	return smartaccount.NewService(client, factories)
}

//nolint:ireturn
func newSignerService(
	cfg config.Server,
	connections connection.Manager,
	smartAccounts smartaccount.Service,
	client thor.Client,
	m *metrics.Metrics,
) (signer.Service, error) {
	return signer.NewService(connections, smartAccounts, client, cfg.Thor.Network, m)
}

//nolint:ireturn
func newFeeService(cfg config.Server, st store.Store, m *metrics.Metrics) (feedelegation.Service, error) {
	return feedelegation.NewService(feedelegation.Config{
		DelegatorURL: cfg.FeeDelegation.DelegatorURL,
		Store:        st,
		Metrics:      m,
		Speed:        feedelegation.Speed(cfg.FeeDelegation.Speed),
		CacheTTL:     cfg.FeeDelegation.EstimateCacheTTL,
	})
}

//nolint:ireturn
func newAuthManager(
	cfg config.Server,
	connections connection.Manager,
	signers signer.Service,
	fees feedelegation.Service,
) (auth.Manager, error) {
	return auth.NewService(connections, signers, fees, enabledMethods(cfg))
}
