package connection

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// DefaultCacheTTL is how long a persisted cross-app entry stays valid.
// Fixed at 24h for all login methods.
const DefaultCacheTTL = 24 * time.Hour

// Config wires the connection manager
type Config struct {
	Providers      []provider.Provider
	EnabledMethods []types.LoginMethod
	Store          store.Store
	Client         thor.Client
	Metrics        *metrics.Metrics

	// CacheTTL overrides DefaultCacheTTL when positive
	CacheTTL time.Duration
}

type inflightAttempt struct {
	done chan struct{}
	conn *Connection
	err  error
}

type pendingEvent struct {
	topic string
	args  []interface{}
}

type manager struct {
	providers []provider.Provider
	enabled   map[types.LoginMethod]bool
	store     store.Store
	client    thor.Client
	metrics   *metrics.Metrics
	bus       EventBus.Bus
	cacheTTL  time.Duration

	mu       sync.Mutex
	state    State
	current  *Connection
	inflight *inflightAttempt

	genesisMu sync.Mutex
	genesisID string
}

// NewManager creates the connection manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager(config Config) (Manager, error) {
	if len(config.Providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	if config.Store == nil {
		return nil, errors.New("store is required")
	}
	if config.Metrics == nil {
		return nil, errors.New("metrics are required")
	}
	if len(config.EnabledMethods) == 0 {
		return nil, errors.New("at least one enabled method is required")
	}

	enabled := make(map[types.LoginMethod]bool, len(config.EnabledMethods))
	for _, method := range config.EnabledMethods {
		enabled[method] = true
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	return &manager{
		providers: config.Providers,
		enabled:   enabled,
		store:     config.Store,
		client:    config.Client,
		metrics:   config.Metrics,
		bus:       EventBus.New(),
		cacheTTL:  cacheTTL,
		state:     StateDisconnected,
	}, nil
}

// Bus exposes the lifecycle event bus for subscribers
//
//nolint:ireturn // EventBus.Bus is the library's own interface type
func (m *manager) Bus() EventBus.Bus {
	return m.bus
}

// State returns the current lifecycle state
func (m *manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// IsConnected reports whether a connection is active
func (m *manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current != nil
}

// Current returns a snapshot of the active connection or nil
func (m *manager) Current() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current.snapshot()
}

// snapshot copies a connection so callers never share the manager's record
func (c *Connection) snapshot() *Connection {
	if c == nil {
		return nil
	}

	copied := *c
	if c.Metadata != nil {
		copied.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			copied.Metadata[k] = v
		}
	}

	return &copied
}

// IsMethodAvailable reflects static configuration, not live reachability
func (m *manager) IsMethodAvailable(method types.LoginMethod) bool {
	return m.enabled[method] && m.ProviderFor(method) != nil
}

// ProviderFor returns the provider serving the method or nil
//
//nolint:ireturn // Returning interface is intentional, providers are polymorphic
func (m *manager) ProviderFor(method types.LoginMethod) provider.Provider {
	for _, p := range m.providers {
		if p.SupportsMethod(method) {
			return p
		}
	}
	return nil
}

// Connect authenticates through the provider serving method. A second call
// while one is in flight observes the in-flight attempt's outcome.
func (m *manager) Connect(ctx context.Context, method types.LoginMethod, params provider.InitiateParams) (*Connection, error) {
	fl, p, err := m.beginAttempt(method, StateConnecting)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// Coalesced onto an attempt started by another caller
		<-fl.done
		return fl.conn.snapshot(), fl.err
	}

	params.Method = method

	return m.runAttempt(ctx, fl, p, method, params)
}

// beginAttempt serializes connection attempts. It returns either the
// in-flight attempt to wait on (provider nil) or a fresh registered attempt
// with the provider to drive.
func (m *manager) beginAttempt(method types.LoginMethod, connectingState State) (*inflightAttempt, provider.Provider, error) {
	m.mu.Lock()

	if fl := m.inflight; fl != nil {
		m.mu.Unlock()
		return fl, nil, nil
	}

	if !m.enabled[method] {
		m.mu.Unlock()
		return nil, nil, types.NewConfigurationError("method_not_enabled", errors.Errorf("login method %q is not enabled", method))
	}

	p := m.ProviderFor(method)
	if p == nil {
		m.mu.Unlock()
		return nil, nil, types.NewConfigurationError("no_provider", errors.Errorf("no provider serves login method %q", method))
	}

	fl := &inflightAttempt{done: make(chan struct{})}
	m.inflight = fl
	events := m.setStateLocked(connectingState)
	m.mu.Unlock()

	m.publish(events)

	return fl, p, nil
}

// runAttempt drives one authentication ceremony to completion
func (m *manager) runAttempt(ctx context.Context, fl *inflightAttempt, p provider.Provider, method types.LoginMethod, params provider.InitiateParams) (*Connection, error) {
	result, err := p.Initiate(ctx, params)
	if err != nil {
		return nil, m.finishFailure(ctx, fl, method, types.AsAuthError(err))
	}

	conn, err := m.buildConnection(ctx, p, method, result)
	if err != nil {
		return nil, m.finishFailure(ctx, fl, method, types.AsAuthError(err))
	}

	m.finishSuccess(ctx, fl, method, conn, result.App)

	return conn.snapshot(), nil
}

// buildConnection validates the ceremony result into a Connection record
func (m *manager) buildConnection(ctx context.Context, p provider.Provider, method types.LoginMethod, result *provider.Result) (*Connection, error) {
	if !common.IsHexAddress(result.Address) {
		return nil, types.NewProviderError("invalid_address", errors.Errorf("provider returned invalid address %q", result.Address))
	}

	chainID := result.ChainID
	if chainID == "" {
		genesis, err := m.resolveGenesisID(ctx)
		if err != nil {
			return nil, types.NewNetworkError("genesis_unreachable", err)
		}
		chainID = genesis
	}

	return &Connection{
		Address:   common.HexToAddress(result.Address).Hex(),
		ChainID:   chainID,
		Source:    p.Source(),
		Method:    method,
		Timestamp: time.Now().UTC(),
		Metadata:  result.Metadata,
	}, nil
}

// finishFailure records a failed attempt: failed, then back to disconnected
func (m *manager) finishFailure(ctx context.Context, fl *inflightAttempt, method types.LoginMethod, authErr *types.AuthError) error {
	logger := util.LogFromContext(ctx)

	m.mu.Lock()
	m.inflight = nil
	events := m.setStateLocked(StateFailed)
	events = append(events, pendingEvent{EventConnectionError, []interface{}{authErr}})
	events = append(events, m.setStateLocked(StateDisconnected)...)
	m.mu.Unlock()

	// User cancellation is not a failure worth alerting on
	if authErr.IsUserRejection() {
		logger.Debug().Str("method", method.String()).Msg("Login cancelled by user")
	} else {
		logger.Warn().Str("method", method.String()).Str("category", string(authErr.Category)).Err(authErr).Msg("Login failed")
	}

	m.metrics.ConnectionAttempts.WithLabelValues(method.String(), string(authErr.Category)).Inc()

	fl.err = authErr
	close(fl.done)
	m.publish(events)

	return authErr
}

// finishSuccess installs the new connection and persists the cross-app entry
func (m *manager) finishSuccess(ctx context.Context, fl *inflightAttempt, method types.LoginMethod, conn *Connection, app *provider.EcosystemApp) {
	m.mu.Lock()
	m.inflight = nil
	m.current = conn
	events := m.setStateLocked(StateConnected)
	events = append(events,
		pendingEvent{EventConnected, []interface{}{conn.snapshot()}},
		pendingEvent{EventConnectionChanged, []interface{}{conn.snapshot()}},
	)
	m.mu.Unlock()

	if method.IsCrossApp() && app != nil {
		if err := m.writeCacheEntry(ctx, app); err != nil {
			log.Warn().Err(err).Msg("Failed to persist cross-app connection cache")
		}
	}

	m.metrics.ConnectionAttempts.WithLabelValues(method.String(), "success").Inc()

	fl.conn = conn
	close(fl.done)
	m.publish(events)
}

// Disconnect clears the connection and cache. Safe from any state; a call
// during an in-flight attempt waits for it to settle first.
func (m *manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	for m.inflight != nil {
		fl := m.inflight
		m.mu.Unlock()
		<-fl.done
		m.mu.Lock()
	}

	previous := m.current
	m.current = nil
	events := m.setStateLocked(StateDisconnected)
	if previous != nil {
		events = append(events,
			pendingEvent{EventDisconnected, nil},
			pendingEvent{EventConnectionChanged, []interface{}{(*Connection)(nil)}},
		)
	}
	m.mu.Unlock()

	if previous != nil {
		if p := m.ProviderFor(previous.Method); p != nil {
			if err := p.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("Provider disconnect failed")
			}
		}
	}

	if err := m.clearCacheEntry(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to clear connection cache")
	}

	m.publish(events)

	return nil
}

// Restore attempts a silent reconnection from the persisted cross-app entry.
// Returns nil without error when there is nothing to restore.
func (m *manager) Restore(ctx context.Context) (*Connection, error) {
	entry, err := m.CachedEntry(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	if !m.IsMethodAvailable(types.LoginMethodEcosystem) {
		return nil, nil
	}

	fl, p, err := m.beginAttempt(types.LoginMethodEcosystem, StateReconnecting)
	if err != nil {
		return nil, err
	}
	if p == nil {
		<-fl.done
		return fl.conn.snapshot(), fl.err
	}

	return m.runAttempt(ctx, fl, p, types.LoginMethodEcosystem, provider.InitiateParams{
		Method: types.LoginMethodEcosystem,
		AppID:  entry.AppID,
	})
}

// setStateLocked transitions the state machine, reporting the event to emit.
// Re-entering the current state emits nothing, which keeps Disconnect
// idempotent.
func (m *manager) setStateLocked(next State) []pendingEvent {
	if m.state == next {
		return nil
	}

	m.state = next

	return []pendingEvent{{EventStateChanged, []interface{}{next}}}
}

// publish emits events outside the manager lock so subscribers may call
// back into the manager
func (m *manager) publish(events []pendingEvent) {
	for _, ev := range events {
		m.bus.Publish(ev.topic, ev.args...)
	}
}

// resolveGenesisID reads and caches the genesis block id of the network
func (m *manager) resolveGenesisID(ctx context.Context) (string, error) {
	m.genesisMu.Lock()
	defer m.genesisMu.Unlock()

	if m.genesisID != "" {
		return m.genesisID, nil
	}

	if m.client == nil {
		return "", errors.New("no chain client configured")
	}

	genesis, err := m.client.GetGenesisBlock(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to read genesis block")
	}

	m.genesisID = genesis.ID

	return m.genesisID, nil
}
