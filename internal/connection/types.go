package connection

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/types"
)

// State is the connection lifecycle state
type State string

const (
	// StateDisconnected is the initial state; re-enterable, never terminal
	StateDisconnected State = "disconnected"
	// StateConnecting means an authentication ceremony is in flight
	StateConnecting State = "connecting"
	// StateConnected means a Connection record is active
	StateConnected State = "connected"
	// StateReconnecting means a silent session restoration is in flight
	StateReconnecting State = "reconnecting"
	// StateFailed is the transient state between a failed attempt and disconnected
	StateFailed State = "failed"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Event topics published on the manager's bus
const (
	EventConnected         = "connected"
	EventDisconnected      = "disconnected"
	EventConnectionChanged = "connectionChanged"
	EventConnectionError   = "connectionError"
	EventStateChanged      = "stateChanged"
)

// Connection is the record of the active authenticated session. Exactly one
// is active at a time; it is owned and written exclusively by the Manager
// and replaced wholesale on re-authentication.
type Connection struct {
	Address   string                 `json:"address"`
	ChainID   string                 `json:"chainId"`
	Source    types.ConnectionSource `json:"source"`
	Method    types.LoginMethod      `json:"method"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// CacheEntry is the persisted subset of a cross-app Connection used to
// pre-fill "connected through X" UI and to support silent reconnection.
type CacheEntry struct {
	AppID       string    `json:"appId"`
	Name        string    `json:"name"`
	LogoURL     string    `json:"logoUrl"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Manager orchestrates providers, tracks the connection state machine and
// emits lifecycle events
type Manager interface {
	// Connect authenticates through the provider serving method. A second
	// call while one is in flight is coalesced onto the in-flight attempt.
	Connect(ctx context.Context, method types.LoginMethod, params provider.InitiateParams) (*Connection, error)

	// Disconnect clears the connection and cache. Safe from any state.
	Disconnect(ctx context.Context) error

	// Restore attempts a silent reconnection from the persisted cache entry
	Restore(ctx context.Context) (*Connection, error)

	// State returns the current lifecycle state. Never fails.
	State() State

	// Current returns a snapshot of the active connection or nil
	Current() *Connection

	// IsConnected reports whether a connection is active
	IsConnected() bool

	// IsMethodAvailable reflects static configuration, not reachability
	IsMethodAvailable(method types.LoginMethod) bool

	// CachedEntry returns the valid persisted cross-app entry or nil
	CachedEntry(ctx context.Context) (*CacheEntry, error)

	// ProviderFor returns the provider serving the method or nil
	ProviderFor(method types.LoginMethod) provider.Provider

	// Bus exposes the lifecycle event bus for subscribers
	Bus() EventBus.Bus
}
