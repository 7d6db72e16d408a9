package auth

import (
	"context"

	"github.com/asaskevich/EventBus"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/feedelegation"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
)

// SendRequest is a transaction submission through the active connection
type SendRequest struct {
	Clauses []thor.Clause

	// GasToken overrides the preferred token for this transaction only.
	// Empty means the persisted preference order applies.
	GasToken feedelegation.GasToken
}

// SendResult is the outcome of a relayed or directly signed transaction
type SendResult struct {
	TxID     string                `json:"txId"`
	Signer   string                `json:"signer"`
	Estimate *feedelegation.Result `json:"estimate,omitempty"`
}

// Status is the externally visible session snapshot
type Status struct {
	State      connection.State       `json:"state"`
	Connection *connection.Connection `json:"connection,omitempty"`
}

// Manager is the single entry point tying connection lifecycle, signer
// resolution and fee delegation together. Callers hold one Manager for the
// lifetime of the process.
type Manager interface {
	// Connect authenticates through the provider serving method
	Connect(ctx context.Context, method types.LoginMethod, params provider.InitiateParams) (*connection.Connection, error)

	// Disconnect tears down the active session. Safe from any state.
	Disconnect(ctx context.Context) error

	// Restore attempts a silent reconnection from persisted state
	Restore(ctx context.Context) (*connection.Connection, error)

	// Status returns the current state and connection snapshot
	Status() Status

	// IsMethodAvailable reflects static configuration
	IsMethodAvailable(method types.LoginMethod) bool

	// AvailableMethods lists the methods enabled by configuration
	AvailableMethods() []types.LoginMethod

	// Signer resolves the signer for the active connection. Reports an
	// error when no connection is active.
	Signer(ctx context.Context) (signer.Signer, error)

	// EstimateFees prices the clause set under the persisted preferences
	EstimateFees(ctx context.Context, clauses []thor.Clause) (*feedelegation.Result, error)

	// Send estimates, signs and submits the clause set in one call
	Send(ctx context.Context, req SendRequest) (*SendResult, error)

	// GasTokenPreferences loads the persisted preferences
	GasTokenPreferences(ctx context.Context) (feedelegation.Preferences, error)

	// SaveGasTokenPreferences persists the preferences
	SaveGasTokenPreferences(ctx context.Context, prefs feedelegation.Preferences) error

	// Bus exposes lifecycle events for subscribers
	Bus() EventBus.Bus
}
