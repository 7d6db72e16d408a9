package provider

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/types"
	"github.com/vechain/walletkit/internal/util"
)

// ErrConnectionRejected is returned by connectors when the user declined
// the connection request in their wallet.
var ErrConnectionRejected = errors.New("connection rejected in wallet")

// WalletConnector abstracts the third-party wallet connector (VeWorld,
// Sync2, WalletConnect). The session is whatever the connector reports;
// signing is pass-through.
type WalletConnector interface {
	// Connect opens the connector's own approval flow
	Connect(ctx context.Context) (*ConnectorSession, error)

	// Disconnect tears down the connector session
	Disconnect(ctx context.Context) error

	// SignTransaction passes the payload through to the connected wallet
	SignTransaction(ctx context.Context, payload []byte) ([]byte, error)
}

// ConnectorSession is the session state a connector reports after approval
type ConnectorSession struct {
	Address    string
	ChainID    string
	WalletName string
}

// ExternalProvider serves logins through a third-party wallet connector
type ExternalProvider struct {
	connector WalletConnector

	mu      sync.RWMutex
	session *ConnectorSession
}

// NewExternalProvider creates the external wallet provider
func NewExternalProvider(connector WalletConnector) (*ExternalProvider, error) {
	if connector == nil {
		return nil, errors.New("wallet connector is required")
	}

	return &ExternalProvider{connector: connector}, nil
}

// Source returns the provider family
func (p *ExternalProvider) Source() types.ConnectionSource {
	return types.SourceExternalWallet
}

// SupportsMethod checks whether this provider serves the login method
func (p *ExternalProvider) SupportsMethod(method types.LoginMethod) bool {
	return method == types.LoginMethodWallet
}

// Initiate delegates to the connector's approval flow
func (p *ExternalProvider) Initiate(ctx context.Context, _ InitiateParams) (*Result, error) {
	log := util.LogFromContext(ctx)

	session, err := p.connector.Connect(ctx)
	if err != nil {
		return nil, classifyConnectorError(err)
	}
	if session == nil || session.Address == "" {
		return nil, types.NewProviderError("wallet_connect_empty", errors.New("connector returned no session"))
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()

	log.Debug().Str("wallet", session.WalletName).Msg("External wallet connected")

	return &Result{
		Address: session.Address,
		ChainID: session.ChainID,
		Metadata: map[string]string{
			"walletName": session.WalletName,
		},
	}, nil
}

// Disconnect tears down the connector session. Idempotent.
func (p *ExternalProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	active := p.session != nil
	p.session = nil
	p.mu.Unlock()

	if !active {
		return nil
	}

	if err := p.connector.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "failed to disconnect wallet connector")
	}

	return nil
}

// SignMessage passes the payload through to the connected wallet
func (p *ExternalProvider) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil {
		return nil, errors.New("no active session")
	}

	return p.connector.SignTransaction(ctx, payload)
}

// classifyConnectorError translates connector failures into the taxonomy
func classifyConnectorError(err error) *types.AuthError {
	switch {
	case errors.Is(err, ErrConnectionRejected), errors.Is(err, context.Canceled):
		return types.NewUserRejection("wallet_connect_rejected", err)
	case errors.Is(err, context.DeadlineExceeded), isNetworkError(err):
		return types.NewNetworkError("wallet_connect_network", err)
	default:
		return types.NewProviderError("wallet_connect_failed", err)
	}
}
