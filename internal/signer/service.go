package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/smartaccount"
	"github.com/vechain/walletkit/internal/thor"
)

type service struct {
	providers    ProviderResolver
	smartAccount smartaccount.Service
	client       thor.Client
	network      string
	metrics      *metrics.Metrics
}

// NewService creates the signer adapter
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(providers ProviderResolver, smartAccount smartaccount.Service, client thor.Client, network string, m *metrics.Metrics) (Service, error) {
	if providers == nil {
		return nil, errors.New("provider resolver is required")
	}
	if smartAccount == nil {
		return nil, errors.New("smart account service is required")
	}
	if m == nil {
		return nil, errors.New("metrics are required")
	}

	return &service{
		providers:    providers,
		smartAccount: smartAccount,
		client:       client,
		network:      network,
		metrics:      m,
	}, nil
}

// GetSigner returns the signing capability for the connection. The two
// signing styles never mix: a connection is either owner-signed directly or
// authorization-relayed through the smart account.
//
//nolint:ireturn // Returning interface is intentional, signers are polymorphic
func (s *service) GetSigner(ctx context.Context, conn *connection.Connection) (Signer, error) {
	if conn == nil {
		return nil, nil
	}

	p := s.providers.ProviderFor(conn.Method)
	if p == nil {
		return nil, errors.Errorf("no provider serves login method %q", conn.Method)
	}

	owner := common.HexToAddress(conn.Address)

	if !conn.Source.UsesSmartAccountSigning() {
		return &directSigner{
			provider: p,
			client:   s.client,
			address:  owner,
		}, nil
	}

	relayer, ok := p.(Relayer)
	if !ok {
		return nil, errors.Errorf("provider for %q cannot relay authorizations", conn.Method)
	}

	info, err := s.smartAccount.ResolveAccount(ctx, owner, s.network)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve smart account")
	}

	return &smartSigner{
		provider: p,
		relayer:  relayer,
		client:   s.client,
		account:  info.AccountAddress,
		chainID:  conn.ChainID,
		metrics:  s.metrics,
	}, nil
}
