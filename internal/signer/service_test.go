package signer_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/smartaccount"
	"github.com/vechain/walletkit/internal/test"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
)

var (
	ownerAddr   = common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	accountAddr = common.HexToAddress("0xb42000000000000000000000000000000000a0a0")
	factoryAddr = common.HexToAddress("0xf420000000000000000000000000000000000003")
	recipient   = common.HexToAddress("0x0f872421dc479f3c11edd89512731814d0598db5")
)

// relayingProvider fakes an embedded provider with relay support
type relayingProvider struct {
	signed  [][]byte
	relayed [][]byte
}

func (p *relayingProvider) Source() types.ConnectionSource { return types.SourceEmbeddedWallet }
func (p *relayingProvider) SupportsMethod(m types.LoginMethod) bool { return m.IsEmbedded() }
func (p *relayingProvider) Disconnect(_ context.Context) error { return nil }

func (p *relayingProvider) Initiate(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
	return nil, nil
}

func (p *relayingProvider) SignMessage(_ context.Context, payload []byte) ([]byte, error) {
	p.signed = append(p.signed, payload)
	return []byte{0xbe, 0xef}, nil
}

func (p *relayingProvider) RelayAuthorization(_ context.Context, authorization []byte) (string, error) {
	p.relayed = append(p.relayed, authorization)
	return "0xtx1", nil
}

// passthroughProvider fakes an external wallet connector session
type passthroughProvider struct {
	signed [][]byte
}

func (p *passthroughProvider) Source() types.ConnectionSource { return types.SourceExternalWallet }
func (p *passthroughProvider) SupportsMethod(m types.LoginMethod) bool { return m == types.LoginMethodWallet }
func (p *passthroughProvider) Disconnect(_ context.Context) error { return nil }

func (p *passthroughProvider) Initiate(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
	return nil, nil
}

func (p *passthroughProvider) SignMessage(_ context.Context, payload []byte) ([]byte, error) {
	p.signed = append(p.signed, payload)
	return []byte{0x01, 0x02, 0x03}, nil
}

type resolverFunc func(method types.LoginMethod) provider.Provider

func (f resolverFunc) ProviderFor(method types.LoginMethod) provider.Provider { return f(method) }

func smartAccountClient() *test.ThorClient {
	return &test.ThorClient{
		ReadContractFunc: func(_ context.Context, _ common.Address, _ string, method string, _ ...interface{}) ([]interface{}, error) {
			switch method {
			case "getAccountAddress":
				return []interface{}{accountAddr}, nil
			case "version":
				return []interface{}{uint32(3)}, nil
			}
			return nil, nil
		},
		GetAccountFunc: func(_ context.Context, _ common.Address) (*thor.Account, error) {
			return &thor.Account{HasCode: true}, nil
		},
		GetBestBlockRefFunc: func(_ context.Context) (string, error) {
			return "0x00000000851caf3c", nil
		},
		SendRawTransactionFunc: func(_ context.Context, _ []byte) (string, error) {
			return "0xtx2", nil
		},
	}
}

func newSmartAccounts(t *testing.T, client thor.Client) smartaccount.Service {
	t.Helper()

	svc, err := smartaccount.NewService(client, map[string]common.Address{"main": factoryAddr})
	require.NoError(t, err)

	return svc
}

func newService(t *testing.T, p provider.Provider, client thor.Client) signer.Service {
	t.Helper()

	var resolver resolverFunc = func(_ types.LoginMethod) provider.Provider { return p }

	smartAccounts := newSmartAccounts(t, client)

	svc, err := signer.NewService(resolver, smartAccounts, client, "main", metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)

	return svc
}

func TestGetSignerNilConnection(t *testing.T) {
	svc := newService(t, &passthroughProvider{}, smartAccountClient())

	s, err := svc.GetSigner(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, s, "no connection must yield nil, not an error")
}

func TestGetSignerDirect(t *testing.T) {
	p := &passthroughProvider{}
	svc := newService(t, p, smartAccountClient())

	conn := &connection.Connection{
		Address:   ownerAddr.Hex(),
		ChainID:   "0x00000000851caf3c",
		Source:    types.SourceExternalWallet,
		Method:    types.LoginMethodWallet,
		Timestamp: time.Now(),
	}

	s, err := svc.GetSigner(context.Background(), conn)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, ownerAddr, s.Address(), "direct signer acts as the wallet address")

	txID, err := s.SignAndSend(context.Background(), []thor.Clause{{To: &recipient}})
	require.NoError(t, err)
	assert.Equal(t, "0xtx2", txID)
	assert.Len(t, p.signed, 1)
}

func TestGetSignerSmart(t *testing.T) {
	p := &relayingProvider{}
	svc := newService(t, p, smartAccountClient())

	conn := &connection.Connection{
		Address:   ownerAddr.Hex(),
		ChainID:   "0x00000000851caf3c",
		Source:    types.SourceEmbeddedWallet,
		Method:    types.LoginMethodEmail,
		Timestamp: time.Now(),
	}

	s, err := svc.GetSigner(context.Background(), conn)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, accountAddr, s.Address(), "smart signer acts as the smart-account address")

	txID, err := s.SignAndSend(context.Background(), []thor.Clause{{To: &recipient}})
	require.NoError(t, err)
	assert.Equal(t, "0xtx1", txID)

	// The owner signed the authorization structure, not the raw transaction
	require.Len(t, p.signed, 1)
	var unsigned signer.Authorization
	require.NoError(t, json.Unmarshal(p.signed[0], &unsigned))
	assert.Equal(t, accountAddr.Hex(), unsigned.Account)
	assert.Equal(t, "0x00000000851caf3c", unsigned.BlockRef)
	assert.Empty(t, unsigned.Signature)

	// The relayed authorization carries the signature
	require.Len(t, p.relayed, 1)
	var signed signer.Authorization
	require.NoError(t, json.Unmarshal(p.relayed[0], &signed))
	assert.Equal(t, "0xbeef", signed.Signature)
	require.Len(t, signed.Clauses, 1)
	assert.Equal(t, recipient.Hex(), signed.Clauses[0].To)
}

func TestGetSignerSmartWithoutRelayer(t *testing.T) {
	// An external-style provider cannot back a smart-account connection
	svc := newService(t, &passthroughProvider{}, smartAccountClient())

	conn := &connection.Connection{
		Address: ownerAddr.Hex(),
		Source:  types.SourceEmbeddedWallet,
		Method:  types.LoginMethodEmail,
	}

	_, err := svc.GetSigner(context.Background(), conn)
	require.Error(t, err)
}

func TestSignAndSendEmptyClauses(t *testing.T) {
	svc := newService(t, &passthroughProvider{}, smartAccountClient())

	conn := &connection.Connection{
		Address: ownerAddr.Hex(),
		Source:  types.SourceExternalWallet,
		Method:  types.LoginMethodWallet,
	}

	s, err := svc.GetSigner(context.Background(), conn)
	require.NoError(t, err)

	_, err = s.SignAndSend(context.Background(), nil)
	require.Error(t, err)
}
