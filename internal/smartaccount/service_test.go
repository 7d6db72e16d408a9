package smartaccount_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/smartaccount"
	"github.com/vechain/walletkit/internal/test"
	"github.com/vechain/walletkit/internal/thor"
)

const networkMain = "main"

var (
	ownerAddr   = common.HexToAddress("0xA420000000000000000000000000000000000001")
	accountAddr = common.HexToAddress("0xB420000000000000000000000000000000000002")
	factoryAddr = common.HexToAddress("0xF420000000000000000000000000000000000003")
)

func newResolver(t *testing.T, client thor.Client) smartaccount.Service {
	t.Helper()

	svc, err := smartaccount.NewService(client, map[string]common.Address{networkMain: factoryAddr})
	require.NoError(t, err)

	return svc
}

func stubClient(hasCode bool, versionResult []interface{}, versionErr error) *test.ThorClient {
	return &test.ThorClient{
		ReadContractFunc: func(_ context.Context, address common.Address, _ string, method string, _ ...interface{}) ([]interface{}, error) {
			switch method {
			case "getAccountAddress":
				return []interface{}{accountAddr}, nil
			case "version":
				return versionResult, versionErr
			case "currentAccountImplementationVersion":
				return []interface{}{uint32(3)}, nil
			case "hasLegacyAccount":
				return []interface{}{false}, nil
			}
			return nil, errors.Errorf("unexpected method %s on %s", method, address.Hex())
		},
		GetAccountFunc: func(_ context.Context, _ common.Address) (*thor.Account, error) {
			return &thor.Account{HasCode: hasCode}, nil
		},
	}
}

func TestResolveAccountUndeployed(t *testing.T) {
	svc := newResolver(t, stubClient(false, nil, nil))

	info, err := svc.ResolveAccount(context.Background(), ownerAddr, networkMain)
	require.NoError(t, err)

	assert.Equal(t, accountAddr, info.AccountAddress)
	assert.False(t, info.IsDeployed)
	assert.Equal(t, smartaccount.VersionUndeployed, info.ImplementationVersion)
	assert.Equal(t, "undeployed", info.ImplementationVersion.String())
}

func TestResolveAccountDeterministic(t *testing.T) {
	svc := newResolver(t, stubClient(true, []interface{}{uint32(3)}, nil))

	first, err := svc.ResolveAccount(context.Background(), ownerAddr, networkMain)
	require.NoError(t, err)

	second, err := svc.ResolveAccount(context.Background(), ownerAddr, networkMain)
	require.NoError(t, err)

	assert.Equal(t, first.AccountAddress, second.AccountAddress)
}

func TestResolveAccountLegacyVersionRevert(t *testing.T) {
	// A deployed account whose version() reverts predates the accessor and
	// must resolve as version 1, not as a failure.
	svc := newResolver(t, stubClient(true, nil, errors.Wrap(thor.ErrReverted, "version")))

	info, err := svc.ResolveAccount(context.Background(), ownerAddr, networkMain)
	require.NoError(t, err)

	assert.True(t, info.IsDeployed)
	assert.Equal(t, smartaccount.VersionLegacy, info.ImplementationVersion)
}

func TestResolveAccountMissingOwner(t *testing.T) {
	svc := newResolver(t, stubClient(true, []interface{}{uint32(3)}, nil))

	_, err := svc.ResolveAccount(context.Background(), common.Address{}, networkMain)
	require.Error(t, err)
}

func TestResolveAccountUnknownNetwork(t *testing.T) {
	svc := newResolver(t, stubClient(true, []interface{}{uint32(3)}, nil))

	_, err := svc.ResolveAccount(context.Background(), ownerAddr, "side")
	require.Error(t, err)
}

func TestNeedsUpgrade(t *testing.T) {
	t.Run("undeployed never needs upgrade", func(t *testing.T) {
		svc := newResolver(t, stubClient(false, nil, nil))

		needs, err := svc.NeedsUpgrade(context.Background(), ownerAddr, networkMain, 3)
		require.NoError(t, err)
		assert.False(t, needs)
	})

	t.Run("older version needs upgrade", func(t *testing.T) {
		svc := newResolver(t, stubClient(true, []interface{}{uint32(2)}, nil))

		needs, err := svc.NeedsUpgrade(context.Background(), ownerAddr, networkMain, 3)
		require.NoError(t, err)
		assert.True(t, needs)
	})

	t.Run("current version is monotonic", func(t *testing.T) {
		svc := newResolver(t, stubClient(true, []interface{}{uint32(3)}, nil))

		for i := 0; i < 3; i++ {
			needs, err := svc.NeedsUpgrade(context.Background(), ownerAddr, networkMain, 3)
			require.NoError(t, err)
			assert.False(t, needs)
		}
	})

	t.Run("legacy account needs upgrade", func(t *testing.T) {
		svc := newResolver(t, stubClient(true, nil, thor.ErrReverted))

		needs, err := svc.NeedsUpgrade(context.Background(), ownerAddr, networkMain, 3)
		require.NoError(t, err)
		assert.True(t, needs)
	})
}

func TestCurrentFactoryVersion(t *testing.T) {
	svc := newResolver(t, stubClient(true, []interface{}{uint32(3)}, nil))

	version, err := svc.CurrentFactoryVersion(context.Background(), networkMain)
	require.NoError(t, err)
	assert.Equal(t, smartaccount.Version(3), version)
}
