package connection_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/types"
)

const testAddress = "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"

type fakeProvider struct {
	source      types.ConnectionSource
	method      types.LoginMethod
	initiate    func(ctx context.Context, params provider.InitiateParams) (*provider.Result, error)
	initiations int32
	disconnects int32
}

func (p *fakeProvider) Source() types.ConnectionSource { return p.source }

func (p *fakeProvider) SupportsMethod(method types.LoginMethod) bool { return method == p.method }

func (p *fakeProvider) Initiate(ctx context.Context, params provider.InitiateParams) (*provider.Result, error) {
	atomic.AddInt32(&p.initiations, 1)
	return p.initiate(ctx, params)
}

func (p *fakeProvider) Disconnect(_ context.Context) error {
	atomic.AddInt32(&p.disconnects, 1)
	return nil
}

func (p *fakeProvider) SignMessage(_ context.Context, _ []byte) ([]byte, error) {
	return nil, nil
}

func walletResult() *provider.Result {
	return &provider.Result{
		Address: testAddress,
		ChainID: "0x00000000851caf3c",
		Metadata: map[string]string{
			"walletName": "veworld",
		},
	}
}

func newManager(t *testing.T, providers []provider.Provider, methods []types.LoginMethod) (connection.Manager, store.Store) {
	t.Helper()

	st := store.NewMemoryStore()
	mgr, err := connection.NewManager(connection.Config{
		Providers:      providers,
		EnabledMethods: methods,
		Store:          st,
		Metrics:        metrics.New(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	return mgr, st
}

func TestConnectSuccess(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceExternalWallet,
		method: types.LoginMethodWallet,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			return walletResult(), nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	conn, err := mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
	require.NoError(t, err)

	assert.Equal(t, connection.StateConnected, mgr.State())
	assert.True(t, mgr.IsConnected())
	assert.Equal(t, types.SourceExternalWallet, conn.Source)
	assert.Equal(t, "0x00000000851caf3c", conn.ChainID)
	assert.NotEmpty(t, conn.Address)
}

func TestConnectMethodNotEnabled(t *testing.T) {
	p := &fakeProvider{source: types.SourceExternalWallet, method: types.LoginMethodWallet}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	_, err := mgr.Connect(context.Background(), types.LoginMethodEmail, provider.InitiateParams{})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryConfigurationError, authErr.Category)
	assert.Equal(t, connection.StateDisconnected, mgr.State())
}

func TestConnectConcurrentCoalesced(t *testing.T) {
	release := make(chan struct{})
	p := &fakeProvider{
		source: types.SourceExternalWallet,
		method: types.LoginMethodWallet,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			<-release
			return walletResult(), nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	var wg sync.WaitGroup
	results := make([]*connection.Connection, 2)
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
		}(i)
	}

	// Let both goroutines reach the manager before releasing the ceremony
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].Address, results[1].Address)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.initiations), "the ceremony must run exactly once")
}

func TestConnectUserRejection(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceEmbeddedWallet,
		method: types.LoginMethodEmail,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			return nil, types.NewUserRejection("embedded_login_cancelled", provider.ErrCeremonyCancelled)
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodEmail})

	_, err := mgr.Connect(context.Background(), types.LoginMethodEmail, provider.InitiateParams{})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryUserRejection, authErr.Category)
	assert.Equal(t, connection.StateDisconnected, mgr.State())
	assert.Nil(t, mgr.Current())

	// Nothing was persisted for the failed attempt
	entry, err := mgr.CachedEntry(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestConnectInvalidAddress(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceExternalWallet,
		method: types.LoginMethodWallet,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			return &provider.Result{Address: "not-an-address", ChainID: "0x1"}, nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	_, err := mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryProviderError, authErr.Category)
	assert.Equal(t, connection.StateDisconnected, mgr.State())
}

func TestDisconnectIdempotent(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceExternalWallet,
		method: types.LoginMethodWallet,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			return walletResult(), nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	var disconnectedEvents int32
	require.NoError(t, mgr.Bus().Subscribe(connection.EventDisconnected, func() {
		atomic.AddInt32(&disconnectedEvents, 1)
	}))

	_, err := mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
	require.NoError(t, err)

	require.NoError(t, mgr.Disconnect(context.Background()))
	require.NoError(t, mgr.Disconnect(context.Background()))
	require.NoError(t, mgr.Disconnect(context.Background()))

	assert.Equal(t, connection.StateDisconnected, mgr.State())
	assert.Nil(t, mgr.Current())
	assert.Equal(t, int32(1), atomic.LoadInt32(&disconnectedEvents), "repeat disconnects must not re-emit")
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.disconnects))
}

func TestCrossAppConnectPersistsCacheEntry(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceCrossApp,
		method: types.LoginMethodEcosystem,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			result := walletResult()
			result.App = &provider.EcosystemApp{AppID: "mugshot", Name: "Mugshot", LogoURL: "https://mugshot.app/logo.png"}
			return result, nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodEcosystem})

	_, err := mgr.Connect(context.Background(), types.LoginMethodEcosystem, provider.InitiateParams{AppID: "mugshot"})
	require.NoError(t, err)

	entry, err := mgr.CachedEntry(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "mugshot", entry.AppID)
	assert.Equal(t, "Mugshot", entry.Name)

	// Disconnect clears the persisted entry
	require.NoError(t, mgr.Disconnect(context.Background()))

	entry, err = mgr.CachedEntry(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCacheEntryExpires(t *testing.T) {
	p := &fakeProvider{
		source: types.SourceCrossApp,
		method: types.LoginMethodEcosystem,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			result := walletResult()
			result.App = &provider.EcosystemApp{AppID: "mugshot", Name: "Mugshot"}
			return result, nil
		},
	}

	st := store.NewMemoryStore()
	mgr, err := connection.NewManager(connection.Config{
		Providers:      []provider.Provider{p},
		EnabledMethods: []types.LoginMethod{types.LoginMethodEcosystem},
		Store:          st,
		Metrics:        metrics.New(prometheus.NewRegistry()),
		CacheTTL:       30 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = mgr.Connect(context.Background(), types.LoginMethodEcosystem, provider.InitiateParams{AppID: "mugshot"})
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	entry, err := mgr.CachedEntry(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry, "entries past their TTL are invalidated")
}

func TestRestoreWithoutCacheEntry(t *testing.T) {
	p := &fakeProvider{source: types.SourceCrossApp, method: types.LoginMethodEcosystem}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodEcosystem})

	conn, err := mgr.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, conn)
	assert.Equal(t, connection.StateDisconnected, mgr.State())
}

func TestReauthenticationReplacesConnection(t *testing.T) {
	addresses := []string{testAddress, "0xf077b491b355e64048ce21e3a6fc4751eeea77fa"}
	var call int32

	p := &fakeProvider{
		source: types.SourceExternalWallet,
		method: types.LoginMethodWallet,
		initiate: func(_ context.Context, _ provider.InitiateParams) (*provider.Result, error) {
			result := walletResult()
			result.Address = addresses[atomic.AddInt32(&call, 1)-1]
			return result, nil
		},
	}

	mgr, _ := newManager(t, []provider.Provider{p}, []types.LoginMethod{types.LoginMethodWallet})

	first, err := mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
	require.NoError(t, err)

	second, err := mgr.Connect(context.Background(), types.LoginMethodWallet, provider.InitiateParams{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Address, second.Address)
	assert.Equal(t, second.Address, mgr.Current().Address)
}
