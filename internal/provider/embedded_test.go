package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/types"
)

type fakeLauncher struct {
	launch func(ctx context.Context, req *provider.CeremonyRequest) (*provider.CeremonyTask, error)
}

func (l *fakeLauncher) Launch(ctx context.Context, req *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
	return l.launch(ctx, req)
}

func completingLauncher(outcome *provider.CeremonyOutcome) *fakeLauncher {
	return &fakeLauncher{
		launch: func(_ context.Context, _ *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
			task := provider.NewCeremonyTask()
			task.Complete(outcome)
			return task, nil
		},
	}
}

func newEmbedded(t *testing.T, launcher provider.Launcher, timeout time.Duration) *provider.EmbeddedProvider {
	t.Helper()

	p, err := provider.NewEmbeddedProvider(launcher, provider.EmbeddedConfig{
		ServiceURL:      "http://wallet-service.local",
		CeremonyTimeout: timeout,
	})
	require.NoError(t, err)

	return p
}

func TestEmbeddedInitiateSuccess(t *testing.T) {
	outcome := &provider.CeremonyOutcome{
		Secret:    []byte("release-token-for-user-1"),
		UserID:    "user-1",
		SessionID: "session-1",
		Email:     "user@example.com",
	}

	p := newEmbedded(t, completingLauncher(outcome), time.Second)

	result, err := p.Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodEmail, Email: "user@example.com"})
	require.NoError(t, err)

	assert.True(t, common.IsHexAddress(result.Address))
	assert.Equal(t, "user@example.com", result.Metadata["email"])
	assert.Equal(t, "session-1", result.Metadata["sessionId"])
}

func TestEmbeddedInitiateDeterministicAddress(t *testing.T) {
	outcome := func() *provider.CeremonyOutcome {
		return &provider.CeremonyOutcome{
			Secret: []byte("release-token-for-user-1"),
			UserID: "user-1",
		}
	}

	first, err := newEmbedded(t, completingLauncher(outcome()), time.Second).
		Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodEmail})
	require.NoError(t, err)

	second, err := newEmbedded(t, completingLauncher(outcome()), time.Second).
		Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodEmail})
	require.NoError(t, err)

	assert.Equal(t, first.Address, second.Address)
}

func TestEmbeddedInitiatePopupClosed(t *testing.T) {
	launcher := &fakeLauncher{
		launch: func(_ context.Context, _ *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
			task := provider.NewCeremonyTask()
			go task.Cancel()
			return task, nil
		},
	}

	p := newEmbedded(t, launcher, time.Second)

	_, err := p.Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodEmail})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryUserRejection, authErr.Category)
	assert.False(t, authErr.Retryable)
}

func TestEmbeddedInitiatePopupBlocked(t *testing.T) {
	launcher := &fakeLauncher{
		launch: func(_ context.Context, _ *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
			return nil, provider.ErrPopupBlocked
		},
	}

	p := newEmbedded(t, launcher, time.Second)

	_, err := p.Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodPasskey})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryPopupBlocked, authErr.Category)
	assert.True(t, authErr.Retryable)
}

func TestEmbeddedInitiateTimeout(t *testing.T) {
	launcher := &fakeLauncher{
		launch: func(_ context.Context, _ *provider.CeremonyRequest) (*provider.CeremonyTask, error) {
			return provider.NewCeremonyTask(), nil
		},
	}

	p := newEmbedded(t, launcher, 20*time.Millisecond)

	_, err := p.Initiate(context.Background(), provider.InitiateParams{Method: types.LoginMethodEmail})
	require.Error(t, err)

	authErr := types.AsAuthError(err)
	assert.Equal(t, types.CategoryNetworkError, authErr.Category)
}

func TestEmbeddedSignMessageWithoutSession(t *testing.T) {
	p := newEmbedded(t, completingLauncher(nil), time.Second)

	_, err := p.SignMessage(context.Background(), []byte("payload"))
	require.Error(t, err)
}

func TestEmbeddedDisconnectIdempotent(t *testing.T) {
	p := newEmbedded(t, completingLauncher(nil), time.Second)

	require.NoError(t, p.Disconnect(context.Background()))
	require.NoError(t, p.Disconnect(context.Background()))
}

func TestCeremonyTaskSettlesOnce(t *testing.T) {
	task := provider.NewCeremonyTask()
	task.Complete(&provider.CeremonyOutcome{Secret: []byte("s"), UserID: "u"})
	task.Cancel() // ignored after settlement

	outcome, err := task.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "u", outcome.UserID)
}
