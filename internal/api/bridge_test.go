package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/types"
)

func launchCeremony(t *testing.T, bridge *api.Bridge) *provider.CeremonyTask {
	t.Helper()

	task, err := bridge.Launch(context.Background(), &provider.CeremonyRequest{Method: types.LoginMethodEmail})
	require.NoError(t, err)

	return task
}

func TestBridgeDropsCeremonyAfterAwaitTimeout(t *testing.T) {
	bridge := api.NewBridge()

	for i := 0; i < 3; i++ {
		task := launchCeremony(t, bridge)

		_, err := task.Await(context.Background(), 10*time.Millisecond)
		require.ErrorIs(t, err, provider.ErrCeremonyTimeout)
	}

	require.Eventually(t, func() bool {
		return len(bridge.Ceremonies()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBridgeDropsCeremonyOnCancelledWait(t *testing.T) {
	bridge := api.NewBridge()
	task := launchCeremony(t, bridge)

	pending := bridge.Ceremonies()
	require.Len(t, pending, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := task.Await(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)

	require.Eventually(t, func() bool {
		return len(bridge.Ceremonies()) == 0
	}, time.Second, 10*time.Millisecond)

	// Settling a ceremony nobody waits on anymore is an error, not a hang
	assert.Error(t, bridge.CancelCeremony(pending[0].ID))
}

func TestBridgeDropsCeremonyOnceCompleted(t *testing.T) {
	bridge := api.NewBridge()
	task := launchCeremony(t, bridge)

	pending := bridge.Ceremonies()
	require.Len(t, pending, 1)

	require.NoError(t, bridge.CompleteCeremony(pending[0].ID, &provider.CeremonyOutcome{Secret: []byte{0x01}}))

	outcome, err := task.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, outcome.Secret)

	assert.Empty(t, bridge.Ceremonies())
}
