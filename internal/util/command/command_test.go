package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/api"
	"github.com/vechain/walletkit/internal/test"
	"github.com/vechain/walletkit/internal/util/command"
)

func TestWithServer(t *testing.T) {
	cfg := test.DefaultTestConfig()

	var testError = errors.New("test error")

	resultErr := command.WithServer(context.Background(), cfg, func(_ context.Context, s *api.Server) error {
		require.NotNil(t, s.Store)
		assert.True(t, s.Ready())

		return testError
	})

	assert.Equal(t, testError, resultErr)
}
