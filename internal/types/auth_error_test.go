package types_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/types"
)

func TestAuthErrorClassification(t *testing.T) {
	cause := errors.New("popup closed")

	err := types.NewUserRejection("ceremony_cancelled", cause)
	assert.Equal(t, types.CategoryUserRejection, err.Category)
	assert.False(t, err.Retryable)
	assert.True(t, err.IsUserRejection())
	assert.ErrorIs(t, err, cause)

	blocked := types.NewPopupBlocked("popup_blocked", cause)
	assert.Equal(t, types.CategoryPopupBlocked, blocked.Category)
	assert.True(t, blocked.Retryable)

	network := types.NewNetworkError("request_failed", cause)
	assert.Equal(t, types.CategoryNetworkError, network.Category)
	assert.True(t, network.Retryable)

	misconfigured := types.NewConfigurationError("missing_factory", cause)
	assert.Equal(t, types.CategoryConfigurationError, misconfigured.Category)
	assert.False(t, misconfigured.Retryable)
}

func TestAsAuthErrorPassthrough(t *testing.T) {
	original := types.NewProviderError("bad_shape", errors.New("unexpected response"))

	// an already-classified error is never re-interpreted
	classified := types.AsAuthError(errors.Wrap(original, "initiate"))
	assert.Same(t, original, classified)
}

func TestAsAuthErrorCancellation(t *testing.T) {
	classified := types.AsAuthError(context.Canceled)
	assert.Equal(t, types.CategoryUserRejection, classified.Category)
}

func TestAsAuthErrorUnknown(t *testing.T) {
	classified := types.AsAuthError(errors.New("boom"))
	require.NotNil(t, classified)
	assert.Equal(t, types.CategoryUnknown, classified.Category)
}
