package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/store"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "key", "value"))

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, s.Remove(ctx, "key"))
	_, err = s.Get(ctx, "key")
	require.ErrorIs(t, err, store.ErrNotFound)

	// removing again is a no-op
	require.NoError(t, s.Remove(ctx, "key"))
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s, err := store.NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer func() {
		if closer, ok := s.(interface{ Close() error }); ok {
			require.NoError(t, closer.Close())
		}
	}()

	ctx := context.Background()

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "key", "value"))

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, s.Remove(ctx, "key"))
	_, err = s.Get(ctx, "key")
	require.ErrorIs(t, err, store.ErrNotFound)
}
