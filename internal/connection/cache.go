package connection

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/store"
)

// cacheKey is the namespaced store key of the cross-app connection entry.
// The manager is the only writer of this key.
const cacheKey = "walletkit:crossapp-connection"

// writeCacheEntry persists the partner-app metadata after a cross-app login
func (m *manager) writeCacheEntry(ctx context.Context, app *provider.EcosystemApp) error {
	entry := CacheEntry{
		AppID:       app.AppID,
		Name:        app.Name,
		LogoURL:     app.LogoURL,
		ConnectedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cache entry")
	}

	if err := m.store.Set(ctx, cacheKey, string(payload)); err != nil {
		return errors.Wrap(err, "failed to write cache entry")
	}

	return nil
}

// CachedEntry returns the persisted cross-app entry, dropping it when the
// TTL has elapsed
func (m *manager) CachedEntry(ctx context.Context) (*CacheEntry, error) {
	payload, err := m.store.Get(ctx, cacheKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read cache entry")
	}

	var entry CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		// A corrupt entry is dropped, not surfaced
		_ = m.store.Remove(ctx, cacheKey)
		return nil, nil
	}

	if time.Since(entry.ConnectedAt) > m.cacheTTL {
		if err := m.store.Remove(ctx, cacheKey); err != nil {
			return nil, errors.Wrap(err, "failed to invalidate expired cache entry")
		}
		return nil, nil
	}

	return &entry, nil
}

// clearCacheEntry removes the persisted entry on disconnect
func (m *manager) clearCacheEntry(ctx context.Context) error {
	return m.store.Remove(ctx, cacheKey)
}
