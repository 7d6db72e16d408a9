package feedelegation

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/util"
)

// prefsKey is the namespaced store key of the gas-token preferences.
// This package is the only writer of this key.
const prefsKey = "walletkit:gas-token-preferences"

// Preferences loads the persisted preferences, falling back to defaults
// when nothing was saved or the payload is unreadable
func (s *service) Preferences(ctx context.Context) (Preferences, error) {
	log := util.LogFromContext(ctx)

	payload, err := s.store.Get(ctx, prefsKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, errors.Wrap(err, "failed to read gas token preferences")
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		log.Warn().Err(err).Msg("Dropping unreadable gas token preferences")
		return DefaultPreferences(), nil
	}

	return prefs, nil
}

// SavePreferences persists the preferences after validating them against
// the known token set
func (s *service) SavePreferences(ctx context.Context, prefs Preferences) error {
	for _, token := range prefs.TokenPriority {
		if !token.IsSupported() {
			return errors.Errorf("unsupported token %q in priority list", token)
		}
	}
	for _, token := range prefs.ExcludedTokens {
		if !token.IsSupported() {
			return errors.Errorf("unsupported token %q in exclusion list", token)
		}
	}

	payload, err := json.Marshal(prefs)
	if err != nil {
		return errors.Wrap(err, "failed to marshal gas token preferences")
	}

	if err := s.store.Set(ctx, prefsKey, string(payload)); err != nil {
		return errors.Wrap(err, "failed to write gas token preferences")
	}

	return nil
}
