package feedelegation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/store"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/util"
)

const defaultCacheTTL = 30 * time.Second

// Config wires the fee delegation estimator
type Config struct {
	DelegatorURL string
	Store        store.Store
	Metrics      *metrics.Metrics
	Speed        Speed

	// CacheTTL overrides the default 30s estimate cache window
	CacheTTL time.Duration
}

type service struct {
	client  *delegatorClient
	store   store.Store
	metrics *metrics.Metrics
	speed   Speed
	cache   *bigcache.BigCache
}

// NewService creates the fee delegation estimator
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(config Config) (Service, error) {
	if config.DelegatorURL == "" {
		return nil, errors.New("delegator URL is required")
	}
	if config.Store == nil {
		return nil, errors.New("store is required")
	}
	if config.Metrics == nil {
		return nil, errors.New("metrics are required")
	}

	if config.Speed == "" {
		config.Speed = SpeedRegular
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaultCacheTTL
	}

	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(config.CacheTTL))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create estimate cache")
	}

	return &service{
		client:  newDelegatorClient(config.DelegatorURL),
		store:   config.Store,
		metrics: config.Metrics,
		speed:   config.Speed,
		cache:   cache,
	}, nil
}

// Estimate returns per-token delegation costs for the clause set. Results
// are cached briefly keyed by the exact clause set and candidate order,
// since any clause change invalidates a prior estimate.
func (s *service) Estimate(ctx context.Context, clauses []thor.Clause, prefs Preferences) (*Result, error) {
	log := util.LogFromContext(ctx)

	if len(clauses) == 0 {
		return nil, errors.New("at least one clause is required")
	}

	order := prefs.EffectiveOrder()
	if len(order) == 0 {
		return nil, ErrNoViableGasToken
	}

	key, err := cacheKey(clauses, order, s.speed)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(key); err == nil {
		var result Result
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	result := &Result{Estimates: make([]TokenEstimate, 0, len(order))}

	var transportErr error
	answered := false

	for _, token := range order {
		estimate, err := s.client.estimate(ctx, clauses, token, s.speed)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			if errors.Is(err, errTokenUnavailable) {
				answered = true
			} else {
				transportErr = err
				log.Debug().Str("token", token.String()).Err(err).Msg("Fee estimate failed for token")
			}

			result.Estimates = append(result.Estimates, TokenEstimate{Token: token})
			s.metrics.FeeEstimates.WithLabelValues(token.String(), strconv.FormatBool(false)).Inc()

			continue
		}

		answered = true
		result.Estimates = append(result.Estimates, *estimate)
		s.metrics.FeeEstimates.WithLabelValues(token.String(), strconv.FormatBool(true)).Inc()

		// First available token in priority order is the default selection
		if result.Selected == nil {
			selected := *estimate
			result.Selected = &selected
		}
	}

	if result.Selected == nil {
		// Distinguish "the delegator said no" from "we never reached it"
		if !answered && transportErr != nil {
			return nil, transportErr
		}
		return nil, ErrNoViableGasToken
	}

	if payload, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(key, payload)
	}

	return result, nil
}

// cacheKey hashes the exact clause set, candidate order and speed tier
func cacheKey(clauses []thor.Clause, order []GasToken, speed Speed) (string, error) {
	payload, err := json.Marshal(struct {
		Clauses []signer.AuthorizedClause `json:"clauses"`
		Order   []GasToken                `json:"order"`
		Speed   Speed                     `json:"speed"`
	}{encodeClauses(clauses), order, speed})
	if err != nil {
		return "", errors.Wrap(err, "failed to build cache key")
	}

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:]), nil
}
