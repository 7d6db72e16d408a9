package feedelegation

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/thor"
)

// ErrNoViableGasToken is reported when no candidate token is available for
// fee delegation. The estimator never silently selects an unavailable one.
var ErrNoViableGasToken = errors.New("no viable gas token")

// GasToken is a fungible token accepted by the fee delegation service
type GasToken string

const (
	TokenVET  GasToken = "VET"
	TokenVTHO GasToken = "VTHO"
	TokenB3TR GasToken = "B3TR"
)

// SupportedTokens is the closed set of tokens the delegator accepts
var SupportedTokens = []GasToken{TokenVTHO, TokenB3TR, TokenVET}

// IsSupported checks membership in the known token set
func (t GasToken) IsSupported() bool {
	for _, token := range SupportedTokens {
		if token == t {
			return true
		}
	}
	return false
}

// String returns the token symbol
func (t GasToken) String() string {
	return string(t)
}

// Speed is the delegation speed tier
type Speed string

const (
	SpeedRegular Speed = "regular"
	SpeedFast    Speed = "fast"
)

// Preferences is the user's gas-token choice. Owned and persisted by this
// package; no other component writes its store key.
type Preferences struct {
	TokenPriority  []GasToken `json:"tokenPriority"`
	ExcludedTokens []GasToken `json:"excludedTokens"`
	AlwaysConfirm  bool       `json:"alwaysConfirm"`
}

// DefaultPreferences is the order used before the user ever chose
func DefaultPreferences() Preferences {
	return Preferences{
		TokenPriority: []GasToken{TokenVTHO, TokenB3TR, TokenVET},
	}
}

// EffectiveOrder is the priority list filtered by exclusions. Unsupported
// tokens are dropped from both lists, so exclusions never expand beyond the
// known token set.
func (p Preferences) EffectiveOrder() []GasToken {
	excluded := make(map[GasToken]bool, len(p.ExcludedTokens))
	for _, token := range p.ExcludedTokens {
		if token.IsSupported() {
			excluded[token] = true
		}
	}

	order := make([]GasToken, 0, len(p.TokenPriority))
	for _, token := range p.TokenPriority {
		if token.IsSupported() && !excluded[token] {
			order = append(order, token)
		}
	}

	return order
}

// TokenEstimate is the delegation cost in one candidate token
type TokenEstimate struct {
	Token             GasToken `json:"token"`
	Available         bool     `json:"available"`
	EstimatedGas      uint64   `json:"estimatedGas"`
	TransactionCost   *big.Int `json:"transactionCost"`
	ServiceFee        *big.Int `json:"serviceFee"`
	ServiceFeeApplies bool     `json:"serviceFeeApplies"`
	DepositAccount    string   `json:"depositAccount"`
}

// Result is the per-token estimate set with the default selection: the
// first available token in the effective candidate order
type Result struct {
	Estimates []TokenEstimate `json:"estimates"`
	Selected  *TokenEstimate  `json:"selected"`
}

// Service estimates fee delegation costs and owns gas-token preferences
type Service interface {
	// Estimate returns per-token costs for the clause set under prefs.
	// Reports ErrNoViableGasToken when no candidate is available.
	Estimate(ctx context.Context, clauses []thor.Clause, prefs Preferences) (*Result, error)

	// Preferences loads the persisted preferences, falling back to defaults
	Preferences(ctx context.Context) (Preferences, error)

	// SavePreferences persists the preferences
	SavePreferences(ctx context.Context, prefs Preferences) error
}
