package feedelegation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/signer"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
)

const (
	maxEstimateAttempts = 3
	initialBackoff      = 250 * time.Millisecond
)

// errTokenUnavailable marks a token the delegator refuses, as opposed to a
// failing delegator
var errTokenUnavailable = errors.New("token not available for delegation")

// delegatorClient talks to the fee delegation HTTP service
type delegatorClient struct {
	baseURL string
	http    *http.Client
}

func newDelegatorClient(baseURL string) *delegatorClient {
	return &delegatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type estimateRequest struct {
	Clauses []signer.AuthorizedClause `json:"clauses"`
	Token   string                    `json:"token"`
	Speed   string                    `json:"speed"`
}

type estimateResponse struct {
	EstimatedGas      uint64 `json:"estimatedGas"`
	VthoPerGasAtSpeed string `json:"vthoPerGasAtSpeed"`
	Rate              string `json:"rate"`
	TransactionCost   string `json:"transactionCost"`
	ServiceFee        string `json:"serviceFee"`
	DepositAccount    string `json:"depositAccount"`
}

// estimate calls the delegator once per token, retrying transient failures
// a bounded number of times with doubling backoff. Cancellation is never
// retried.
func (c *delegatorClient) estimate(ctx context.Context, clauses []thor.Clause, token GasToken, speed Speed) (*TokenEstimate, error) {
	payload, err := json.Marshal(estimateRequest{
		Clauses: encodeClauses(clauses),
		Token:   token.String(),
		Speed:   string(speed),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal estimate request")
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 1; attempt <= maxEstimateAttempts; attempt++ {
		estimate, err := c.estimateOnce(ctx, payload, token)
		if err == nil {
			return estimate, nil
		}

		// Cancellation and non-transient refusals end the attempt loop
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, errTokenUnavailable) {
			return nil, err
		}
		var authErr *types.AuthError
		if errors.As(err, &authErr) && authErr.Category == types.CategoryProviderError {
			return nil, err
		}

		lastErr = err

		if attempt < maxEstimateAttempts {
			log.Debug().Str("token", token.String()).Int("attempt", attempt).Err(err).Msg("Retrying fee estimate")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return nil, types.NewNetworkError("estimate_network", lastErr)
}

func (c *delegatorClient) estimateOnce(ctx context.Context, payload []byte, token GasToken) (*TokenEstimate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/estimate", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build estimate request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "estimate request failed")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		// fall through to decoding
	case res.StatusCode == http.StatusUnprocessableEntity:
		// The delegator refuses this token; that is availability, not failure
		return nil, errors.Wrapf(errTokenUnavailable, "delegator returned status %d", res.StatusCode)
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		// Any other 4xx means the delegator rejected the request itself
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, types.NewProviderError("estimate_rejected",
			errors.Errorf("delegator returned status %d: %s", res.StatusCode, strings.TrimSpace(string(raw))))
	default:
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, errors.Errorf("delegator returned status %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed estimateResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, types.NewProviderError("estimate_malformed", errors.Wrap(err, "failed to decode estimate response"))
	}

	cost, ok := new(big.Int).SetString(parsed.TransactionCost, 10)
	if !ok {
		return nil, types.NewProviderError("estimate_malformed", errors.Errorf("invalid transaction cost %q", parsed.TransactionCost))
	}

	serviceFee := big.NewInt(0)
	if parsed.ServiceFee != "" {
		serviceFee, ok = new(big.Int).SetString(parsed.ServiceFee, 10)
		if !ok {
			return nil, types.NewProviderError("estimate_malformed", errors.Errorf("invalid service fee %q", parsed.ServiceFee))
		}
	}

	return &TokenEstimate{
		Token:             token,
		Available:         true,
		EstimatedGas:      parsed.EstimatedGas,
		TransactionCost:   cost,
		ServiceFee:        serviceFee,
		ServiceFeeApplies: serviceFee.Sign() > 0,
		DepositAccount:    parsed.DepositAccount,
	}, nil
}

// encodeClauses renders clauses in the delegator wire form
func encodeClauses(clauses []thor.Clause) []signer.AuthorizedClause {
	encoded := make([]signer.AuthorizedClause, 0, len(clauses))
	for _, clause := range clauses {
		wire := signer.AuthorizedClause{
			Value: "0x0",
			Data:  "0x",
		}
		if clause.To != nil {
			wire.To = clause.To.Hex()
		}
		if clause.Value != nil {
			wire.Value = hexutil.EncodeBig(clause.Value)
		}
		if len(clause.Data) > 0 {
			wire.Data = hexutil.Encode(clause.Data)
		}
		encoded = append(encoded, wire)
	}

	return encoded
}
