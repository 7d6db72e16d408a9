package types

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/thor"
)

// ClausePayload is the wire form of a transaction clause
type ClausePayload struct {
	To    string `json:"to"`
	Value string `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`
}

// ToClause parses the wire clause. Value accepts hex (0x-prefixed) or
// decimal; empty means zero. An empty To denotes contract deployment.
func (p ClausePayload) ToClause() (thor.Clause, error) {
	var clause thor.Clause

	if p.To != "" {
		if !common.IsHexAddress(p.To) {
			return clause, errors.Errorf("invalid clause recipient %q", p.To)
		}
		to := common.HexToAddress(p.To)
		clause.To = &to
	}

	if p.Value != "" {
		value, err := parseAmount(p.Value)
		if err != nil {
			return clause, err
		}
		clause.Value = value
	}

	if p.Data != "" {
		data, err := hexutil.Decode(p.Data)
		if err != nil {
			return clause, errors.Wrapf(err, "invalid clause data %q", p.Data)
		}
		clause.Data = data
	}

	return clause, nil
}

// ParseClauses converts a wire clause batch, rejecting empty batches
func ParseClauses(payloads []ClausePayload) ([]thor.Clause, error) {
	if len(payloads) == 0 {
		return nil, errors.New("at least one clause is required")
	}

	clauses := make([]thor.Clause, 0, len(payloads))
	for i, payload := range payloads {
		clause, err := payload.ToClause()
		if err != nil {
			return nil, errors.Wrapf(err, "clause %d", i)
		}
		clauses = append(clauses, clause)
	}

	return clauses, nil
}

func parseAmount(raw string) (*big.Int, error) {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		value, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid hex amount %q", raw)
		}
		return value, nil
	}

	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.Errorf("invalid decimal amount %q", raw)
	}

	return value, nil
}
