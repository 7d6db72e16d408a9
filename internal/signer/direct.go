package signer

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/thor"
)

// directSigner passes the clause batch to the external wallet for signing
// and submits whatever it returns. The wallet owns encoding and approval.
type directSigner struct {
	provider provider.Provider
	client   thor.Client
	address  common.Address
}

// Address returns the connected wallet address
func (s *directSigner) Address() common.Address {
	return s.address
}

// SignAndSend passes the clause batch through the wallet session and
// submits the signed transaction
func (s *directSigner) SignAndSend(ctx context.Context, clauses []thor.Clause) (string, error) {
	if len(clauses) == 0 {
		return "", errors.New("at least one clause is required")
	}

	payload, err := json.Marshal(encodeClauses(clauses))
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal clauses")
	}

	raw, err := s.provider.SignMessage(ctx, payload)
	if err != nil {
		return "", errors.Wrap(err, "wallet refused to sign")
	}

	txID, err := s.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return "", errors.Wrap(err, "failed to submit transaction")
	}

	return txID, nil
}

// encodeClauses renders clauses in the wire form wallets expect
func encodeClauses(clauses []thor.Clause) []AuthorizedClause {
	encoded := make([]AuthorizedClause, 0, len(clauses))
	for _, clause := range clauses {
		wire := AuthorizedClause{
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
