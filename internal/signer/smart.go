package signer

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/metrics"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/util"
)

// authorizationExpiration is how many blocks an authorization stays valid
const authorizationExpiration = 180

// smartSigner signs an authorization structure with the owner key and
// relays it through the embedded wallet service, which executes the smart
// account's execute-with-authorization entry point. The owner never signs
// the raw transaction.
type smartSigner struct {
	provider provider.Provider
	relayer  Relayer
	client   thor.Client
	account  common.Address
	chainID  string
	metrics  *metrics.Metrics
}

// Address returns the smart-account address transactions act for
func (s *smartSigner) Address() common.Address {
	return s.account
}

// SignAndSend signs an authorization over the clause batch and relays it
func (s *smartSigner) SignAndSend(ctx context.Context, clauses []thor.Clause) (string, error) {
	log := util.LogFromContext(ctx)

	if len(clauses) == 0 {
		return "", errors.New("at least one clause is required")
	}

	blockRef, err := s.client.GetBestBlockRef(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get block ref")
	}

	authorization := Authorization{
		Account:    s.account.Hex(),
		GenesisID:  s.chainID,
		BlockRef:   blockRef,
		Expiration: authorizationExpiration,
		Nonce:      uuid.NewString(),
		Clauses:    encodeClauses(clauses),
	}

	unsigned, err := json.Marshal(authorization)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal authorization")
	}

	signature, err := s.provider.SignMessage(ctx, unsigned)
	if err != nil {
		return "", errors.Wrap(err, "owner refused to sign authorization")
	}

	authorization.Signature = hexutil.Encode(signature)

	signed, err := json.Marshal(authorization)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal signed authorization")
	}

	txID, err := s.relayer.RelayAuthorization(ctx, signed)
	if err != nil {
		return "", errors.Wrap(err, "failed to relay authorization")
	}

	s.metrics.RelayedTxs.Inc()
	log.Debug().Str("account", s.account.Hex()).Str("txId", txID).Msg("Relayed smart account transaction")

	return txID, nil
}
