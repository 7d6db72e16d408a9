package signer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/walletkit/internal/connection"
	"github.com/vechain/walletkit/internal/provider"
	"github.com/vechain/walletkit/internal/thor"
	"github.com/vechain/walletkit/internal/types"
)

// Signer is the uniform signing capability handed to transaction-sending
// code, regardless of which login method produced the connection.
type Signer interface {
	// Address returns the address transactions act for: the wallet address
	// for direct signers, the smart-account address for smart signers
	Address() common.Address

	// SignAndSend signs the clause batch in the style of the connection and
	// submits it, returning the transaction id
	SignAndSend(ctx context.Context, clauses []thor.Clause) (string, error)
}

// ProviderResolver yields the provider serving a login method. The
// connection manager satisfies it.
type ProviderResolver interface {
	ProviderFor(method types.LoginMethod) provider.Provider
}

// Service adapts the active connection into a Signer
type Service interface {
	// GetSigner returns the signing capability for the connection, or nil
	// (not an error) when conn is nil, since callers are expected to guard
	// on connection state.
	GetSigner(ctx context.Context, conn *connection.Connection) (Signer, error)
}

// Relayer hands a signed authorization to the wallet service that executes
// the smart account's execute-with-authorization entry point. The embedded
// and cross-app providers implement it.
type Relayer interface {
	RelayAuthorization(ctx context.Context, authorization []byte) (string, error)
}

// Authorization is the structure the owner key signs in place of the raw
// transaction for smart-account connections
type Authorization struct {
	Account    string             `json:"account"`
	GenesisID  string             `json:"genesisId"`
	BlockRef   string             `json:"blockRef"`
	Expiration uint32             `json:"expiration"`
	Nonce      string             `json:"nonce"`
	Clauses    []AuthorizedClause `json:"clauses"`
	Signature  string             `json:"signature,omitempty"`
}

// AuthorizedClause is one clause of an authorization
type AuthorizedClause struct {
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}
