package thor

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrReverted is returned by ReadContract when the clause reverted.
	// Callers that treat a revert as a signal (legacy accounts without a
	// version accessor) must test for it with errors.Is.
	ErrReverted = errors.New("contract call reverted")

	// ErrTxNotConfirmed is returned by WaitForReceipt when the transaction
	// was not included within the bounded polling window.
	ErrTxNotConfirmed = errors.New("transaction not confirmed within wait window")
)

// Client is the chain-client collaborator consumed by the wallet-kit core.
// It covers contract reads, account state, gas estimation and raw
// transaction submission against a Thor node.
type Client interface {
	// ReadContract executes a read-only contract call and returns the
	// unpacked outputs. Returns ErrReverted when the call reverts.
	ReadContract(ctx context.Context, address common.Address, abiJSON string, method string, args ...interface{}) ([]interface{}, error)

	// GetAccount returns the on-chain state of an address
	GetAccount(ctx context.Context, address common.Address) (*Account, error)

	// EstimateGas estimates the gas needed to execute the clauses from caller
	EstimateGas(ctx context.Context, clauses []Clause, caller common.Address) (uint64, error)

	// SendRawTransaction submits a signed raw transaction and returns its id
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)

	// WaitForReceipt polls for the transaction receipt at block cadence,
	// bounded by the configured wait window. Returns ErrTxNotConfirmed when
	// the window elapses without inclusion.
	WaitForReceipt(ctx context.Context, txID string) (*Receipt, error)

	// GetGenesisBlock returns the genesis block of the connected network
	GetGenesisBlock(ctx context.Context) (*Block, error)

	// GetBestBlockRef returns the 8-byte block ref of the best block
	GetBestBlockRef(ctx context.Context) (string, error)
}

// Clause is a single call of a Thor transaction
type Clause struct {
	To    *common.Address `json:"to"`
	Value *big.Int        `json:"value"`
	Data  []byte          `json:"data"`
}

// Account is the on-chain state of an address
type Account struct {
	Balance *big.Int
	Energy  *big.Int
	HasCode bool
}

// Block is the subset of a Thor block the kit consumes
type Block struct {
	ID        string
	Number    uint64
	Timestamp uint64
	ParentID  string
}

// Receipt is a Thor transaction receipt
type Receipt struct {
	TxID     string
	GasUsed  uint64
	GasPayer string
	Reverted bool
	BlockID  string
	BlockNum uint64
}
