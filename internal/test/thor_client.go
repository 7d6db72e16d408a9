package test

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/walletkit/internal/thor"
)

// ThorClient is a configurable fake of thor.Client for package tests.
// Unset hooks fail loudly so tests only exercise the calls they stub.
type ThorClient struct {
	ReadContractFunc       func(ctx context.Context, address common.Address, abiJSON string, method string, args ...interface{}) ([]interface{}, error)
	GetAccountFunc         func(ctx context.Context, address common.Address) (*thor.Account, error)
	EstimateGasFunc        func(ctx context.Context, clauses []thor.Clause, caller common.Address) (uint64, error)
	SendRawTransactionFunc func(ctx context.Context, raw []byte) (string, error)
	WaitForReceiptFunc     func(ctx context.Context, txID string) (*thor.Receipt, error)
	GetGenesisBlockFunc    func(ctx context.Context) (*thor.Block, error)
	GetBestBlockRefFunc    func(ctx context.Context) (string, error)
}

func (c *ThorClient) ReadContract(ctx context.Context, address common.Address, abiJSON string, method string, args ...interface{}) ([]interface{}, error) {
	if c.ReadContractFunc == nil {
		return nil, errors.New("ReadContract not stubbed")
	}
	return c.ReadContractFunc(ctx, address, abiJSON, method, args...)
}

func (c *ThorClient) GetAccount(ctx context.Context, address common.Address) (*thor.Account, error) {
	if c.GetAccountFunc == nil {
		return nil, errors.New("GetAccount not stubbed")
	}
	return c.GetAccountFunc(ctx, address)
}

func (c *ThorClient) EstimateGas(ctx context.Context, clauses []thor.Clause, caller common.Address) (uint64, error) {
	if c.EstimateGasFunc == nil {
		return 0, errors.New("EstimateGas not stubbed")
	}
	return c.EstimateGasFunc(ctx, clauses, caller)
}

func (c *ThorClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	if c.SendRawTransactionFunc == nil {
		return "", errors.New("SendRawTransaction not stubbed")
	}
	return c.SendRawTransactionFunc(ctx, raw)
}

func (c *ThorClient) WaitForReceipt(ctx context.Context, txID string) (*thor.Receipt, error) {
	if c.WaitForReceiptFunc == nil {
		return nil, errors.New("WaitForReceipt not stubbed")
	}
	return c.WaitForReceiptFunc(ctx, txID)
}

func (c *ThorClient) GetGenesisBlock(ctx context.Context) (*thor.Block, error) {
	if c.GetGenesisBlockFunc == nil {
		return nil, errors.New("GetGenesisBlock not stubbed")
	}
	return c.GetGenesisBlockFunc(ctx)
}

func (c *ThorClient) GetBestBlockRef(ctx context.Context) (string, error) {
	if c.GetBestBlockRefFunc == nil {
		return "", errors.New("GetBestBlockRef not stubbed")
	}
	return c.GetBestBlockRefFunc(ctx)
}
