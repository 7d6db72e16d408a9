package thor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// blockRefLength is the hex length of an 8-byte block ref with 0x prefix
	blockRefLength = 18

	defaultBlockInterval  = 10 * time.Second
	defaultReceiptTimeout = 60 * time.Second
	defaultHTTPTimeout    = 15 * time.Second
)

// client talks to one or more Thor node REST endpoints with failover.
// All URLs must point at nodes of the same network.
type client struct {
	urls    []string
	http    *http.Client
	mu      sync.RWMutex
	current int

	blockInterval  time.Duration
	receiptTimeout time.Duration

	abiMu    sync.Mutex
	abiCache map[string]*parsedABI
}

// Options tune the polling behavior of the client
type Options struct {
	// BlockInterval is the expected block production cadence used as the
	// receipt polling tick. Defaults to 10s (Thor mainnet).
	BlockInterval time.Duration

	// ReceiptTimeout bounds the total wait in WaitForReceipt. Defaults to 60s.
	ReceiptTimeout time.Duration
}

// NewClient creates a Thor REST client over the given node URLs
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewClient(urls []string, opts Options) (Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one node URL is required")
	}

	trimmed := make([]string, 0, len(urls))
	for _, u := range urls {
		trimmed = append(trimmed, strings.TrimRight(u, "/"))
	}

	if opts.BlockInterval <= 0 {
		opts.BlockInterval = defaultBlockInterval
	}
	if opts.ReceiptTimeout <= 0 {
		opts.ReceiptTimeout = defaultReceiptTimeout
	}

	return &client{
		urls:           trimmed,
		http:           &http.Client{Timeout: defaultHTTPTimeout},
		blockInterval:  opts.BlockInterval,
		receiptTimeout: opts.ReceiptTimeout,
		abiCache:       make(map[string]*parsedABI),
	}, nil
}

// baseURL returns the currently preferred node URL
func (c *client) baseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.urls[c.current]
}

// failover rotates to the next node URL after a request failure
func (c *client) failover() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.urls) < 2 {
		return
	}

	c.current = (c.current + 1) % len(c.urls)
	log.Warn().Str("url", c.urls[c.current]).Msg("Switching to next Thor node")
}

// doJSON performs one HTTP round trip, decoding the response into out.
// On transport failure it rotates the node URL once and retries.
func (c *client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt < len(c.urls); attempt++ {
		err := c.doJSONOnce(ctx, method, c.baseURL()+path, body, out)
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.failover()
	}

	return lastErr
}

func (c *client) doJSONOnce(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Errorf("node returned status %d: %s", res.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

type accountResponse struct {
	Balance string `json:"balance"`
	Energy  string `json:"energy"`
	HasCode bool   `json:"hasCode"`
}

// GetAccount returns the on-chain state of an address
func (c *client) GetAccount(ctx context.Context, address common.Address) (*Account, error) {
	var res accountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/accounts/"+strings.ToLower(address.Hex()), nil, &res); err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	balance, err := hexutil.DecodeBig(res.Balance)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse balance")
	}

	energy, err := hexutil.DecodeBig(res.Energy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse energy")
	}

	return &Account{
		Balance: balance,
		Energy:  energy,
		HasCode: res.HasCode,
	}, nil
}

type inspectClause struct {
	To    *string `json:"to"`
	Value string  `json:"value"`
	Data  string  `json:"data"`
}

type inspectRequest struct {
	Clauses []inspectClause `json:"clauses"`
	Caller  string          `json:"caller,omitempty"`
}

type inspectResult struct {
	Data     string `json:"data"`
	GasUsed  uint64 `json:"gasUsed"`
	Reverted bool   `json:"reverted"`
	VMError  string `json:"vmError"`
}

// inspect executes clauses against the best block without a transaction
func (c *client) inspect(ctx context.Context, clauses []Clause, caller string) ([]inspectResult, error) {
	req := inspectRequest{
		Clauses: make([]inspectClause, 0, len(clauses)),
		Caller:  caller,
	}

	for _, clause := range clauses {
		wire := inspectClause{
			Value: "0x0",
			Data:  "0x",
		}
		if clause.To != nil {
			to := strings.ToLower(clause.To.Hex())
			wire.To = &to
		}
		if clause.Value != nil {
			wire.Value = hexutil.EncodeBig(clause.Value)
		}
		if len(clause.Data) > 0 {
			wire.Data = hexutil.Encode(clause.Data)
		}
		req.Clauses = append(req.Clauses, wire)
	}

	var results []inspectResult
	if err := c.doJSON(ctx, http.MethodPost, "/accounts/*", req, &results); err != nil {
		return nil, errors.Wrap(err, "failed to inspect clauses")
	}

	if len(results) != len(clauses) {
		return nil, errors.Errorf("node returned %d results for %d clauses", len(results), len(clauses))
	}

	return results, nil
}

// ReadContract executes a read-only contract call and unpacks the outputs
func (c *client) ReadContract(ctx context.Context, address common.Address, abiJSON string, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := c.parseABI(abiJSON)
	if err != nil {
		return nil, err
	}

	data, err := parsed.pack(method, args...)
	if err != nil {
		return nil, err
	}

	results, err := c.inspect(ctx, []Clause{{To: &address, Data: data}}, "")
	if err != nil {
		return nil, err
	}

	result := results[0]
	if result.Reverted {
		if result.VMError != "" {
			return nil, errors.Wrapf(ErrReverted, "%s: %s", method, result.VMError)
		}
		return nil, errors.Wrapf(ErrReverted, "%s", method)
	}

	raw, err := hexutil.Decode(result.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode call output")
	}

	return parsed.unpack(method, raw)
}

// EstimateGas estimates the gas needed to execute the clauses from caller.
// Execution gas comes from clause inspection, intrinsic gas is computed
// locally per the Thor transaction rules.
func (c *client) EstimateGas(ctx context.Context, clauses []Clause, caller common.Address) (uint64, error) {
	results, err := c.inspect(ctx, clauses, strings.ToLower(caller.Hex()))
	if err != nil {
		return 0, err
	}

	var execGas uint64
	for i, result := range results {
		if result.Reverted {
			return 0, errors.Wrapf(ErrReverted, "clause %d", i)
		}
		execGas += result.GasUsed
	}

	return execGas + intrinsicGas(clauses), nil
}

// intrinsicGas computes the intrinsic portion of the gas cost
func intrinsicGas(clauses []Clause) uint64 {
	const (
		txGas           = 5000
		clauseGas       = 16000
		clauseGasCreate = 48000
		zeroByteCost    = 4
		nonZeroByteCost = 68
	)

	total := uint64(txGas)
	for _, clause := range clauses {
		if clause.To == nil {
			total += clauseGasCreate
		} else {
			total += clauseGas
		}
		for _, b := range clause.Data {
			if b == 0 {
				total += zeroByteCost
			} else {
				total += nonZeroByteCost
			}
		}
	}

	return total
}

type sendTxRequest struct {
	Raw string `json:"raw"`
}

type sendTxResponse struct {
	ID string `json:"id"`
}

// SendRawTransaction submits a signed raw transaction and returns its id
func (c *client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var res sendTxResponse
	if err := c.doJSON(ctx, http.MethodPost, "/transactions", sendTxRequest{Raw: hexutil.Encode(raw)}, &res); err != nil {
		return "", errors.Wrap(err, "failed to send transaction")
	}

	if res.ID == "" {
		return "", errors.New("node returned empty transaction id")
	}

	return res.ID, nil
}

type receiptResponse struct {
	GasUsed  uint64 `json:"gasUsed"`
	GasPayer string `json:"gasPayer"`
	Reverted bool   `json:"reverted"`
	Meta     struct {
		BlockID     string `json:"blockID"`
		BlockNumber uint64 `json:"blockNumber"`
	} `json:"meta"`
}

// WaitForReceipt polls for the receipt at block cadence until the wait
// window elapses. A node that has not yet seen the transaction answers with
// an empty body, which is not an error, just "not yet".
func (c *client) WaitForReceipt(ctx context.Context, txID string) (*Receipt, error) {
	deadline := time.Now().Add(c.receiptTimeout)
	ticker := time.NewTicker(c.blockInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.getReceipt(ctx, txID)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrTxNotConfirmed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *client) getReceipt(ctx context.Context, txID string) (*Receipt, error) {
	var res *receiptResponse
	if err := c.doJSON(ctx, http.MethodGet, "/transactions/"+txID+"/receipt", nil, &res); err != nil {
		return nil, errors.Wrap(err, "failed to get receipt")
	}

	if res == nil {
		return nil, nil
	}

	return &Receipt{
		TxID:     txID,
		GasUsed:  res.GasUsed,
		GasPayer: res.GasPayer,
		Reverted: res.Reverted,
		BlockID:  res.Meta.BlockID,
		BlockNum: res.Meta.BlockNumber,
	}, nil
}

type blockResponse struct {
	ID        string `json:"id"`
	Number    uint64 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
	ParentID  string `json:"parentID"`
}

// GetGenesisBlock returns the genesis block of the connected network
func (c *client) GetGenesisBlock(ctx context.Context) (*Block, error) {
	return c.getBlock(ctx, "0")
}

func (c *client) getBlock(ctx context.Context, revision string) (*Block, error) {
	var res blockResponse
	if err := c.doJSON(ctx, http.MethodGet, "/blocks/"+revision, nil, &res); err != nil {
		return nil, errors.Wrapf(err, "failed to get block %s", revision)
	}

	return &Block{
		ID:        res.ID,
		Number:    res.Number,
		Timestamp: res.Timestamp,
		ParentID:  res.ParentID,
	}, nil
}

// GetBestBlockRef returns the 8-byte block ref of the best block
func (c *client) GetBestBlockRef(ctx context.Context) (string, error) {
	block, err := c.getBlock(ctx, "best")
	if err != nil {
		return "", err
	}

	if len(block.ID) < blockRefLength {
		return "", errors.Errorf("unexpected block id %q", block.ID)
	}

	return block.ID[:blockRefLength], nil
}