// Package rpc is a thin HTTP client over a Tezos node's RPC surface: reading
// the chain head, reading an account's counter, preapplying an operation
// group, and injecting a signed one. It holds no protocol logic of its own
// -- forging, signing, and fee calculation all live in the parent
// tezosprotocol package; this package only knows how to talk JSON over HTTP.
package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/tzforge/tezosprotocol"
)

// DefaultTimeout is the per-request deadline applied when Config.Timeout is
// left unset.
const DefaultTimeout = 30 * time.Second

// Config configures a Client. BaseURL is the only required field.
type Config struct {
	// BaseURL is the node's RPC endpoint, e.g. "https://mainnet.tezos.example.com".
	BaseURL string
	// HTTPClient is reused across all requests, including its connection
	// pool. A zero-value *http.Client is constructed if left nil.
	HTTPClient *http.Client
	// Timeout bounds each individual request (not the Client's lifetime).
	// Defaults to DefaultTimeout.
	Timeout time.Duration
	// Logger receives structured request/response logging. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Client is a connection to a single Tezos node. It holds no mutable state
// beyond the underlying *http.Client's connection pool, so a *Client is safe
// for concurrent use -- except that concurrent callers of
// GetNextCounterForAccount followed by an injection race, per the package's
// documented ordering guarantees: counter allocation is the caller's
// responsibility to serialize.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// New constructs a Client. Call Shutdown when done with it to release the
// underlying connection pool.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, xerrors.New("rpc: Config.BaseURL is required")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// Shutdown releases the Client's idle connections. It does not cancel
// in-flight requests; callers should cancel their own contexts for that.
func (c *Client) Shutdown() {
	c.httpClient.CloseIdleConnections()
}

// BlockHeader is the subset of a block's header fields this package cares
// about.
type BlockHeader struct {
	Level       int64  `json:"level"`
	Predecessor string `json:"predecessor"`
	Timestamp   string `json:"timestamp"`
}

// Block is the subset of a node's block response this package cares about.
type Block struct {
	Protocol string      `json:"protocol"`
	ChainID  string      `json:"chain_id"`
	Hash     string      `json:"hash"`
	Header   BlockHeader `json:"header"`
}

// GetHead fetches the current chain head.
func (c *Client) GetHead(ctx context.Context) (*Block, error) {
	return c.GetBlock(ctx, "head")
}

// GetBlock fetches a block by its ref (e.g. "head", "head~2", a block hash,
// or a level).
func (c *Client) GetBlock(ctx context.Context, ref string) (*Block, error) {
	var block Block
	path := fmt.Sprintf("/chains/main/blocks/%s", ref)
	if err := c.do(ctx, http.MethodGet, path, nil, &block); err != nil {
		return nil, xerrors.Errorf("failed to get block %s: %w", ref, err)
	}
	return &block, nil
}

// GetCounter fetches an implicit account's current counter.
func (c *Client) GetCounter(ctx context.Context, pkh string) (*big.Int, error) {
	var raw string
	path := fmt.Sprintf("/chains/main/blocks/head/context/contracts/%s/counter", pkh)
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, xerrors.Errorf("failed to get counter for %s: %w", pkh, err)
	}
	counter, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, xerrors.Errorf("node returned non-numeric counter %q for %s", raw, pkh)
	}
	return counter, nil
}

// GetNextCounterForAccount reads pkh's current counter and returns it plus
// one, the value the caller should use for its next operation. Callers
// submitting multiple operations concurrently from the same account must
// serialize their own counter allocation; this method does not reserve
// anything on the node.
func (c *Client) GetNextCounterForAccount(ctx context.Context, pkh string) (*big.Int, error) {
	counter, err := c.GetCounter(ctx, pkh)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(counter, big.NewInt(1)), nil
}

// PreapplyOperationRequest is the JSON body for one entry of a preapply
// request: an unsigned operation group's branch and contents, plus its
// signature. Contents is left as raw JSON since constructing a node's JSON
// operation-content representation (as opposed to its binary forge) is
// outside this package's scope -- callers building one from a
// tezosprotocol.Operation own that JSON shape themselves.
type PreapplyOperationRequest struct {
	Branch    string            `json:"branch"`
	Contents  []json.RawMessage `json:"contents"`
	Signature string            `json:"signature"`
}

// PreapplyOperations preapplies one or more operation groups, returning one
// tezosprotocol.PreapplyResult per request in the same order. The returned
// results feed directly into tezosprotocol.CalculateFee.
func (c *Client) PreapplyOperations(ctx context.Context, requests []PreapplyOperationRequest) ([]tezosprotocol.PreapplyResult, error) {
	var results []tezosprotocol.PreapplyResult
	if err := c.do(ctx, http.MethodPost, "/chains/main/blocks/head/helpers/preapply/operations", requests, &results); err != nil {
		return nil, xerrors.Errorf("failed to preapply operations: %w", err)
	}
	return results, nil
}

// InjectOperation submits a signed operation for inclusion in a block. The
// request body is the lowercase hex encoding of forgedBytes followed
// immediately by the lowercase hex encoding of signature (raw bytes, not
// base58check), per spec. Returns the resulting operation hash. Injection
// is not idempotent -- callers must not retry a successfully-submitted
// injection without first checking whether it was already included.
func (c *Client) InjectOperation(ctx context.Context, forgedBytes []byte, signature []byte) (string, error) {
	body := hex.EncodeToString(forgedBytes) + hex.EncodeToString(signature)
	var opHash string
	if err := c.do(ctx, http.MethodPost, "/injection/operation", body, &opHash); err != nil {
		return "", xerrors.Errorf("failed to inject operation: %w", err)
	}
	c.logger.Info("injected operation", zap.String("hash", opHash))
	return opHash, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return xerrors.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return xerrors.Errorf("failed to build request for %s: %w", url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("rpc request", zap.String("method", method), zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return xerrors.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return xerrors.Errorf("failed to read response body from %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("rpc request failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return xerrors.Errorf("%s returned status %d: %s", url, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return xerrors.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
