package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bartossh/xtransfer/httpclient"
	"github.com/bartossh/xtransfer/transaction"
)

const (
	EndorserCallURL = "/v1/endorsercall" // URL of the endorsement service envelope call.
	PostTxURL       = "/v1/post_tx"      // URL posting finalized transaction to the ledger node.
	QueryTxURL      = "/v1/query_tx"     // URL querying transaction status from the ledger node.
)

const defaultTimeout = time.Second * 5

var (
	ErrInvalidURL    = errors.New("invalid gateway url")
	ErrEmptyResponse = errors.New("unexpected empty response")
)

// Config contains addresses of the ledger node and the endorsement service.
type Config struct {
	NodeURL        string `yaml:"node_url"`
	EndorserURL    string `yaml:"endorser_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Client reaches the ledger node and the endorsement service over HTTP.
// It performs no retries, the first failure is returned to the caller.
type Client struct {
	nodeURL     string
	endorserURL string
	timeout     time.Duration
}

// New creates a new gateway Client validating configured URLs.
func New(cfg Config) (*Client, error) {
	for _, u := range []string{cfg.NodeURL, cfg.EndorserURL} {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, errors.Join(ErrInvalidURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, errors.Join(ErrInvalidURL, fmt.Errorf("url %q requires scheme and host", u))
		}
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		nodeURL:     strings.TrimRight(cfg.NodeURL, "/"),
		endorserURL: strings.TrimRight(cfg.EndorserURL, "/"),
		timeout:     timeout,
	}, nil
}

// EndorserCall sends the envelope to the endorsement service and returns its response.
func (c *Client) EndorserCall(ctx context.Context, req *transaction.EndorserRequest) (*transaction.EndorserResponse, error) {
	var resp transaction.EndorserResponse
	if err := httpclient.MakePost(ctx, c.timeout, c.endorserURL+EndorserCallURL, req, &resp); err != nil {
		return nil, fmt.Errorf("endorser call %s failed: %w", req.RequestName, err)
	}
	return &resp, nil
}

// PostTx broadcasts the transaction to the ledger node.
func (c *Client) PostTx(ctx context.Context, status *transaction.TxStatus) error {
	if err := httpclient.MakePost(ctx, c.timeout, c.nodeURL+PostTxURL, status, nil); err != nil {
		return fmt.Errorf("post tx failed: %w", err)
	}
	return nil
}

// QueryTx reads the transaction status from the ledger node.
func (c *Client) QueryTx(ctx context.Context, bcname string, txid []byte) (*transaction.TxStatus, error) {
	var resp transaction.TxStatus
	req := transaction.TxStatus{Bcname: bcname, Txid: txid}
	if err := httpclient.MakePost(ctx, c.timeout, c.nodeURL+QueryTxURL, req, &resp); err != nil {
		return nil, fmt.Errorf("query tx failed: %w", err)
	}
	if resp.Tx == nil && len(resp.Txid) == 0 {
		return nil, ErrEmptyResponse
	}
	return &resp, nil
}
