package zincadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bartossh/xtransfer/httpclient"
)

const (
	healthz              = "/healthz"
	createDocumentWithId = "/api/%s/_doc"
)

const timeout = time.Second * 5

var (
	ErrZincServerNotResponding = errors.New("zinc server not responding on given address")
	ErrZincServerWriteFailed   = errors.New("zinc server write failed")
)

// Config contains configuration for logger back-end
type Config struct {
	Address string `yaml:"address"` // logger back-end server address
	Index   string `yaml:"index"`   // unique index per service to easy search for logs by the service
}

type message struct {
	Message string `json:"message"`
}

// ZincClient provides a client that sends logs to the zincsearch backend
type ZincClient struct {
	address   string
	indexName string
}

// New creates a new ZincClient.
func New(ctx context.Context, cfg Config) (*ZincClient, error) {
	address := strings.TrimRight(cfg.Address, "/")
	if err := httpclient.MakeGet(ctx, timeout, address+healthz, nil); err != nil {
		return nil, errors.Join(ErrZincServerNotResponding, err)
	}
	return &ZincClient{address: address, indexName: cfg.Index}, nil
}

// Write satisfies io.Writer abstraction.
// JSON log lines are indexed as documents, other lines are wrapped in a message document.
func (z *ZincClient) Write(p []byte) (n int, err error) {
	var doc any = message{Message: string(p)}
	if json.Valid(p) {
		doc = json.RawMessage(p)
	}
	url := z.address + fmt.Sprintf(createDocumentWithId, z.indexName)
	if err := httpclient.MakePost(context.Background(), timeout, url, doc, nil); err != nil {
		return 0, errors.Join(ErrZincServerWriteFailed, err)
	}
	return len(p), nil
}
