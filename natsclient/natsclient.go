package natsclient

import (
	"errors"
	"net/url"

	"github.com/nats-io/nats.go"
)

const (
	PubSubTransferPosted string = "transfer_posted"
)

var ErrInvalidAddress = errors.New("invalid nats server address")

// Config contains all arguments required to connect to the nats service.
type Config struct {
	Address string `yaml:"server_address"`
	Name    string `yaml:"client_name"`
	Token   string `yaml:"token"`
}

type socket struct {
	conn *nats.Conn
}

func connect(cfg Config) (*socket, error) {
	u, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, errors.Join(ErrInvalidAddress, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidAddress
	}
	opts := []nats.Option{nats.Name(cfg.Name)}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	var s socket
	s.conn, err = nats.Connect(cfg.Address, opts...)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Disconnect drains the message queue and disconnects from the pub/sub.
// Nats Drain will put a connection into a drain state.
// All subscriptions will immediately be put into a drain state.
// Upon completion, the publishers will be drained and can not publish any additional messages.
func (s *socket) Disconnect() error {
	return s.conn.Drain()
}
