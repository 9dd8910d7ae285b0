package natsclient

import (
	"github.com/bartossh/xtransfer/transfer"
)

// Publisher provides functionality to push messages to the pub/sub queue
type Publisher struct {
	*socket
}

// PublisherConnect connects publisher to the pub/sub queue using provided config
func PublisherConnect(cfg Config) (*Publisher, error) {
	s, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{socket: s}, nil
}

// PublishTransfer publishes the transfer posted to the ledger.
func (p *Publisher) PublishTransfer(posted transfer.Posted) error {
	msg, err := encodePosted(posted)
	if err != nil {
		return err
	}
	return p.conn.Publish(PubSubTransferPosted, msg)
}
