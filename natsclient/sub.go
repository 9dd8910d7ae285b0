package natsclient

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/bartossh/xtransfer/logger"
	"github.com/bartossh/xtransfer/transfer"
)

// Subscriber provides functionality to pull messages from the pub/sub queue.
type Subscriber struct {
	*socket
}

// SubscriberConnect connects subscriber to the pub/sub queue using provided config
func SubscriberConnect(cfg Config) (*Subscriber, error) {
	s, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Subscriber{socket: s}, nil
}

// SubscribeTransfers calls call for every posted transfer. Malformed messages are logged and skipped.
func (s *Subscriber) SubscribeTransfers(call func(p transfer.Posted), log logger.Logger) error {
	_, err := s.conn.Subscribe(PubSubTransferPosted, func(m *nats.Msg) {
		posted, err := decodePosted(m.Data)
		if err != nil {
			log.Error(fmt.Sprintf("nats subscriber: %s", err))
			return
		}
		call(posted)
	})
	return err
}
