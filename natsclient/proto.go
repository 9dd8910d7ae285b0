package natsclient

import (
	"errors"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bartossh/xtransfer/transfer"
)

var ErrMalformedMessage = errors.New("malformed posted transfer message")

const (
	fieldChainName = "chain_name"
	fieldTxid      = "txid"
	fieldFrom      = "from"
	fieldTo        = "to"
	fieldAmount    = "amount"
	fieldFee       = "fee"
	fieldDesc      = "desc"
	fieldPostedAt  = "posted_at"
)

func encodePosted(p transfer.Posted) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]any{
		fieldChainName: p.ChainName,
		fieldTxid:      p.Txid,
		fieldFrom:      p.From,
		fieldTo:        p.To,
		fieldAmount:    p.Amount,
		fieldFee:       p.Fee,
		fieldDesc:      p.Desc,
		fieldPostedAt:  p.PostedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

func decodePosted(data []byte) (transfer.Posted, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return transfer.Posted{}, errors.Join(ErrMalformedMessage, err)
	}
	fields := msg.GetFields()
	str := func(key string) string {
		return fields[key].GetStringValue()
	}
	if str(fieldTxid) == "" {
		return transfer.Posted{}, errors.Join(ErrMalformedMessage, errors.New("missing txid"))
	}
	postedAt, err := time.Parse(time.RFC3339Nano, str(fieldPostedAt))
	if err != nil {
		return transfer.Posted{}, errors.Join(ErrMalformedMessage, err)
	}
	return transfer.Posted{
		ChainName: str(fieldChainName),
		Txid:      str(fieldTxid),
		From:      str(fieldFrom),
		To:        str(fieldTo),
		Amount:    str(fieldAmount),
		Fee:       str(fieldFee),
		Desc:      str(fieldDesc),
		PostedAt:  postedAt,
	}, nil
}
