package serializer

import (
	"encoding/hex"
	"errors"

	"github.com/mr-tron/base58"
)

var ErrInvalidTxid = errors.New("invalid transaction id")

// Base58Encode encodes byte array to base58 string.
func Base58Encode(input []byte) []byte {
	return []byte(base58.Encode(input))
}

// Base58Decode decodes base58 string to byte array.
func Base58Decode(input []byte) ([]byte, error) {
	return base58.Decode(string(input))
}

// TxidToHex returns hex representation of the transaction identifier.
func TxidToHex(txid []byte) string {
	return hex.EncodeToString(txid)
}

// HexToTxid decodes hex transaction identifier.
func HexToTxid(s string) ([]byte, error) {
	txid, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidTxid, err)
	}
	if len(txid) == 0 {
		return nil, ErrInvalidTxid
	}
	return txid, nil
}
