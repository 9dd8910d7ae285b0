package fileoperations

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartossh/xtransfer/aeswrapper"
	"github.com/bartossh/xtransfer/transaction"
	"github.com/bartossh/xtransfer/wallet"
)

func TestSaveReadTransaction(t *testing.T) {
	w, err := wallet.New()
	require.Nil(t, err)
	tx := &transaction.Transaction{
		TxInputs:  []transaction.TxInput{{RefTxid: []byte("prev"), FromAddr: []byte(w.Address()), Amount: []byte{0x07, 0xd0}}},
		TxOutputs: []transaction.TxOutput{{ToAddr: []byte("dpzuVdosQrF2kmzumhVeFQZa1aYcdgFpN"), Amount: []byte{0x05, 0x79}}},
		Nonce:     wallet.NewNonce(),
		Timestamp: 1685620800000000000,
		Version:   transaction.TxVersion,
		Initiator: w.Address(),
	}
	digest, err := transaction.MakeTxDigestHash(tx)
	require.Nil(t, err)
	sig, err := w.Sign(digest)
	require.Nil(t, err)
	tx.InitiatorSigns = []transaction.SignatureInfo{{PublicKey: w.Public, Sign: sig}}
	require.Nil(t, tx.SetTxid())

	h := New(Config{}, aeswrapper.New())
	path := filepath.Join(t.TempDir(), "tx.msgpack")
	require.Nil(t, h.SaveTransaction(path, tx))

	read, err := h.ReadTransaction(path)
	require.Nil(t, err)
	assert.Equal(t, tx.Txid, read.Txid)
	assert.Equal(t, tx.Nonce, read.Nonce)
	assert.Nil(t, read.VerifySignatures(wallet.NewVerifier()))
}

func TestReadTransactionMissingFile(t *testing.T) {
	_, err := New(Config{}, aeswrapper.New()).ReadTransaction(filepath.Join(t.TempDir(), "absent"))
	assert.NotNil(t, err)
}
