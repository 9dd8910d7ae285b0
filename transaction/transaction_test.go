package transaction

import (
	"bytes"
	"testing"
	"time"

	"github.com/bartossh/xtransfer/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() Transaction {
	return Transaction{
		TxInputs: []TxInput{
			{RefTxid: []byte("ref"), RefOffset: 1, FromAddr: []byte("from"), Amount: []byte{0x07, 0xd0}},
		},
		TxOutputs: []TxOutput{
			{ToAddr: []byte("to"), Amount: []byte{0x05, 0x79}},
			{ToAddr: []byte(FeeAddress), Amount: []byte{0x01}},
		},
		Desc:      []byte("desc"),
		Nonce:     "nonce",
		Timestamp: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano(),
		Version:   TxVersion,
		ContractRequests: []InvokeRequest{
			{ModuleName: "wasm", ContractName: "c", MethodName: "m", Args: map[string][]byte{"b": []byte("2"), "a": []byte("1")}},
		},
		Initiator:   "from",
		AuthRequire: []string{"endorser"},
	}
}

func signInitiator(t *testing.T, trx *Transaction, w *wallet.Wallet) SignatureInfo {
	digest, err := MakeTxDigestHash(trx)
	require.Nil(t, err)
	sig, err := w.Sign(digest)
	require.Nil(t, err)
	pub, err := w.PublicKey()
	require.Nil(t, err)
	return SignatureInfo{PublicKey: pub, Sign: sig}
}

func TestDigestIgnoresSignatures(t *testing.T) {
	trx := newTestTransaction()
	before, err := MakeTxDigestHash(&trx)
	assert.Nil(t, err)

	trx.InitiatorSigns = append(trx.InitiatorSigns, SignatureInfo{PublicKey: []byte("pk"), Sign: []byte("s")})
	trx.AuthRequireSigns = append(trx.AuthRequireSigns, SignatureInfo{PublicKey: []byte("pk2"), Sign: []byte("s2")})
	trx.Txid = []byte("whatever")

	after, err := MakeTxDigestHash(&trx)
	assert.Nil(t, err)
	assert.Equal(t, before, after)
}

func TestIdentifierTracksSignatures(t *testing.T) {
	trx := newTestTransaction()
	trx.InitiatorSigns = []SignatureInfo{{PublicKey: []byte("pk"), Sign: []byte("s")}}
	id0, err := MakeTransactionID(&trx)
	assert.Nil(t, err)

	same, err := MakeTransactionID(&trx)
	assert.Nil(t, err)
	assert.Equal(t, id0, same)

	trx.AuthRequireSigns = append(trx.AuthRequireSigns, SignatureInfo{PublicKey: []byte("endorser"), Sign: []byte("e")})
	id1, err := MakeTransactionID(&trx)
	assert.Nil(t, err)
	assert.NotEqual(t, id0, id1)

	// moving a signature between lists is a different transaction
	moved := newTestTransaction()
	moved.InitiatorSigns = []SignatureInfo{{PublicKey: []byte("pk"), Sign: []byte("s")}, {PublicKey: []byte("endorser"), Sign: []byte("e")}}
	id2, err := MakeTransactionID(&moved)
	assert.Nil(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestDigestIsDeterministicForArgsOrder(t *testing.T) {
	a := newTestTransaction()
	b := newTestTransaction()
	b.ContractRequests[0].Args = map[string][]byte{"a": []byte("1"), "b": []byte("2")}

	da, err := MakeTxDigestHash(&a)
	assert.Nil(t, err)
	db, err := MakeTxDigestHash(&b)
	assert.Nil(t, err)
	assert.Equal(t, da, db)
}

func TestDigestSensitiveToContent(t *testing.T) {
	a := newTestTransaction()
	b := newTestTransaction()
	b.TxOutputs[0].Amount = []byte{0x05, 0x7a}

	da, err := MakeTxDigestHash(&a)
	assert.Nil(t, err)
	db, err := MakeTxDigestHash(&b)
	assert.Nil(t, err)
	assert.False(t, bytes.Equal(da, db))
}

func TestVerifySignaturesSuccess(t *testing.T) {
	issuer, err := wallet.New()
	assert.Nil(t, err)
	endorser, err := wallet.New()
	assert.Nil(t, err)

	trx := newTestTransaction()
	trx.InitiatorSigns = []SignatureInfo{signInitiator(t, &trx, &issuer)}
	trx.AuthRequireSigns = []SignatureInfo{signInitiator(t, &trx, &endorser)}
	assert.Nil(t, trx.SetTxid())

	assert.Nil(t, trx.VerifySignatures(wallet.Helper{}))
}

func TestVerifySignaturesFail(t *testing.T) {
	issuer, err := wallet.New()
	assert.Nil(t, err)

	trx := newTestTransaction()
	trx.InitiatorSigns = []SignatureInfo{signInitiator(t, &trx, &issuer)}
	assert.Nil(t, trx.SetTxid())

	stale := trx
	stale.AuthRequireSigns = []SignatureInfo{signInitiator(t, &trx, &issuer)}
	assert.ErrorIs(t, stale.VerifySignatures(wallet.Helper{}), ErrSignatureNotValidOrDataCorrupted)

	tampered := trx
	tampered.Nonce = "other"
	assert.ErrorIs(t, tampered.VerifySignatures(wallet.Helper{}), ErrSignatureNotValidOrDataCorrupted)

	unsigned := newTestTransaction()
	assert.ErrorIs(t, unsigned.VerifySignatures(wallet.Helper{}), ErrMissingSignature)
}

func TestOutputsTo(t *testing.T) {
	trx := newTestTransaction()
	trx.TxOutputs = append(trx.TxOutputs, TxOutput{ToAddr: []byte("to"), Amount: []byte{1}})
	assert.Equal(t, []int{0, 2}, trx.OutputsTo("to"))
	assert.Empty(t, trx.OutputsTo("nobody"))
}

func TestEncodeDecode(t *testing.T) {
	trx := newTestTransaction()
	assert.Nil(t, trx.SetTxid())

	buf, err := trx.Encode()
	assert.Nil(t, err)

	decoded, err := Decode(buf)
	assert.Nil(t, err)

	id, err := MakeTransactionID(&decoded)
	assert.Nil(t, err)
	assert.Equal(t, trx.Txid, id)
}

func TestNilTransaction(t *testing.T) {
	_, err := MakeTxDigestHash(nil)
	assert.ErrorIs(t, err, ErrNilTransaction)
	_, err = MakeTransactionID(nil)
	assert.ErrorIs(t, err, ErrNilTransaction)
}
