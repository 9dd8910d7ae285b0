package wallet

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateWallet(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)
	assert.NotNil(t, w.Private)
	assert.NotNil(t, w.Public)
}

func TestGobEncodingDecoding(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)

	b, err := w.EncodeGOB()
	assert.Nil(t, err)
	assert.NotNil(t, b)

	nw, err := DecodeGOBWallet(b)
	assert.Nil(t, err)
	assert.Equal(t, nw.Private, w.Private)
	assert.Equal(t, nw.Public, w.Public)
}

func TestPemSaveRead(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	err = w.SaveToPem(path)
	assert.Nil(t, err)

	nw, err := ReadFromPem(path)
	assert.Nil(t, err)
	assert.Equal(t, w.Address(), nw.Address())
	assert.Equal(t, w.Private, nw.Private)
}

func TestSignVerifySuccess(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)

	digest := sha256.Sum256([]byte("This is test message."))

	sig, err := w.Sign(digest[:])
	assert.Nil(t, err)
	assert.NotEmpty(t, sig)

	pub, err := w.PublicKey()
	assert.Nil(t, err)

	err = Helper{}.Verify(pub, digest[:], sig)
	assert.Nil(t, err)
}

func TestSignVerifyFail(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)
	nw, err := New()
	assert.Nil(t, err)

	digest := sha256.Sum256([]byte("This is test message."))
	sig, err := nw.Sign(digest[:])
	assert.Nil(t, err)

	pub, err := w.PublicKey()
	assert.Nil(t, err)

	err = Helper{}.Verify(pub, digest[:], sig)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignWithEmptyWalletFails(t *testing.T) {
	var w Wallet
	_, err := w.Sign([]byte("digest"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = w.PublicKey()
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestAccountContract(t *testing.T) {
	w, err := New()
	assert.Nil(t, err)

	plain := NewAccount(w, "", "")
	assert.Empty(t, plain.ContractName())
	assert.Equal(t, w.Address(), plain.Address())

	contract := NewAccount(w, "compliance", "XC1111111111000000@xuper")
	assert.Equal(t, "compliance", contract.ContractName())
	assert.Equal(t, "XC1111111111000000@xuper", contract.ContractAccount())
}

func TestNewNonceUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		n := NewNonce()
		_, ok := seen[n]
		assert.False(t, ok)
		seen[n] = struct{}{}
	}
}

func BenchmarkSign(b *testing.B) {
	w, err := New()
	assert.Nil(b, err)

	digest := sha256.Sum256(generateRandom(1000000))

	for n := 0; n < b.N; n++ {
		_, _ = w.Sign(digest[:])
	}
}
