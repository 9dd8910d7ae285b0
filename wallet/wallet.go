package wallet

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/gob"
	"encoding/pem"
	"errors"
	"os"

	"github.com/bartossh/xtransfer/serializer"
	"golang.org/x/crypto/ripemd160"
)

const (
	checksumLength = 4
	version        = byte(0x01)
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
)

// Wallet holds public and private key of the wallet owner.
type Wallet struct {
	Private ed25519.PrivateKey `json:"private"`
	Public  ed25519.PublicKey  `json:"public"`
}

// New tries to creates a new Wallet or returns error otherwise.
func New() (Wallet, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{Private: private, Public: public}, nil
}

// SaveToPem saves wallet private and public key to the PEM format file.
// Saved files are like in the example:
// - PRIVATE: "your/path/name"
// - PUBLIC: "your/path/name.pub"
func (w *Wallet) SaveToPem(filepath string) error {
	prv, err := x509.MarshalPKCS8PrivateKey(w.Private)
	if err != nil {
		return err
	}
	pub, err := x509.MarshalPKIXPublicKey(w.Public)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: prv}), 0600); err != nil {
		return err
	}
	return os.WriteFile(filepath+".pub", pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub}), 0644)
}

// ReadFromPem creates Wallet from PEM format file.
// Provide the path to a file without specifying the extension : <your/path/name".
func ReadFromPem(filepath string) (Wallet, error) {
	var w Wallet
	rawPub, err := os.ReadFile(filepath + ".pub")
	if err != nil {
		return w, err
	}
	rawPrv, err := os.ReadFile(filepath)
	if err != nil {
		return w, err
	}

	blockPub, _ := pem.Decode(rawPub)
	if blockPub == nil || blockPub.Type != "PUBLIC KEY" {
		return w, errors.New("cannot decode public key from PEM format")
	}
	pub, err := x509.ParsePKIXPublicKey(blockPub.Bytes)
	if err != nil {
		return w, err
	}
	blockPrv, _ := pem.Decode(rawPrv)
	if blockPrv == nil || blockPrv.Type != "PRIVATE KEY" {
		return w, errors.New("cannot decode private key from PEM format")
	}
	prv, err := x509.ParsePKCS8PrivateKey(blockPrv.Bytes)
	if err != nil {
		return w, err
	}
	var ok bool
	w.Public, ok = pub.(ed25519.PublicKey)
	if !ok {
		return w, errors.Join(ErrInvalidPublicKey, errors.New("x509 key is not ed25519"))
	}
	w.Private, ok = prv.(ed25519.PrivateKey)
	if !ok {
		return w, errors.Join(ErrInvalidPrivateKey, errors.New("x509 key is not ed25519"))
	}
	return w, nil
}

// DecodeGOBWallet tries to decode Wallet from gob representation or returns error otherwise.
func DecodeGOBWallet(data []byte) (Wallet, error) {
	var wallet Wallet
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wallet); err != nil {
		return Wallet{}, err
	}
	return wallet, nil
}

// EncodeGOB tries to encodes Wallet in to the gob representation or returns error otherwise.
func (w *Wallet) EncodeGOB() ([]byte, error) {
	var content bytes.Buffer
	if err := gob.NewEncoder(&content).Encode(w); err != nil {
		return nil, err
	}
	return content.Bytes(), nil
}

// ChecksumLength returns checksum length.
func (w *Wallet) ChecksumLength() int {
	return checksumLength
}

// Version returns wallet version.
func (w *Wallet) Version() byte {
	return version
}

// Address creates address from the public key hash that contains wallet version and checksum.
func (w *Wallet) Address() string {
	return AddressFromPublicKey(w.Public)
}

// PublicKey returns the raw public key.
func (w *Wallet) PublicKey() ([]byte, error) {
	if len(w.Public) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return append([]byte{}, w.Public...), nil
}

// Sign signs the digest with Ed25519 signature.
func (w *Wallet) Sign(digest []byte) ([]byte, error) {
	if len(w.Private) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	return ed25519.Sign(w.Private, digest), nil
}

// AddressFromPublicKey derives base58 address: version | ripemd160(sha256(public)) | checksum.
func AddressFromPublicKey(public []byte) string {
	sum := sha256.Sum256(public)
	h := ripemd160.New()
	h.Write(sum[:])
	vers := append([]byte{version}, h.Sum(nil)...)
	full := append(vers, checksum(vers)...)
	return string(serializer.Base58Encode(full))
}

func checksum(payload []byte) []byte {
	firstHash := sha256.Sum256(payload)
	secondHash := sha256.Sum256(firstHash[:])

	return secondHash[:checksumLength]
}
