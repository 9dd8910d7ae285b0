package wallet

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"github.com/bartossh/xtransfer/serializer"
)

var (
	ErrAddressInvalid   = errors.New("address is invalid")
	ErrSignatureInvalid = errors.New("signature isn't valid")
)

// Helper provides wallet helper functionalities without knowing about wallet private key.
type Helper struct{}

// NewVerifier creates new wallet Helper verifier.
func NewVerifier() Helper {
	return Helper{}
}

// ValidateAddress checks address version and checksum.
func (h Helper) ValidateAddress(address string) error {
	raw, err := serializer.Base58Decode([]byte(address))
	if err != nil {
		return errors.Join(ErrAddressInvalid, err)
	}
	if len(raw) <= checksumLength+1 {
		return errors.Join(ErrAddressInvalid, errors.New("address of invalid length"))
	}
	if raw[0] != version {
		return errors.Join(ErrAddressInvalid, errors.New("address version mismatch"))
	}
	payload, actual := raw[:len(raw)-checksumLength], raw[len(raw)-checksumLength:]
	if !bytes.Equal(actual, checksum(payload)) {
		return errors.Join(ErrAddressInvalid, errors.New("address checksum is not equal"))
	}
	return nil
}

// VerifyOwner verifies that the public key derives the address.
func (h Helper) VerifyOwner(publicKey []byte, address string) error {
	if AddressFromPublicKey(publicKey) != address {
		return errors.Join(ErrAddressInvalid, errors.New("address does not belong to the public key"))
	}
	return nil
}

// Verify verifies if digest is signed by the given public key.
func (h Helper) Verify(publicKey, digest, signature []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return ErrInvalidPublicKey
	}
	if !ed25519.Verify(publicKey, digest, signature) {
		return ErrSignatureInvalid
	}
	return nil
}
