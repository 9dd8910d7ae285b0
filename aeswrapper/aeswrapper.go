package aeswrapper

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidKeyLength   = errors.New("invalid key length, must be 16 or 32 bytes")
	ErrEmptyPassphrase    = errors.New("empty passphrase")
	ErrCipherFailure      = errors.New("cipher creation failure")
	ErrGCMFailure         = errors.New("gcm creation failure")
	ErrRandomNonceFailure = errors.New("random nonce creation failure")
	ErrDataTooShort       = errors.New("sealed data too short")
	ErrOpenDataFailure    = errors.New("open data failure, cannot decrypt data")
)

const (
	nonceSize = 12
	saltSize  = 16
	keySize   = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Helper wraps AES encryption and decryption.
// Uses Galois Counter Mode (GCM) for encryption and decryption.
type Helper struct{}

// New creates a new Helper.
func New() Helper {
	return Helper{}
}

// DeriveKey derives 32 bytes key from the passphrase with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keySize)
}

// Encrypt encrypts data with key.
// Key must be 16 or 32 bytes long.
func (h Helper) Encrypt(key, data []byte) ([]byte, error) {
	aesGcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrRandomNonceFailure, err)
	}

	return aesGcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt decrypts data with key.
// Key must be 16 or 32 bytes long.
func (h Helper) Decrypt(key, data []byte) ([]byte, error) {
	aesGcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(data) < nonceSize {
		return nil, ErrDataTooShort
	}
	nonce, cipherText := data[:nonceSize], data[nonceSize:]

	plaintext, err := aesGcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return nil, errors.Join(ErrOpenDataFailure, err)
	}

	return plaintext, nil
}

// Seal encrypts data with the key derived from passphrase.
// Random salt is prepended to the sealed data.
func (h Helper) Seal(passphrase, data []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Join(ErrRandomNonceFailure, err)
	}
	enc, err := h.Encrypt(DeriveKey(passphrase, salt), data)
	if err != nil {
		return nil, err
	}
	return append(salt, enc...), nil
}

// Open decrypts data sealed with the passphrase.
func (h Helper) Open(passphrase, data []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(data) < saltSize+nonceSize {
		return nil, ErrDataTooShort
	}
	return h.Decrypt(DeriveKey(passphrase, data[:saltSize]), data[saltSize:])
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 && len(key) != 16 {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrCipherFailure, err)
	}
	aesGcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrGCMFailure, err)
	}
	return aesGcm, nil
}
