package fileoperations

import (
	"errors"
	"os"

	"github.com/bartossh/xtransfer/wallet"
)

var ErrNoWalletSource = errors.New("neither encrypted wallet nor PEM path is configured")

// Sealer offers behaviour to seal and open the bytes with a passphrase.
type Sealer interface {
	Seal(passphrase, data []byte) ([]byte, error)
	Open(passphrase, data []byte) ([]byte, error)
}

// ReadWallet reads wallet from the encrypted file.
func (h Helper) ReadWallet() (wallet.Wallet, error) {
	raw, err := os.ReadFile(h.cfg.WalletPath)
	if err != nil {
		return wallet.Wallet{}, err
	}

	opened, err := h.s.Open([]byte(h.cfg.WalletPasswd), raw)
	if err != nil {
		return wallet.Wallet{}, err
	}

	return wallet.DecodeGOBWallet(opened)
}

// SaveWallet saves wallet to the encrypted file.
func (h Helper) SaveWallet(w wallet.Wallet) error {
	raw, err := w.EncodeGOB()
	if err != nil {
		return err
	}

	closed, err := h.s.Seal([]byte(h.cfg.WalletPasswd), raw)
	if err != nil {
		return err
	}

	return os.WriteFile(h.cfg.WalletPath, closed, 0600)
}

// ReadWalletFromPem reads wallet from PEM encoded key files.
func (h Helper) ReadWalletFromPem() (wallet.Wallet, error) {
	return wallet.ReadFromPem(h.cfg.WalletPemPath)
}

// SaveWalletToPem saves wallet to PEM encoded key files.
func (h Helper) SaveWalletToPem(w wallet.Wallet) error {
	return w.SaveToPem(h.cfg.WalletPemPath)
}

// LoadWallet reads wallet from the encrypted file when configured, otherwise from PEM files.
func (h Helper) LoadWallet() (wallet.Wallet, error) {
	switch {
	case h.cfg.WalletPath != "":
		return h.ReadWallet()
	case h.cfg.WalletPemPath != "":
		return h.ReadWalletFromPem()
	default:
		return wallet.Wallet{}, ErrNoWalletSource
	}
}
