package fileoperations

import (
	"os"

	"github.com/bartossh/xtransfer/transaction"
)

// SaveTransaction writes msgpack encoded transaction to the file at path.
func (h Helper) SaveTransaction(path string, tx *transaction.Transaction) error {
	raw, err := tx.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// ReadTransaction reads msgpack encoded transaction from the file at path.
func (h Helper) ReadTransaction(path string) (transaction.Transaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return transaction.Transaction{}, err
	}
	return transaction.Decode(raw)
}
