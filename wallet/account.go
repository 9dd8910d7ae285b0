package wallet

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a wallet acting on the ledger, optionally on behalf of a contract account.
type Account struct {
	Wallet
	contractName    string
	contractAccount string
}

// NewAccount creates Account for the given wallet.
// Non empty contractName marks the account as contract backed.
func NewAccount(w Wallet, contractName, contractAccount string) *Account {
	return &Account{Wallet: w, contractName: contractName, contractAccount: contractAccount}
}

// ContractName returns the name of the contract backing the account.
func (a *Account) ContractName() string {
	return a.contractName
}

// ContractAccount returns the contract account the wallet acts for.
func (a *Account) ContractAccount() string {
	return a.contractAccount
}

// NewNonce issues a nonce unique per call and per process.
func NewNonce() string {
	return primitive.NewObjectID().Hex()
}
