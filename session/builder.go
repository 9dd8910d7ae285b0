package session

import (
	"math/big"

	"github.com/bartossh/xtransfer/amount"
	"github.com/bartossh/xtransfer/transaction"
)

// GenerateTxOutput builds destination and fee outputs.
// Destination output is created only for non empty to address,
// fee output only for fee that is neither empty nor "0". Destination goes first.
func GenerateTxOutput(to, amt, fee string) ([]transaction.TxOutput, error) {
	outputs := make([]transaction.TxOutput, 0, 2)
	if to != "" {
		v, err := amount.ParseBig(amt)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, transaction.TxOutput{ToAddr: []byte(to), Amount: amount.ToBytes(v)})
	}
	if fee != "" && fee != "0" {
		v, err := amount.ParseBig(fee)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, transaction.TxOutput{ToAddr: []byte(transaction.FeeAddress), Amount: amount.ToBytes(v)})
	}
	return outputs, nil
}

// GenerateTxInput spends every utxo of the pool in pool order.
// When the declared pool total exceeds totalNeed the change output paying the excess to changeAddr
// is returned, otherwise change is nil. Insufficient pools are not rejected here, the ledger does it.
func GenerateTxInput(pool transaction.UtxoOutput, totalNeed *big.Int, changeAddr string) ([]transaction.TxInput, *transaction.TxOutput, error) {
	inputs := make([]transaction.TxInput, 0, len(pool.UtxoList))
	for _, u := range pool.UtxoList {
		inputs = append(inputs, transaction.TxInput{
			RefTxid:   u.RefTxid,
			RefOffset: u.RefOffset,
			FromAddr:  u.ToAddr,
			Amount:    u.Amount,
		})
	}

	total, err := amount.ParseBig(pool.TotalSelected)
	if err != nil {
		return nil, nil, err
	}

	if total.Cmp(totalNeed) <= 0 {
		return inputs, nil, nil
	}

	delta := new(big.Int).Sub(total, totalNeed)
	return inputs, &transaction.TxOutput{ToAddr: []byte(changeAddr), Amount: amount.ToBytes(delta)}, nil
}

// SelectChange collects outputs of the transaction paying to the owner as spendable utxos
// referencing the transaction identifier, in output index order.
func SelectChange(tx *transaction.Transaction, owner string) transaction.UtxoOutput {
	idx := tx.OutputsTo(owner)
	list := make([]transaction.Utxo, 0, len(idx))
	values := make([]*big.Int, 0, len(idx))
	for _, i := range idx {
		out := tx.TxOutputs[i]
		list = append(list, transaction.Utxo{
			Amount:    out.Amount,
			ToAddr:    out.ToAddr,
			RefTxid:   tx.Txid,
			RefOffset: int32(i),
		})
		values = append(values, amount.FromBytes(out.Amount))
	}
	return transaction.UtxoOutput{UtxoList: list, TotalSelected: amount.String(amount.Sum(values...))}
}
