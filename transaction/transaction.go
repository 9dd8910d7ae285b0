package transaction

import (
	"bytes"
	"errors"
	"fmt"

	msgpack "github.com/shamaton/msgpack/v2"
)

const (
	// TxVersion is the protocol version of transactions built by this client.
	TxVersion int32 = 1
	// FeeAddress is the output address meaning the amount is burned as a fee paid to the ledger.
	FeeAddress = "$"
)

var (
	ErrNilTransaction                   = errors.New("nil transaction")
	ErrSignatureNotValidOrDataCorrupted = errors.New("signature not valid or data are corrupted")
	ErrMissingSignature                 = errors.New("transaction is missing initiator signature")
)

// Verifier provides signature verification method.
type Verifier interface {
	Verify(publicKey, digest, signature []byte) error
}

// TxInput spends one output of the referenced transaction.
type TxInput struct {
	RefTxid   []byte `json:"ref_txid"   msgpack:"ref_txid"`
	RefOffset int32  `json:"ref_offset" msgpack:"ref_offset"`
	FromAddr  []byte `json:"from_addr"  msgpack:"from_addr"`
	Amount    []byte `json:"amount"     msgpack:"amount"`
}

// TxOutput pays Amount to ToAddr. Amount is big endian magnitude.
type TxOutput struct {
	ToAddr []byte `json:"to_addr" msgpack:"to_addr"`
	Amount []byte `json:"amount"  msgpack:"amount"`
}

// TxInputExt is a contract state read recorded by the pre-execution.
type TxInputExt struct {
	Bucket    string `json:"bucket"     msgpack:"bucket"`
	Key       []byte `json:"key"        msgpack:"key"`
	RefTxid   []byte `json:"ref_txid"   msgpack:"ref_txid"`
	RefOffset int32  `json:"ref_offset" msgpack:"ref_offset"`
}

// TxOutputExt is a contract state write recorded by the pre-execution.
type TxOutputExt struct {
	Bucket string `json:"bucket" msgpack:"bucket"`
	Key    []byte `json:"key"    msgpack:"key"`
	Value  []byte `json:"value"  msgpack:"value"`
}

// ResourceLimit limits resources a contract call may consume.
type ResourceLimit struct {
	Type  int32 `json:"type"  msgpack:"type"`
	Limit int64 `json:"limit" msgpack:"limit"`
}

// InvokeRequest is a single contract invocation.
type InvokeRequest struct {
	ModuleName     string            `json:"module_name"     msgpack:"module_name"`
	ContractName   string            `json:"contract_name"   msgpack:"contract_name"`
	MethodName     string            `json:"method_name"     msgpack:"method_name"`
	Args           map[string][]byte `json:"args"            msgpack:"args"`
	ResourceLimits []ResourceLimit   `json:"resource_limits" msgpack:"resource_limits"`
	Amount         string            `json:"amount"          msgpack:"amount"`
}

// SignatureInfo holds a public key and the signature made with it over a signing digest.
type SignatureInfo struct {
	PublicKey []byte `json:"public_key" msgpack:"public_key"`
	Sign      []byte `json:"sign"       msgpack:"sign"`
}

// Transaction is the ledger transaction.
// Txid is the identifier computed over all fields including signatures,
// it has to be recomputed after any of the signature lists change.
type Transaction struct {
	Txid             []byte          `json:"txid"               msgpack:"txid"`
	TxInputs         []TxInput       `json:"tx_inputs"          msgpack:"tx_inputs"`
	TxOutputs        []TxOutput      `json:"tx_outputs"         msgpack:"tx_outputs"`
	Desc             []byte          `json:"desc"               msgpack:"desc"`
	Coinbase         bool            `json:"coinbase"           msgpack:"coinbase"`
	Nonce            string          `json:"nonce"              msgpack:"nonce"`
	Timestamp        int64           `json:"timestamp"          msgpack:"timestamp"`
	Version          int32           `json:"version"            msgpack:"version"`
	TxInputsExt      []TxInputExt    `json:"tx_inputs_ext"      msgpack:"tx_inputs_ext"`
	TxOutputsExt     []TxOutputExt   `json:"tx_outputs_ext"     msgpack:"tx_outputs_ext"`
	ContractRequests []InvokeRequest `json:"contract_requests"  msgpack:"contract_requests"`
	Initiator        string          `json:"initiator"          msgpack:"initiator"`
	AuthRequire      []string        `json:"auth_require"       msgpack:"auth_require"`
	InitiatorSigns   []SignatureInfo `json:"initiator_signs"    msgpack:"initiator_signs"`
	AuthRequireSigns []SignatureInfo `json:"auth_require_signs" msgpack:"auth_require_signs"`
}

// SetTxid recomputes and sets the transaction identifier.
func (t *Transaction) SetTxid() error {
	id, err := MakeTransactionID(t)
	if err != nil {
		return err
	}
	t.Txid = id
	return nil
}

// OutputsTo returns indexes of outputs paying to the given address in output order.
func (t *Transaction) OutputsTo(address string) []int {
	var idx []int
	for i, o := range t.TxOutputs {
		if bytes.Equal(o.ToAddr, []byte(address)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// VerifySignatures verifies every initiator and auth require signature against the signing digest
// and checks the transaction identifier matches the transaction content.
func (t *Transaction) VerifySignatures(v Verifier) error {
	if t == nil {
		return ErrNilTransaction
	}
	if len(t.InitiatorSigns) == 0 {
		return ErrMissingSignature
	}
	digest, err := MakeTxDigestHash(t)
	if err != nil {
		return err
	}
	for i, s := range append(append([]SignatureInfo{}, t.InitiatorSigns...), t.AuthRequireSigns...) {
		if err := v.Verify(s.PublicKey, digest, s.Sign); err != nil {
			return errors.Join(ErrSignatureNotValidOrDataCorrupted, fmt.Errorf("signature %d: %w", i, err))
		}
	}
	id, err := MakeTransactionID(t)
	if err != nil {
		return err
	}
	if !bytes.Equal(id, t.Txid) {
		return errors.Join(ErrSignatureNotValidOrDataCorrupted, errors.New("txid does not match transaction content"))
	}
	return nil
}

// Encode encodes transaction to bytes slice.
func (t *Transaction) Encode() ([]byte, error) {
	if t == nil {
		return nil, ErrNilTransaction
	}
	return msgpack.Marshal(*t)
}

// Decode decodes slice buffer to transaction.
func Decode(buf []byte) (Transaction, error) {
	var t Transaction
	err := msgpack.Unmarshal(buf, &t)
	return t, err
}
