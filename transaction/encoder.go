package transaction

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MakeTxDigestHash returns the signing digest, double sha256 over every transaction field
// except the signature lists and the txid.
func MakeTxDigestHash(t *Transaction) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTransaction
	}
	return doubleSha256(encode(t, false)), nil
}

// MakeTransactionID returns the transaction identifier, double sha256 over
// the signing content extended with both signature lists.
func MakeTransactionID(t *Transaction) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTransaction
	}
	return doubleSha256(encode(t, true)), nil
}

func doubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

type encoder struct {
	buf bytes.Buffer
	tmp [binary.MaxVarintLen64]byte
}

func (e *encoder) bytes(b []byte) {
	n := binary.PutUvarint(e.tmp[:], uint64(len(b)))
	e.buf.Write(e.tmp[:n])
	e.buf.Write(b)
}

func (e *encoder) string(s string) {
	e.bytes([]byte(s))
}

func (e *encoder) int64(v int64) {
	n := binary.PutVarint(e.tmp[:], v)
	e.buf.Write(e.tmp[:n])
}

func (e *encoder) bool(v bool) {
	if v {
		e.buf.WriteByte(1)
		return
	}
	e.buf.WriteByte(0)
}

func (e *encoder) count(n int) {
	e.int64(int64(n))
}

func encode(t *Transaction, includeSigns bool) []byte {
	var e encoder

	e.count(len(t.TxInputs))
	for _, in := range t.TxInputs {
		e.bytes(in.RefTxid)
		e.int64(int64(in.RefOffset))
		e.bytes(in.FromAddr)
		e.bytes(in.Amount)
	}
	e.count(len(t.TxOutputs))
	for _, out := range t.TxOutputs {
		e.bytes(out.ToAddr)
		e.bytes(out.Amount)
	}
	e.bytes(t.Desc)
	e.bool(t.Coinbase)
	e.string(t.Nonce)
	e.int64(t.Timestamp)
	e.int64(int64(t.Version))

	e.count(len(t.TxInputsExt))
	for _, in := range t.TxInputsExt {
		e.string(in.Bucket)
		e.bytes(in.Key)
		e.bytes(in.RefTxid)
		e.int64(int64(in.RefOffset))
	}
	e.count(len(t.TxOutputsExt))
	for _, out := range t.TxOutputsExt {
		e.string(out.Bucket)
		e.bytes(out.Key)
		e.bytes(out.Value)
	}
	e.count(len(t.ContractRequests))
	for _, req := range t.ContractRequests {
		e.string(req.ModuleName)
		e.string(req.ContractName)
		e.string(req.MethodName)
		keys := maps.Keys(req.Args)
		slices.Sort(keys)
		e.count(len(keys))
		for _, k := range keys {
			e.string(k)
			e.bytes(req.Args[k])
		}
		e.count(len(req.ResourceLimits))
		for _, l := range req.ResourceLimits {
			e.int64(int64(l.Type))
			e.int64(l.Limit)
		}
		e.string(req.Amount)
	}

	e.string(t.Initiator)
	e.count(len(t.AuthRequire))
	for _, a := range t.AuthRequire {
		e.string(a)
	}

	if includeSigns {
		for _, signs := range [][]SignatureInfo{t.InitiatorSigns, t.AuthRequireSigns} {
			e.count(len(signs))
			for _, s := range signs {
				e.bytes(s.PublicKey)
				e.bytes(s.Sign)
			}
		}
	}

	return e.buf.Bytes()
}
