package transaction

// Utxo is a spendable output of a prior transaction.
type Utxo struct {
	Amount    []byte `json:"amount"     msgpack:"amount"`
	ToAddr    []byte `json:"toAddr"     msgpack:"to_addr"`
	RefTxid   []byte `json:"refTxid"    msgpack:"ref_txid"`
	RefOffset int32  `json:"refOffset"  msgpack:"ref_offset"`
}

// UtxoOutput is an ordered selection of utxos with their declared decimal total.
type UtxoOutput struct {
	UtxoList      []Utxo `json:"utxoList"      msgpack:"utxo_list"`
	TotalSelected string `json:"totalSelected" msgpack:"total_selected"`
}

// ContractResponse is a per call status returned by the contract pre-execution.
type ContractResponse struct {
	Status  int32  `json:"status"  msgpack:"status"`
	Message string `json:"message" msgpack:"message"`
	Body    []byte `json:"body"    msgpack:"body"`
}

// InvokeResponse holds the side effects of the contract pre-execution.
type InvokeResponse struct {
	Inputs    []TxInputExt       `json:"inputs"    msgpack:"inputs"`
	Outputs   []TxOutputExt      `json:"outputs"   msgpack:"outputs"`
	Response  [][]byte           `json:"response"  msgpack:"response"`
	GasUsed   int64              `json:"gas_used"  msgpack:"gas_used"`
	Requests  []InvokeRequest    `json:"requests"  msgpack:"requests"`
	Responses []ContractResponse `json:"responses" msgpack:"responses"`
}

// InvokeRPCRequest asks the node to pre-execute contract requests.
type InvokeRPCRequest struct {
	Bcname      string          `json:"bcname"       msgpack:"bcname"`
	Requests    []InvokeRequest `json:"requests"     msgpack:"requests"`
	Initiator   string          `json:"initiator"    msgpack:"initiator"`
	AuthRequire []string        `json:"auth_require" msgpack:"auth_require"`
}

// PreExecWithSelectUTXORequest asks for pre-execution and selection of utxos worth TotalAmount.
type PreExecWithSelectUTXORequest struct {
	Bcname      string           `json:"bcname"      msgpack:"bcname"`
	Address     string           `json:"address"     msgpack:"address"`
	TotalAmount int64            `json:"totalAmount" msgpack:"total_amount"`
	Request     InvokeRPCRequest `json:"request"     msgpack:"request"`
}

// PreExecWithSelectUTXOResponse carries contract side effects and the selected utxos.
type PreExecWithSelectUTXOResponse struct {
	Bcname     string         `json:"bcname"     msgpack:"bcname"`
	Response   InvokeResponse `json:"response"   msgpack:"response"`
	UtxoOutput UtxoOutput     `json:"utxoOutput" msgpack:"utxo_output"`
}

// TxStatus wraps transaction with the ledger it belongs to.
type TxStatus struct {
	Bcname string       `json:"bcname" msgpack:"bcname"`
	Txid   []byte       `json:"txid"   msgpack:"txid"`
	Status int32        `json:"status" msgpack:"status"`
	Tx     *Transaction `json:"tx"     msgpack:"tx"`
}

// EndorserRequest is the envelope of every call to the endorsement service.
type EndorserRequest struct {
	RequestName string       `json:"RequestName"`
	BcName      string       `json:"BcName"`
	Fee         *Transaction `json:"Fee,omitempty"`
	RequestData []byte       `json:"RequestData"`
}

// EndorserResponse is the envelope returned by the endorsement service.
type EndorserResponse struct {
	ResponseName    string         `json:"ResponseName"`
	EndorserAddress string         `json:"EndorserAddress"`
	ResponseData    []byte         `json:"ResponseData"`
	EndorserSign    *SignatureInfo `json:"EndorserSign,omitempty"`
}
