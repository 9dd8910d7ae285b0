package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bartossh/xtransfer/amount"
	"github.com/bartossh/xtransfer/logger"
	"github.com/bartossh/xtransfer/serializer"
	"github.com/bartossh/xtransfer/transaction"
	"github.com/bartossh/xtransfer/wallet"
)

const (
	PreExecWithFeeRequest  = "PreExecWithFee"  // Endorser request name of the pre-execution with utxo selection.
	ComplianceCheckRequest = "ComplianceCheck" // Endorser request name of the compliance endorsement.
	ComplianceCheckDesc    = "compliance check tx"
	maxContractStatus      = 400
)

var (
	ErrContractCodeGT400           = errors.New("contract response status greater than 400")
	ErrMissingEndorsementSignature = errors.New("endorsement response is missing signature")
)

// Signer is the account signing transactions built by the Session.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	PublicKey() ([]byte, error)
	Address() string
	ContractName() string
}

// EndorserCaller calls the endorsement service.
type EndorserCaller interface {
	EndorserCall(ctx context.Context, req *transaction.EndorserRequest) (*transaction.EndorserResponse, error)
}

// Poster broadcasts finalized transactions.
type Poster interface {
	PostTx(ctx context.Context, status *transaction.TxStatus) error
}

// Gateway reaches both the endorsement service and the ledger node.
type Gateway interface {
	EndorserCaller
	Poster
}

// Config is the compliance check configuration of the endorsement service.
type Config struct {
	EndorseServiceFee     uint64 `yaml:"endorse_service_fee"`
	EndorseServiceFeeAddr string `yaml:"endorse_service_fee_addr"`
	EndorseServiceAddr    string `yaml:"endorse_service_addr"`
}

// Fee returns the endorsement fee as signed integer or amount.ErrParse when it cannot be represented.
func (c Config) Fee() (int64, error) {
	if c.EndorseServiceFee > math.MaxInt64 {
		return 0, errors.Join(amount.ErrParse, fmt.Errorf("endorse service fee %d overflows int64", c.EndorseServiceFee))
	}
	return int64(c.EndorseServiceFee), nil
}

// Message is the transfer intent.
type Message struct {
	To           string
	Amount       string
	Fee          string
	Desc         string
	FrozenHeight int64
	Initiator    string
	AuthRequire  []string
}

// Session builds, endorses and posts transactions of a single transfer.
type Session struct {
	chainName string
	account   Signer
	msg       Message
	cfg       Config
	gw        Gateway
	log       logger.Logger
	nonce     func() string
	now       func() time.Time
}

// New creates a new Session for the message. Session is not meant to be reused between transfers.
func New(chainName string, account Signer, msg Message, cfg Config, gw Gateway, log logger.Logger) *Session {
	return &Session{
		chainName: chainName,
		account:   account,
		msg:       msg,
		cfg:       cfg,
		gw:        gw,
		log:       log,
		nonce:     wallet.NewNonce,
		now:       time.Now,
	}
}

// CheckResponseCode fails when any contract response status is greater than 400.
func CheckResponseCode(responses []transaction.ContractResponse) error {
	for i, r := range responses {
		if r.Status > maxContractStatus {
			return errors.Join(ErrContractCodeGT400, fmt.Errorf("response %d status %d: %s", i, r.Status, r.Message))
		}
	}
	return nil
}

// PreExecWithSelectUTXO pre-executes contract requests and selects utxos through the endorsement service.
func (s *Session) PreExecWithSelectUTXO(ctx context.Context, req transaction.PreExecWithSelectUTXORequest) (*transaction.PreExecWithSelectUTXOResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := s.gw.EndorserCall(ctx, &transaction.EndorserRequest{
		RequestName: PreExecWithFeeRequest,
		BcName:      s.chainName,
		RequestData: data,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty pre-execution response")
	}

	var result transaction.PreExecWithSelectUTXOResponse
	if err := json.Unmarshal(resp.ResponseData, &result); err != nil {
		return nil, err
	}
	if err := CheckResponseCode(result.Response.Responses); err != nil {
		return nil, err
	}
	s.log.Debug(fmt.Sprintf("pre-execution selected %d utxos worth %s", len(result.UtxoOutput.UtxoList), result.UtxoOutput.TotalSelected))
	return &result, nil
}

// GenComplianceCheckTx builds the fee transaction paying the endorsement service fee from the selected utxos.
func (s *Session) GenComplianceCheckTx(resp *transaction.PreExecWithSelectUTXOResponse) (*transaction.Transaction, error) {
	fee, err := s.cfg.Fee()
	if err != nil {
		return nil, err
	}
	totalNeed, err := amount.FromInt64(fee)
	if err != nil {
		return nil, err
	}

	inputs, change, err := GenerateTxInput(resp.UtxoOutput, totalNeed, s.account.Address())
	if err != nil {
		return nil, err
	}
	outputs, err := GenerateTxOutput(s.cfg.EndorseServiceFeeAddr, amount.String(totalNeed), "0")
	if err != nil {
		return nil, err
	}
	if change != nil {
		outputs = append(outputs, *change)
	}

	tx := &transaction.Transaction{
		Desc:      []byte(ComplianceCheckDesc),
		Version:   transaction.TxVersion,
		Coinbase:  false,
		Timestamp: s.now().UnixNano(),
		TxInputs:  inputs,
		TxOutputs: outputs,
		Initiator: s.msg.Initiator,
		Nonce:     s.nonce(),
	}

	sign, err := s.signTx(tx)
	if err != nil {
		return nil, err
	}
	tx.InitiatorSigns = []transaction.SignatureInfo{sign}
	if err := tx.SetTxid(); err != nil {
		return nil, err
	}

	s.log.Debug(fmt.Sprintf("compliance check tx %s built", serializer.TxidToHex(tx.Txid)))
	return tx, nil
}

// GenRealTx builds the transfer transaction funded by the change of the compliance check transaction.
func (s *Session) GenRealTx(resp *transaction.PreExecWithSelectUTXOResponse, cctx *transaction.Transaction) (*transaction.Transaction, error) {
	outputs, err := GenerateTxOutput(s.msg.To, s.msg.Amount, s.msg.Fee)
	if err != nil {
		return nil, err
	}

	pool := SelectChange(cctx, s.msg.Initiator)

	totalNeed, err := amount.ParseBig(s.msg.Amount)
	if err != nil {
		return nil, err
	}
	if s.msg.Fee != "" {
		fee, err := amount.ParseBig(s.msg.Fee)
		if err != nil {
			return nil, err
		}
		totalNeed.Add(totalNeed, fee)
	}

	inputs, change, err := GenerateTxInput(pool, totalNeed, s.account.Address())
	if err != nil {
		return nil, err
	}
	if change != nil {
		outputs = append(outputs, *change)
	}

	tx := &transaction.Transaction{
		Desc:             []byte{},
		Version:          transaction.TxVersion,
		Coinbase:         false,
		Timestamp:        s.now().UnixNano(),
		TxInputs:         inputs,
		TxOutputs:        outputs,
		Initiator:        s.msg.Initiator,
		Nonce:            s.nonce(),
		AuthRequire:      append([]string{}, s.msg.AuthRequire...),
		TxInputsExt:      append([]transaction.TxInputExt{}, resp.Response.Inputs...),
		TxOutputsExt:     append([]transaction.TxOutputExt{}, resp.Response.Outputs...),
		ContractRequests: append([]transaction.InvokeRequest{}, resp.Response.Requests...),
	}

	sign, err := s.signTx(tx)
	if err != nil {
		return nil, err
	}
	tx.InitiatorSigns = []transaction.SignatureInfo{sign}
	if s.account.ContractName() != "" {
		tx.AuthRequireSigns = []transaction.SignatureInfo{sign}
	}
	if err := tx.SetTxid(); err != nil {
		return nil, err
	}

	s.log.Debug(fmt.Sprintf("real tx %s built spending %d change utxos", serializer.TxidToHex(tx.Txid), len(inputs)))
	return tx, nil
}

// ComplianceCheck asks the endorsement service to endorse tx paying its fee with cctx.
func (s *Session) ComplianceCheck(ctx context.Context, tx, cctx *transaction.Transaction) (transaction.SignatureInfo, error) {
	data, err := json.Marshal(transaction.TxStatus{Bcname: s.chainName, Tx: tx})
	if err != nil {
		return transaction.SignatureInfo{}, err
	}
	resp, err := s.gw.EndorserCall(ctx, &transaction.EndorserRequest{
		RequestName: ComplianceCheckRequest,
		BcName:      s.chainName,
		Fee:         cctx,
		RequestData: data,
	})
	if err != nil {
		return transaction.SignatureInfo{}, err
	}
	if resp == nil || resp.EndorserSign == nil {
		return transaction.SignatureInfo{}, ErrMissingEndorsementSignature
	}
	return *resp.EndorserSign, nil
}

// GenCompleteTxAndPost builds both transactions, merges the endorsement signature,
// finalizes the transaction identifier and posts it. Returns hex encoded transaction identifier.
func (s *Session) GenCompleteTxAndPost(ctx context.Context, resp *transaction.PreExecWithSelectUTXOResponse) (string, error) {
	cctx, err := s.GenComplianceCheckTx(resp)
	if err != nil {
		return "", err
	}
	tx, err := s.GenRealTx(resp, cctx)
	if err != nil {
		return "", err
	}
	endorsement, err := s.ComplianceCheck(ctx, tx, cctx)
	if err != nil {
		return "", err
	}

	tx.AuthRequireSigns = append(tx.AuthRequireSigns, endorsement)
	if err := tx.SetTxid(); err != nil {
		return "", err
	}

	if err := s.gw.PostTx(ctx, &transaction.TxStatus{Bcname: s.chainName, Txid: tx.Txid, Tx: tx}); err != nil {
		return "", err
	}

	txid := serializer.TxidToHex(tx.Txid)
	s.log.Info(fmt.Sprintf("transaction %s posted to %s", txid, s.chainName))
	return txid, nil
}

func (s *Session) signTx(tx *transaction.Transaction) (transaction.SignatureInfo, error) {
	digest, err := transaction.MakeTxDigestHash(tx)
	if err != nil {
		return transaction.SignatureInfo{}, err
	}
	sig, err := s.account.Sign(digest)
	if err != nil {
		return transaction.SignatureInfo{}, err
	}
	pub, err := s.account.PublicKey()
	if err != nil {
		return transaction.SignatureInfo{}, err
	}
	return transaction.SignatureInfo{PublicKey: pub, Sign: sig}, nil
}
