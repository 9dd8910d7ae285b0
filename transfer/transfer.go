package transfer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bartossh/xtransfer/amount"
	"github.com/bartossh/xtransfer/logger"
	"github.com/bartossh/xtransfer/serializer"
	"github.com/bartossh/xtransfer/session"
	"github.com/bartossh/xtransfer/transaction"
)

// Results of the transfer reported to the Recorder.
const (
	ResultSuccess          = "success"
	ResultInvalidArguments = "invalid_arguments"
	ResultFailure          = "failure"
)

var ErrInvalidArguments = errors.New("invalid arguments")

// Gateway reaches the endorsement service and the ledger node.
type Gateway interface {
	session.Gateway
	QueryTx(ctx context.Context, bcname string, txid []byte) (*transaction.TxStatus, error)
}

// Recorder observes the outcome of every transfer.
type Recorder interface {
	ObserveTransfer(result string, elapsed time.Duration)
}

// Posted describes a transfer posted to the ledger.
type Posted struct {
	ChainName string
	Txid      string
	From      string
	To        string
	Amount    string
	Fee       string
	Desc      string
	PostedAt  time.Time
}

// Notifier propagates posted transfers to other services.
type Notifier interface {
	PublishTransfer(p Posted) error
}

// Option configures optional collaborators of the Service.
type Option func(s *Service)

// WithRecorder sets the transfer outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.rec = r
	}
}

// WithNotifier sets the posted transfer notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// Service transfers funds from the account using the compliance check endorsement.
// Service is safe for concurrent use, each transfer runs its own session.
type Service struct {
	cfg      session.Config
	gw       Gateway
	log      logger.Logger
	rec      Recorder
	notifier Notifier
	now      func() time.Time
}

// New creates a new Service with immutable compliance check configuration.
func New(cfg session.Config, gw Gateway, log logger.Logger, opts ...Option) *Service {
	s := &Service{cfg: cfg, gw: gw, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transfer sends amount with the ledger fee to the given address on behalf of the account.
// Endorsement service fee is paid with a separate compliance check transaction.
// Returns hex encoded identifier of the posted transaction.
func (s *Service) Transfer(ctx context.Context, account session.Signer, chainName, to, amt, fee, desc string) (txid string, err error) {
	start := s.now()
	defer func() {
		s.observe(err, s.now().Sub(start))
	}()

	amountV, feeV, total, err := s.preflight(amt, fee)
	if err != nil {
		s.log.Warn(fmt.Sprintf("transfer of %s from %s rejected: %s", amt, account.Address(), err))
		return "", err
	}

	authRequire := []string{s.cfg.EndorseServiceAddr}
	req := transaction.PreExecWithSelectUTXORequest{
		Bcname:      chainName,
		Address:     account.Address(),
		TotalAmount: total,
		Request: transaction.InvokeRPCRequest{
			Bcname:      chainName,
			Requests:    []transaction.InvokeRequest{},
			Initiator:   account.Address(),
			AuthRequire: authRequire,
		},
	}
	msg := session.Message{
		To:          to,
		Amount:      strconv.FormatInt(amountV, 10),
		Fee:         strconv.FormatInt(feeV, 10),
		Desc:        desc,
		Initiator:   account.Address(),
		AuthRequire: authRequire,
	}

	sess := session.New(chainName, account, msg, s.cfg, s.gw, s.log)
	resp, err := sess.PreExecWithSelectUTXO(ctx, req)
	if err != nil {
		s.log.Error(fmt.Sprintf("pre-execution for %s failed: %s", account.Address(), err))
		return "", err
	}
	txid, err = sess.GenCompleteTxAndPost(ctx, resp)
	if err != nil {
		s.log.Error(fmt.Sprintf("transfer from %s to %s failed: %s", account.Address(), to, err))
		return "", err
	}

	s.notify(Posted{
		ChainName: chainName,
		Txid:      txid,
		From:      account.Address(),
		To:        to,
		Amount:    msg.Amount,
		Fee:       msg.Fee,
		Desc:      desc,
		PostedAt:  s.now(),
	})
	return txid, nil
}

// QueryTx reads the transaction with the hex encoded identifier from the ledger.
func (s *Service) QueryTx(ctx context.Context, chainName, txid string) (*transaction.TxStatus, error) {
	id, err := serializer.HexToTxid(txid)
	if err != nil {
		return nil, errors.Join(ErrInvalidArguments, err)
	}
	return s.gw.QueryTx(ctx, chainName, id)
}

// preflight validates transfer values as signed 64 bit integers and returns
// amount, fee and total amount of amount, fee and endorsement fee.
func (s *Service) preflight(amt, fee string) (int64, int64, int64, error) {
	amountV, err := amount.ParseInt64(amt)
	if err != nil {
		return 0, 0, 0, err
	}
	feeV, err := amount.ParseInt64(fee)
	if err != nil {
		return 0, 0, 0, err
	}
	endorseFee, err := s.cfg.Fee()
	if err != nil {
		return 0, 0, 0, err
	}

	if amountV < 0 || feeV < 0 {
		return 0, 0, 0, errors.Join(ErrInvalidArguments, fmt.Errorf("negative amount %d or fee %d", amountV, feeV))
	}
	if endorseFee >= amountV {
		return 0, 0, 0, errors.Join(ErrInvalidArguments, fmt.Errorf("endorse service fee %d is not smaller than amount %d", endorseFee, amountV))
	}

	total, err := amount.AddInt64(amountV, feeV)
	if err != nil {
		return 0, 0, 0, errors.Join(ErrInvalidArguments, err)
	}
	total, err = amount.AddInt64(total, endorseFee)
	if err != nil {
		return 0, 0, 0, errors.Join(ErrInvalidArguments, err)
	}
	return amountV, feeV, total, nil
}

func (s *Service) observe(err error, elapsed time.Duration) {
	if s.rec == nil {
		return
	}
	result := ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, amount.ErrParse):
		result = ResultInvalidArguments
	default:
		result = ResultFailure
	}
	s.rec.ObserveTransfer(result, elapsed)
}

func (s *Service) notify(p Posted) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishTransfer(p); err != nil {
		s.log.Warn(fmt.Sprintf("cannot publish posted transfer %s: %s", p.Txid, err))
	}
}
