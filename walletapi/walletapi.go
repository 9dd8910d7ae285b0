package walletapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bartossh/xtransfer/amount"
	"github.com/bartossh/xtransfer/logger"
	"github.com/bartossh/xtransfer/session"
	"github.com/bartossh/xtransfer/transaction"
	"github.com/bartossh/xtransfer/transfer"
)

const (
	ApiVersion = "1.0.0"
	Header     = "XTransfer Wallet API"
)

const (
	MetricsURL     = "/metrics"           // URL serves service metrics.
	Alive          = "/alive"             // URL allows to check if server is alive.
	Address        = "/address"           // URL allows to check wallet public address.
	Transfer       = "/transfer"          // URL allows to transfer funds from the wallet.
	GetTransaction = "/transaction/:txid" // URL allows to query posted transaction.
)

const shutdownGrace = time.Second * 3

// Config is the configuration for the wallet API server.
type Config struct {
	Port int `yaml:"port"`
}

// Transferer transfers funds and queries ledger transactions.
type Transferer interface {
	Transfer(ctx context.Context, account session.Signer, chainName, to, amt, fee, desc string) (string, error)
	QueryTx(ctx context.Context, chainName, txid string) (*transaction.TxStatus, error)
}

type app struct {
	chainName string
	account   session.Signer
	t         Transferer
	log       logger.Logger
}

// New creates the fiber application exposing the wallet API.
func New(chainName string, account session.Signer, t Transferer, log logger.Logger) *fiber.App {
	a := app{chainName: chainName, account: account, t: t, log: log}

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   time.Second * 5,
		WriteTimeout:  time.Second * 30,
		ServerHeader:  Header,
		AppName:       ApiVersion,
		Concurrency:   1024,
	})
	router.Use(recover.New())
	router.Get(MetricsURL, monitor.New(monitor.Config{Title: "Wallet API Node"}))

	router.Get(Alive, a.alive)
	router.Get(Address, a.address)
	router.Post(Transfer, a.transfer)
	router.Get(GetTransaction, a.transaction)

	return router
}

// Run runs the wallet API server. This blocks until the context is canceled or the listener fails.
func Run(ctx context.Context, cfg Config, chainName string, account session.Signer, t Transferer, log logger.Logger) error {
	router := New(chainName, account, t, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Listen(fmt.Sprintf("0.0.0.0:%v", cfg.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(fmt.Sprintf("wallet api listener: %s", err))
		}
		return err
	case <-ctx.Done():
	}

	if err := router.Shutdown(); err != nil {
		return err
	}
	select {
	case err := <-errCh:
		return err
	case <-time.After(shutdownGrace):
		return nil
	}
}

// AliveResponse is containing server alive data such as ApiVersion and APIHeader.
type AliveResponse struct {
	Alive      bool   `json:"alive"`
	APIVersion string `json:"api_version"`
	APIHeader  string `json:"api_header"`
}

func (a *app) alive(c *fiber.Ctx) error {
	return c.JSON(
		AliveResponse{
			Alive:      true,
			APIVersion: ApiVersion,
			APIHeader:  Header,
		})
}

// AddressResponse is wallet public address response.
type AddressResponse struct {
	Address string `json:"address"`
}

func (a *app) address(c *fiber.Ctx) error {
	return c.JSON(AddressResponse{Address: a.account.Address()})
}

// TransferRequest is a request to transfer amount to the address.
type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Desc   string `json:"desc"`
}

// TransferResponse contains hex encoded identifier of the posted transaction.
type TransferResponse struct {
	Txid string `json:"txid"`
}

func (a *app) transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		err := fmt.Errorf("error reading data: %v", err)
		a.log.Error(err.Error())
		return errors.Join(fiber.ErrBadRequest, err)
	}

	if req.To == "" || req.Amount == "" {
		a.log.Error("wrong JSON format when requesting transfer")
		return fiber.ErrBadRequest
	}
	if req.Fee == "" {
		req.Fee = "0"
	}

	txid, err := a.t.Transfer(c.UserContext(), a.account, a.chainName, req.To, req.Amount, req.Fee, req.Desc)
	if err != nil {
		a.log.Error(fmt.Sprintf("error transferring to %s: %s", req.To, err))
		return httpError(err)
	}
	return c.JSON(TransferResponse{Txid: txid})
}

func (a *app) transaction(c *fiber.Ctx) error {
	status, err := a.t.QueryTx(c.UserContext(), a.chainName, c.Params("txid"))
	if err != nil {
		a.log.Error(fmt.Sprintf("error querying transaction %s: %s", c.Params("txid"), err))
		return httpError(err)
	}
	return c.JSON(status)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, transfer.ErrInvalidArguments), errors.Is(err, amount.ErrParse):
		return errors.Join(fiber.ErrBadRequest, err)
	case errors.Is(err, session.ErrContractCodeGT400):
		return errors.Join(fiber.ErrConflict, err)
	default:
		return errors.Join(fiber.ErrBadGateway, err)
	}
}
