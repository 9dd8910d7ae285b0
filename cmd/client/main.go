package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bartossh/xtransfer/aeswrapper"
	"github.com/bartossh/xtransfer/configuration"
	"github.com/bartossh/xtransfer/fileoperations"
	"github.com/bartossh/xtransfer/gateway"
	"github.com/bartossh/xtransfer/logging"
	"github.com/bartossh/xtransfer/logo"
	"github.com/bartossh/xtransfer/natsclient"
	"github.com/bartossh/xtransfer/stdoutwriter"
	"github.com/bartossh/xtransfer/telemetry"
	"github.com/bartossh/xtransfer/transfer"
	"github.com/bartossh/xtransfer/wallet"
	"github.com/bartossh/xtransfer/walletapi"
	"github.com/bartossh/xtransfer/zincadapter"
)

const usage = `Client transfers funds on the ledger using the compliance check endorsement service.
The transfer is signed locally with the wallet read from encrypted GOBINARY or PEM files,
endorsed by the endorsement service that charges its fee with a separate transaction and posted to the ledger node.`

func main() {
	logo.Display()

	var file, contractName, contractAccount string
	var envFiles cli.StringSlice

	configurator := func() (configuration.Configuration, error) {
		if file == "" {
			return configuration.Configuration{}, errors.New("please specify configuration file path with -c <path to file>")
		}
		return configuration.ReadWithEnv(file, envFiles.Value()...)
	}

	app := &cli.App{
		Name:  "client",
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Load configuration from `FILE`",
				Destination: &file,
			},
			&cli.StringSliceFlag{
				Name:        "env",
				Aliases:     []string{"e"},
				Usage:       "Load environment overrides from dotenv `FILE`s",
				Value:       cli.NewStringSlice(".env"),
				Destination: &envFiles,
			},
			&cli.StringFlag{
				Name:        "contract-name",
				Usage:       "Name of the contract backing the account",
				Destination: &contractName,
			},
			&cli.StringFlag{
				Name:        "contract-account",
				Usage:       "Contract account the wallet acts for",
				Destination: &contractAccount,
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Prints the wallet address.",
				Action: func(_ *cli.Context) error {
					cfg, err := configurator()
					if err != nil {
						return err
					}
					acc, err := readAccount(cfg, contractName, contractAccount)
					if err != nil {
						return err
					}
					pterm.Info.Printfln("wallet address: %s", acc.Address())
					return nil
				},
			},
			{
				Name:    "transfer",
				Aliases: []string{"t"},
				Usage:   "Transfers amount to the address and prints the transaction identifier.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "Receiver `ADDRESS`", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "Transferred `AMOUNT`", Required: true},
					&cli.StringFlag{Name: "fee", Usage: "Ledger `FEE`", Value: "0"},
					&cli.StringFlag{Name: "desc", Usage: "Transfer `DESCRIPTION`"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := configurator()
					if err != nil {
						return err
					}
					acc, err := readAccount(cfg, contractName, contractAccount)
					if err != nil {
						return err
					}
					log := newLogger(cfg)
					svc, closer, err := newService(cfg, log, nil)
					if err != nil {
						return err
					}
					defer closer()

					ctx, cancel := signalContext()
					defer cancel()
					txid, err := svc.Transfer(ctx, acc, cfg.ChainName, c.String("to"), c.String("amount"), c.String("fee"), c.String("desc"))
					if err != nil {
						return err
					}
					pterm.Success.Printfln("transaction posted: %s", txid)
					return nil
				},
			},
			{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Queries the transaction with hex encoded identifier.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "txid", Usage: "Transaction `TXID` in hex", Required: true},
					&cli.StringFlag{Name: "export", Usage: "Writes msgpack encoded transaction to `FILE`"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := configurator()
					if err != nil {
						return err
					}
					svc, closer, err := newService(cfg, newLogger(cfg), nil)
					if err != nil {
						return err
					}
					defer closer()

					ctx, cancel := signalContext()
					defer cancel()
					status, err := svc.QueryTx(ctx, cfg.ChainName, c.String("txid"))
					if err != nil {
						return err
					}
					raw, err := json.MarshalIndent(status, "", "  ")
					if err != nil {
						return err
					}
					pterm.Println(string(raw))
					if path := c.String("export"); path != "" {
						if status.Tx == nil {
							return errors.New("ledger returned no transaction to export")
						}
						fo := fileoperations.New(cfg.FileOperator, aeswrapper.New())
						if err := fo.SaveTransaction(path, status.Tx); err != nil {
							return err
						}
						pterm.Success.Printf("Transaction exported to %s\n", path)
					}
					return nil
				},
			},
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Runs wallet API and telemetry servers.",
				Action: func(_ *cli.Context) error {
					cfg, err := configurator()
					if err != nil {
						return err
					}
					acc, err := readAccount(cfg, contractName, contractAccount)
					if err != nil {
						return err
					}
					return serve(cfg, acc)
				},
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Prints transfers posted by other clients.",
				Action: func(_ *cli.Context) error {
					cfg, err := configurator()
					if err != nil {
						return err
					}
					return watch(cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newLogger(cfg configuration.Configuration) logging.Helper {
	callbackOnErr := func(err error) {
		fmt.Println("error with logger: ", err)
	}
	writers := []io.Writer{stdoutwriter.Logger{}}
	if cfg.ZincLogger.Address != "" {
		zinc, err := zincadapter.New(context.Background(), cfg.ZincLogger)
		if err != nil {
			pterm.Warning.Printfln("remote logging disabled: %s", err)
		} else {
			writers = append(writers, zinc)
		}
	}
	return logging.New(callbackOnErr, writers...)
}

func readAccount(cfg configuration.Configuration, contractName, contractAccount string) (*wallet.Account, error) {
	w, err := fileoperations.New(cfg.FileOperator, aeswrapper.New()).LoadWallet()
	if err != nil {
		return nil, err
	}
	return wallet.NewAccount(w, contractName, contractAccount), nil
}

func newService(cfg configuration.Configuration, log logging.Helper, rec transfer.Recorder) (*transfer.Service, func(), error) {
	gw, err := gateway.New(cfg.Gateway)
	if err != nil {
		return nil, nil, err
	}

	opts := []transfer.Option{}
	if rec != nil {
		opts = append(opts, transfer.WithRecorder(rec))
	}
	closer := func() {}
	if cfg.Nats.Address != "" {
		pub, err := natsclient.PublisherConnect(cfg.Nats)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, transfer.WithNotifier(pub))
		closer = func() {
			if err := pub.Disconnect(); err != nil {
				log.Error(fmt.Sprintf("nats publisher disconnect: %s", err))
			}
		}
	}

	return transfer.New(cfg.ComplianceCheck, gw, log.Named("transfer"), opts...), closer, nil
}

func serve(cfg configuration.Configuration, acc *wallet.Account) error {
	ctx, cancel := signalContext()
	defer cancel()

	log := newLogger(cfg)
	rec := telemetry.NewRecorder()
	svc, closer, err := newService(cfg, log, rec)
	if err != nil {
		return err
	}
	defer closer()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telemetry.Run(ctx, cfg.Telemetry, rec)
	})
	g.Go(func() error {
		return walletapi.Run(ctx, cfg.WalletAPI, cfg.ChainName, acc, svc, log.Named("walletapi"))
	})
	log.Info(fmt.Sprintf("wallet api serving %s on port %d", acc.Address(), cfg.WalletAPI.Port))
	return g.Wait()
}

func watch(cfg configuration.Configuration) error {
	ctx, cancel := signalContext()
	defer cancel()

	log := newLogger(cfg)
	sub, err := natsclient.SubscriberConnect(cfg.Nats)
	if err != nil {
		return err
	}
	defer func() {
		if err := sub.Disconnect(); err != nil {
			log.Error(fmt.Sprintf("nats subscriber disconnect: %s", err))
		}
	}()

	err = sub.SubscribeTransfers(func(p transfer.Posted) {
		pterm.Info.Printfln("%s [%s] %s -> %s amount %s fee %s txid %s",
			p.PostedAt.Format("2006-01-02 15:04:05"), p.ChainName, p.From, p.To, p.Amount, p.Fee, p.Txid)
	}, log)
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
