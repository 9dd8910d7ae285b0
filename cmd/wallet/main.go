package main

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/bartossh/xtransfer/aeswrapper"
	"github.com/bartossh/xtransfer/configuration"
	"github.com/bartossh/xtransfer/fileoperations"
	"github.com/bartossh/xtransfer/logo"
	"github.com/bartossh/xtransfer/wallet"
)

const (
	actionFromPemToGob = iota
	actionFromGobToPem
	actionNewWallet
)

const usage = `Wallet CLI tool allows to create a new Wallet or act on the local Wallet by using keys from different formats and transforming them between formats.
GOBINARY file is encrypted with AES key derived from the passphrase and is safer to move between machines.`

func main() {
	logo.Display()

	var config string
	var envFiles cli.StringSlice

	configurator := func() (configuration.Configuration, error) {
		if config == "" {
			return configuration.Configuration{}, errors.New("please specify configuration file path with -c <path to file>")
		}
		return configuration.ReadWithEnv(config, envFiles.Value()...)
	}

	success := func() {
		pterm.Info.Println("----------")
		pterm.Info.Println(" SUCCESS !")
		pterm.Info.Println("----------")
	}

	command := func(action int) cli.ActionFunc {
		return func(_ *cli.Context) error {
			cfg, err := configurator()
			if err != nil {
				return err
			}
			addr, err := run(action, cfg.FileOperator)
			if err != nil {
				return err
			}
			pterm.Info.Printfln("wallet address: %s", addr)
			success()
			return nil
		}
	}

	app := &cli.App{
		Name:  "wallet",
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Load configuration from `FILE`",
				Destination: &config,
			},
			&cli.StringSliceFlag{
				Name:        "env",
				Aliases:     []string{"e"},
				Usage:       "Load environment overrides from dotenv `FILE`s",
				Value:       cli.NewStringSlice(".env"),
				Destination: &envFiles,
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "new",
				Aliases: []string{"n"},
				Usage:   "Creates new wallet and saves it to encrypted GOBINARY file and PEM format.",
				Action:  command(actionNewWallet),
			},
			{
				Name:    "topem",
				Aliases: []string{"tp"},
				Usage:   "Reads GOBINARY and saves it to PEM file format.",
				Action:  command(actionFromGobToPem),
			},
			{
				Name:    "togob",
				Aliases: []string{"tg"},
				Usage:   "Reads PEM file format and saves it to GOBINARY encrypted file format.",
				Action:  command(actionFromPemToGob),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func run(action int, cfg fileoperations.Config) (string, error) {
	h := fileoperations.New(cfg, aeswrapper.New())
	switch action {
	case actionNewWallet:
		w, err := wallet.New()
		if err != nil {
			return "", err
		}
		if err := h.SaveWallet(w); err != nil {
			return "", err
		}
		if err := h.SaveWalletToPem(w); err != nil {
			return "", err
		}
		return w.Address(), nil

	case actionFromGobToPem:
		w, err := h.ReadWallet()
		if err != nil {
			return "", err
		}
		if err := h.SaveWalletToPem(w); err != nil {
			return "", err
		}
		return w.Address(), nil

	case actionFromPemToGob:
		w, err := h.ReadWalletFromPem()
		if err != nil {
			return "", err
		}
		if err := h.SaveWallet(w); err != nil {
			return "", err
		}
		return w.Address(), nil

	default:
		return "", errors.New("unimplemented action")
	}
}
