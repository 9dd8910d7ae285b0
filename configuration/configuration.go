package configuration

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/bartossh/xtransfer/fileoperations"
	"github.com/bartossh/xtransfer/gateway"
	"github.com/bartossh/xtransfer/natsclient"
	"github.com/bartossh/xtransfer/session"
	"github.com/bartossh/xtransfer/telemetry"
	"github.com/bartossh/xtransfer/walletapi"
	"github.com/bartossh/xtransfer/zincadapter"
)

// Environment variables overriding values read from the yaml file.
const (
	EnvChainName             = "XTRANSFER_CHAIN_NAME"
	EnvNodeURL               = "XTRANSFER_NODE_URL"
	EnvEndorserURL           = "XTRANSFER_ENDORSER_URL"
	EnvEndorseServiceFee     = "XTRANSFER_ENDORSE_SERVICE_FEE"
	EnvEndorseServiceFeeAddr = "XTRANSFER_ENDORSE_SERVICE_FEE_ADDR"
	EnvEndorseServiceAddr    = "XTRANSFER_ENDORSE_SERVICE_ADDR"
	EnvWalletPasswd          = "XTRANSFER_WALLET_PASSWD"
	EnvNatsToken             = "XTRANSFER_NATS_TOKEN"
)

var ErrInvalidEnvValue = errors.New("invalid environment value")

// Configuration is the main configuration of the application that corresponds to the *.yaml file
// that holds the configuration.
type Configuration struct {
	ChainName       string                `yaml:"chain_name"`
	Gateway         gateway.Config        `yaml:"gateway"`
	ComplianceCheck session.Config        `yaml:"compliance_check"`
	FileOperator    fileoperations.Config `yaml:"file_operator"`
	Nats            natsclient.Config     `yaml:"nats"`
	WalletAPI       walletapi.Config      `yaml:"wallet_api"`
	Telemetry       telemetry.Config      `yaml:"telemetry"`
	ZincLogger      zincadapter.Config    `yaml:"zinc_logger"`
}

// Read reads the configuration from the file and returns the Configuration with set fields according to the yaml setup.
func Read(path string) (Configuration, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, err
	}

	var main Configuration
	err = yaml.Unmarshal(buf, &main)
	if err != nil {
		return Configuration{}, fmt.Errorf("in file %q: %w", path, err)
	}

	return main, err
}

// ReadWithEnv reads the configuration from the file, loads dotenv files if any exist
// and overrides configuration values with XTRANSFER_* environment variables.
// Variables already present in the environment take precedence over dotenv files.
func ReadWithEnv(path string, envFiles ...string) (Configuration, error) {
	main, err := Read(path)
	if err != nil {
		return Configuration{}, err
	}

	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Configuration{}, err
		}
	}

	if err := main.applyEnv(); err != nil {
		return Configuration{}, err
	}
	return main, nil
}

func (c *Configuration) applyEnv() error {
	for env, dst := range map[string]*string{
		EnvChainName:             &c.ChainName,
		EnvNodeURL:               &c.Gateway.NodeURL,
		EnvEndorserURL:           &c.Gateway.EndorserURL,
		EnvEndorseServiceFeeAddr: &c.ComplianceCheck.EndorseServiceFeeAddr,
		EnvEndorseServiceAddr:    &c.ComplianceCheck.EndorseServiceAddr,
		EnvWalletPasswd:          &c.FileOperator.WalletPasswd,
		EnvNatsToken:             &c.Nats.Token,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvEndorseServiceFee); ok {
		fee, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Join(ErrInvalidEnvValue, fmt.Errorf("%s: %w", EnvEndorseServiceFee, err))
		}
		c.ComplianceCheck.EndorseServiceFee = fee
	}
	return nil
}
