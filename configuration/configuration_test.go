package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYaml = `chain_name: "xuper"
gateway:
  node_url: "http://127.0.0.1:37101"
  endorser_url: "http://127.0.0.1:8848"
  timeout_seconds: 7
compliance_check:
  endorse_service_fee: 100
  endorse_service_fee_addr: "aB2hpHnTBDxko3UoP2BpBZRujwhdcAFoT"
  endorse_service_addr: "jknGxa6eyum1JrATWvSJKW3thJ9GKHA9n"
file_operator:
  wallet_path: "wallet.enc"
  wallet_passwd: "secret"
  wallet_pem_path: "key/private.key"
nats:
  server_address: "nats://127.0.0.1:4222"
  client_name: "xtransfer"
wallet_api:
  port: 8000
telemetry:
  address: ":2112"
zinc_logger:
  address: "http://localhost:4080"
  index: "xtransfer"
`

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRead(t *testing.T) {
	cfg, err := Read(writeFile(t, "config.yaml", testYaml))
	require.Nil(t, err)

	assert.Equal(t, "xuper", cfg.ChainName)
	assert.Equal(t, "http://127.0.0.1:37101", cfg.Gateway.NodeURL)
	assert.Equal(t, "http://127.0.0.1:8848", cfg.Gateway.EndorserURL)
	assert.Equal(t, 7, cfg.Gateway.TimeoutSeconds)
	assert.Equal(t, uint64(100), cfg.ComplianceCheck.EndorseServiceFee)
	assert.Equal(t, "aB2hpHnTBDxko3UoP2BpBZRujwhdcAFoT", cfg.ComplianceCheck.EndorseServiceFeeAddr)
	assert.Equal(t, "jknGxa6eyum1JrATWvSJKW3thJ9GKHA9n", cfg.ComplianceCheck.EndorseServiceAddr)
	assert.Equal(t, "wallet.enc", cfg.FileOperator.WalletPath)
	assert.Equal(t, "key/private.key", cfg.FileOperator.WalletPemPath)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Nats.Address)
	assert.Equal(t, 8000, cfg.WalletAPI.Port)
	assert.Equal(t, ":2112", cfg.Telemetry.Address)
	assert.Equal(t, "xtransfer", cfg.ZincLogger.Index)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(writeFile(t, "config.yaml", "gateway: [unclosed"))
	assert.NotNil(t, err)
}

func TestReadWithEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", testYaml)
	t.Setenv(EnvEndorseServiceFee, "250")
	t.Setenv(EnvNodeURL, "http://node:37101")

	cfg, err := ReadWithEnv(path, filepath.Join(t.TempDir(), "absent.env"))
	require.Nil(t, err)
	assert.Equal(t, uint64(250), cfg.ComplianceCheck.EndorseServiceFee)
	assert.Equal(t, "http://node:37101", cfg.Gateway.NodeURL)
	assert.Equal(t, "http://127.0.0.1:8848", cfg.Gateway.EndorserURL)
}

func TestReadWithEnvDotenvFile(t *testing.T) {
	path := writeFile(t, "config.yaml", testYaml)
	// registered so the loaded variable is restored after the test
	t.Setenv(EnvEndorseServiceAddr, "")
	require.Nil(t, os.Unsetenv(EnvEndorseServiceAddr))
	envFile := writeFile(t, ".env", EnvEndorseServiceAddr+"=fromDotenvAddress\n")

	cfg, err := ReadWithEnv(path, envFile)
	require.Nil(t, err)
	assert.Equal(t, "fromDotenvAddress", cfg.ComplianceCheck.EndorseServiceAddr)
}

func TestReadWithEnvInvalidFee(t *testing.T) {
	path := writeFile(t, "config.yaml", testYaml)
	t.Setenv(EnvEndorseServiceFee, "-1")

	_, err := ReadWithEnv(path)
	assert.ErrorIs(t, err, ErrInvalidEnvValue)
}
