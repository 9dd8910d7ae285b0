package fileoperations

// Config holds configuration of the file operator Helper.
type Config struct {
	WalletPath    string `yaml:"wallet_path"`     // wallet path to the encrypted wallet file
	WalletPasswd  string `yaml:"wallet_passwd"`   // wallet passphrase to the encrypted wallet file
	WalletPemPath string `yaml:"wallet_pem_path"` // PEM private key path, public key is expected at the same path with .pub extension
}

// Helper holds all file operation methods.
type Helper struct {
	s   Sealer
	cfg Config
}

// New creates new Helper.
func New(cfg Config, s Sealer) Helper {
	return Helper{
		cfg: cfg,
		s:   s,
	}
}
