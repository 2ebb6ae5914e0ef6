package config

import "time"

const (
	// DefaultFeePmob is the minimum fee assumed until a peer reports one.
	DefaultFeePmob uint64 = 400_000_000

	// DefaultMaxInputs caps the inputs a single transaction may spend.
	DefaultMaxInputs = 16
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       9090,
			AllowedIPs: []string{"127.0.0.1"},
			Metrics:    true,
		},
		Ledger: LedgerConfig{
			Timeout:    10 * time.Second,
			DefaultFee: DefaultFeePmob,
		},
		Balance: BalanceConfig{
			MaxInputs:    DefaultMaxInputs,
			DefaultDepth: 0,
		},
		Wallet: WalletConfig{
			KDFMemory:     64 * 1024,
			KDFIterations: 3,
			KDFThreads:    4,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 9190
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
