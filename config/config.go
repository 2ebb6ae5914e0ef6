// Package config handles wallet daemon configuration.
//
// Settings come from three layers, each overriding the previous one:
// built-in defaults per network, the walletd.conf file, then CLI flags.
package config

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds the daemon's runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// JSON-RPC server
	RPC RPCConfig

	// Ledger height and fee sources
	Ledger LedgerConfig

	// Balance computation
	Balance BalanceConfig

	// Key material sealing
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
	Metrics     bool     `conf:"rpc.metrics"`
}

// LedgerConfig holds the ledger oracle settings.
type LedgerConfig struct {
	Peers        []string      `conf:"ledger.peers"` // JSON-RPC URLs of full nodes
	Timeout      time.Duration `conf:"ledger.timeout"`
	Offline      bool          `conf:"ledger.offline"`
	DefaultFee   uint64        `conf:"ledger.fee"` // picoMOB
	BlockVersion uint32        `conf:"ledger.blockversion"`
}

// BalanceConfig holds balance computation settings.
type BalanceConfig struct {
	MaxInputs    int    `conf:"balance.maxinputs"`
	DefaultDepth uint64 `conf:"balance.depth"`
}

// WalletConfig holds the Argon2id costs used to seal imported seeds.
type WalletConfig struct {
	KDFMemory     uint32 `conf:"wallet.kdf.memory"` // KiB
	KDFIterations uint32 `conf:"wallet.kdf.iterations"`
	KDFThreads    uint8  `conf:"wallet.kdf.threads"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-wallet
//	macOS:   ~/Library/Application Support/KlingnetWallet
//	Windows: %APPDATA%\KlingnetWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetWallet")
	default:
		return filepath.Join(home, ".klingnet-wallet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// DBDir returns the badger database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.NetworkDataDir(), "db")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "walletd.conf")
}

// RPCListenAddr returns the host:port the RPC server binds.
func (c *Config) RPCListenAddr() string {
	return net.JoinHostPort(c.RPC.Addr, strconv.Itoa(c.RPC.Port))
}
