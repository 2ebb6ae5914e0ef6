package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Version is the daemon version reported by --version and the version RPC.
const Version = "0.1.0"

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string
	Metrics    bool

	// Ledger
	Peers        string
	PeerTimeout  time.Duration
	Offline      bool
	Fee          uint64
	BlockVersion uint

	// Balance
	MaxInputs int
	Depth     uint64

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set flags (for true/false and zero-value overrides).
	SetRPC          bool
	SetMetrics      bool
	SetOffline      bool
	SetBlockVersion bool
	SetDepth        bool
	SetLogJSON      bool
}

// ParseFlags parses command-line flags from os.Args.
func ParseFlags() *Flags {
	f, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return f
}

func parseArgs(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("walletd", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	testnet := fs.Bool("testnet", false, "Use testnet (shorthand for --network=testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// RPC
	fs.BoolVar(&f.RPC, "rpc", true, "Enable RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC listen address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed IPs for RPC")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins for RPC (comma-separated)")
	fs.BoolVar(&f.Metrics, "metrics", true, "Expose Prometheus metrics on /metrics")

	// Ledger
	fs.StringVar(&f.Peers, "peers", "", "Full node RPC URLs (comma-separated)")
	fs.DurationVar(&f.PeerTimeout, "peer-timeout", 0, "Timeout for a single peer request")
	fs.BoolVar(&f.Offline, "offline", false, "Report the local block count as the network height")
	fs.Uint64Var(&f.Fee, "fee", 0, "Default fee in picoMOB")
	fs.UintVar(&f.BlockVersion, "block-version", 0, "Default block version")

	// Balance
	fs.IntVar(&f.MaxInputs, "max-inputs", 0, "Inputs a transaction may spend")
	fs.Uint64Var(&f.Depth, "depth", 0, "Default confirmation depth")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = func() {
		printUsage()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *testnet {
		f.Network = string(Testnet)
	}
	f.SetRPC = isFlagSet(fs, "rpc")
	f.SetMetrics = isFlagSet(fs, "metrics")
	f.SetOffline = isFlagSet(fs, "offline")
	f.SetBlockVersion = isFlagSet(fs, "block-version")
	f.SetDepth = isFlagSet(fs, "depth")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	f.Args = fs.Args()

	// A positional argument stops the parser; anything flag-like after it
	// would be silently dropped.
	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q was not parsed (positional argument stopped parsing)", arg)
		}
	}

	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// RPC
	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}
	if f.SetMetrics {
		cfg.RPC.Metrics = f.Metrics
	}

	// Ledger
	if f.Peers != "" {
		cfg.Ledger.Peers = parseStringList(f.Peers)
	}
	if f.PeerTimeout != 0 {
		cfg.Ledger.Timeout = f.PeerTimeout
	}
	if f.SetOffline {
		cfg.Ledger.Offline = f.Offline
	}
	if f.Fee != 0 {
		cfg.Ledger.DefaultFee = f.Fee
	}
	if f.SetBlockVersion {
		cfg.Ledger.BlockVersion = uint32(f.BlockVersion)
	}

	// Balance
	if f.MaxInputs != 0 {
		cfg.Balance.MaxInputs = f.MaxInputs
	}
	if f.SetDepth {
		cfg.Balance.DefaultDepth = f.Depth
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	usage := `Klingnet Wallet Daemon - output tracking and balance accounting

Usage:
  walletd [options]
  walletd --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --network       Network type: mainnet (default) or testnet
  --testnet       Shorthand for --network=testnet
  --datadir       Data directory (default: ~/.klingnet-wallet)
  --config, -c    Config file path (default: <datadir>/walletd.conf)

RPC Options:
  --rpc           Enable RPC server (default: true)
  --rpc-addr      RPC listen address (default: 127.0.0.1)
  --rpc-port      RPC port (mainnet: 9090, testnet: 9190)
  --rpc-allowed   Allowed IPs for RPC (comma-separated)
  --rpc-cors      Allowed CORS origins for RPC (comma-separated)
  --metrics       Expose Prometheus metrics on /metrics (default: true)

Ledger Options:
  --peers         Full node RPC URLs polled for the network height
  --peer-timeout  Timeout for a single peer request (default: 10s)
  --offline       Report the local block count as the network height
  --fee           Default fee in picoMOB (default: 400000000)
  --block-version Default block version

Balance Options:
  --max-inputs    Inputs a transaction may spend (default: 16)
  --depth         Default confirmation depth (default: 0)

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Examples:
  # Start against a local full node
  walletd --peers=http://127.0.0.1:8545

  # Start testnet daemon without network access
  walletd --testnet --offline
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("walletd version " + Version)
		os.Exit(0)
	}

	cfg, err := loadWithFlags(flags)
	if err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}

func loadWithFlags(flags *Flags) (*Config, error) {
	// Network first, the defaults depend on it.
	network := Mainnet
	if strings.EqualFold(flags.Network, string(Testnet)) {
		network = Testnet
	}

	cfg := Default(network)
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	// Flags have the highest precedence.
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads config from defaults + conf file only (no CLI flags).
func LoadFromFile(dataDir string, network NetworkType) (*Config, error) {
	cfg := Default(network)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}
	fileValues, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.DBDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
