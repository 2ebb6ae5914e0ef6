package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// RPC
	case "rpc.enabled", "rpc":
		cfg.RPC.Enabled = parseBool(value)
	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Port = port
	case "rpc.allowed":
		cfg.RPC.AllowedIPs = parseStringList(value)
	case "rpc.cors":
		cfg.RPC.CORSOrigins = parseStringList(value)
	case "rpc.metrics":
		cfg.RPC.Metrics = parseBool(value)

	// Ledger
	case "ledger.peers":
		cfg.Ledger.Peers = parseStringList(value)
	case "ledger.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Ledger.Timeout = d
	case "ledger.offline", "offline":
		cfg.Ledger.Offline = parseBool(value)
	case "ledger.fee":
		fee, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Ledger.DefaultFee = fee
	case "ledger.blockversion":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Ledger.BlockVersion = uint32(v)

	// Balance
	case "balance.maxinputs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Balance.MaxInputs = n
	case "balance.depth":
		d, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Balance.DefaultDepth = d

	// Wallet
	case "wallet.kdf.memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFMemory = uint32(n)
	case "wallet.kdf.iterations":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFIterations = uint32(n)
	case "wallet.kdf.threads":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.Wallet.KDFThreads = uint8(n)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# Klingnet Wallet Daemon Configuration

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.klingnet-wallet)
# datadir = ~/.klingnet-wallet

# ============================================================================
# RPC Server
# ============================================================================

rpc.enabled = true
rpc.addr = 127.0.0.1
rpc.port = ` + defaultRPCPort(network) + `
rpc.allowed = 127.0.0.1
# CORS allowed origins ("*" for all)
# rpc.cors = http://localhost:3000
# Expose Prometheus metrics on /metrics
rpc.metrics = true

# ============================================================================
# Ledger
# ============================================================================

# Full node JSON-RPC endpoints polled for the network height (comma-separated)
# ledger.peers = http://127.0.0.1:8545
ledger.timeout = 10s

# Report the local block count as the network height
# ledger.offline = false

# Fee in picoMOB used until a peer reports one
ledger.fee = 400000000
# ledger.blockversion = 0

# ============================================================================
# Balances
# ============================================================================

# Inputs a single transaction may spend (bounds max spendable)
balance.maxinputs = 16
# Confirmations before a spend counts as final
balance.depth = 0

# ============================================================================
# Key sealing (Argon2id)
# ============================================================================

# wallet.kdf.memory = 65536
# wallet.kdf.iterations = 3
# wallet.kdf.threads = 4

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}

func defaultRPCPort(network NetworkType) string {
	if network == Testnet {
		return "9190"
	}
	return "9090"
}
