package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.Ledger.Timeout < 0 {
		return fmt.Errorf("ledger.timeout must not be negative")
	}
	if cfg.Balance.MaxInputs <= 0 {
		return fmt.Errorf("balance.maxinputs must be positive")
	}
	if cfg.Wallet.KDFIterations == 0 || cfg.Wallet.KDFThreads == 0 {
		return fmt.Errorf("wallet.kdf.iterations and wallet.kdf.threads must be positive")
	}
	if cfg.Wallet.KDFMemory < 8*uint32(cfg.Wallet.KDFThreads) {
		return fmt.Errorf("wallet.kdf.memory must be at least 8 KiB per thread")
	}
	return validatePeers(cfg.Ledger.Peers)
}

func validatePeers(peers []string) error {
	seen := make(map[string]struct{}, len(peers))
	for i, p := range peers {
		u, err := url.Parse(strings.TrimSpace(p))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("ledger.peers[%d] must be an http(s) URL", i)
		}
		key := u.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("ledger.peers has duplicate URL %q", key)
		}
		seen[key] = struct{}{}
		peers[i] = key
	}
	return nil
}
