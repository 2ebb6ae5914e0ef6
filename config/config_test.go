package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Testnet(t *testing.T) {
	cfg := Default(Testnet)
	if cfg.Network != Testnet {
		t.Fatalf("network = %q, want testnet", cfg.Network)
	}
	if cfg.RPC.Port == DefaultMainnet().RPC.Port {
		t.Error("testnet should not share the mainnet RPC port")
	}
	if cfg.Ledger.DefaultFee != DefaultFeePmob {
		t.Errorf("fee = %d, want %d", cfg.Ledger.DefaultFee, DefaultFeePmob)
	}
	if cfg.Balance.MaxInputs != 16 {
		t.Errorf("max inputs = %d, want 16", cfg.Balance.MaxInputs)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFile_ParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletd.conf")
	content := `# comment
network = testnet
rpc.port = 1234
ledger.peers = "http://a:1, http://b:2"
ledger.timeout = 3s
ledger.fee = 500
balance.depth = 2
log.json = yes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("network = %q", cfg.Network)
	}
	if cfg.RPC.Port != 1234 {
		t.Errorf("rpc.port = %d", cfg.RPC.Port)
	}
	if len(cfg.Ledger.Peers) != 2 || cfg.Ledger.Peers[1] != "http://b:2" {
		t.Errorf("ledger.peers = %v", cfg.Ledger.Peers)
	}
	if cfg.Ledger.Timeout != 3*time.Second {
		t.Errorf("ledger.timeout = %v", cfg.Ledger.Timeout)
	}
	if cfg.Ledger.DefaultFee != 500 {
		t.Errorf("ledger.fee = %d", cfg.Ledger.DefaultFee)
	}
	if cfg.Balance.DefaultDepth != 2 {
		t.Errorf("balance.depth = %d", cfg.Balance.DefaultDepth)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no values, got %v", values)
	}
}

func TestLoadFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	if err := os.WriteFile(path, []byte("rpc.port\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"ledger.fee": "lots"})
	if err == nil {
		t.Fatal("expected error for non-numeric fee")
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	f, err := parseArgs([]string{"--testnet", "--offline", "--depth=0", "--peers=http://x:1", "--metrics=false"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	cfg := DefaultMainnet()
	cfg.Balance.DefaultDepth = 5
	ApplyFlags(cfg, f)

	if cfg.Network != Testnet {
		t.Errorf("network = %q", cfg.Network)
	}
	if !cfg.Ledger.Offline {
		t.Error("offline should be set")
	}
	if cfg.Balance.DefaultDepth != 0 {
		t.Errorf("explicit --depth=0 should override, got %d", cfg.Balance.DefaultDepth)
	}
	if cfg.RPC.Metrics {
		t.Error("metrics should be disabled")
	}
	if len(cfg.Ledger.Peers) != 1 {
		t.Errorf("peers = %v", cfg.Ledger.Peers)
	}
}

func TestParseArgs_RejectsTrailingFlag(t *testing.T) {
	if _, err := parseArgs([]string{"stray", "--offline"}); err == nil {
		t.Fatal("expected error for flag after positional argument")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "regtest" }},
		{"bad port", func(c *Config) { c.RPC.Port = 70000 }},
		{"zero inputs", func(c *Config) { c.Balance.MaxInputs = 0 }},
		{"peer not url", func(c *Config) { c.Ledger.Peers = []string{"localhost"} }},
		{"duplicate peer", func(c *Config) { c.Ledger.Peers = []string{"http://a:1", "http://a:1"} }},
		{"kdf threads", func(c *Config) { c.Wallet.KDFThreads = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnsureDataDirs_WritesLoadableConfig(t *testing.T) {
	cfg := DefaultTestnet()
	cfg.DataDir = t.TempDir()

	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs: %v", err)
	}
	if _, err := os.Stat(cfg.DBDir()); err != nil {
		t.Errorf("db dir missing: %v", err)
	}

	loaded, err := LoadFromFile(cfg.DataDir, Testnet)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Network != Testnet {
		t.Errorf("network = %q", loaded.Network)
	}
	if loaded.RPC.Port != 9190 {
		t.Errorf("rpc.port = %d, want 9190", loaded.RPC.Port)
	}
	if loaded.Ledger.DefaultFee != DefaultFeePmob {
		t.Errorf("fee = %d", loaded.Ledger.DefaultFee)
	}
}

func TestRPCListenAddr(t *testing.T) {
	cfg := DefaultMainnet()
	if got := cfg.RPCListenAddr(); got != "127.0.0.1:9090" {
		t.Errorf("RPCListenAddr = %q", got)
	}
}
