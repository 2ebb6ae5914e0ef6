package node

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// kdfParams converts the configured sealing costs, falling back to the
// wallet defaults for unset fields.
func kdfParams(cfg config.WalletConfig) wallet.KDFParams {
	p := wallet.DefaultKDFParams()
	if cfg.KDFMemory != 0 {
		p.Memory = cfg.KDFMemory
	}
	if cfg.KDFIterations != 0 {
		p.Iterations = cfg.KDFIterations
	}
	if cfg.KDFThreads != 0 {
		p.Threads = cfg.KDFThreads
	}
	return p
}
