// Package node assembles the wallet daemon: storage, ledger oracle,
// account and balance services, and the JSON-RPC server. It can be
// embedded in any binary.
package node

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/account"
	"github.com/Klingon-tech/klingnet-wallet/internal/balance"
	"github.com/Klingon-tech/klingnet-wallet/internal/ledger"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpc"
	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Key namespaces inside the single badger database.
var (
	walletPrefix = []byte("wallet/")
	ledgerPrefix = []byte("ledger/")
)

// statusInterval is how often the sync gap is logged.
const statusInterval = time.Minute

// Node is a fully-initialized wallet daemon.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Storage
	db       storage.DB
	walletDB *walletdb.Store

	// Services
	ledger   *ledger.Ledger
	balances *balance.Service
	accounts *account.Service

	// RPC
	rpcServer *rpc.Server

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates and initializes a Node. It performs all setup steps
// (logger, storage, services, RPC) but does NOT start the RPC listener or
// background goroutines. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Address version ──────────────────────────────────────────
	if cfg.Network == config.Testnet {
		types.SetAddressVersion(types.TestnetAddressVersion)
	} else {
		types.SetAddressVersion(types.MainnetAddressVersion)
	}

	// ── 2. Init logger ──────────────────────────────────────────────
	logFile := expandHome(cfg.Log.File)
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "walletd.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Bool("offline", cfg.Ledger.Offline).
		Int("peers", len(cfg.Ledger.Peers)).
		Msg("Starting Klingnet wallet daemon")

	// ── 3. Open storage ─────────────────────────────────────────────
	dbDir := expandHome(cfg.DBDir())
	db, err := storage.NewBadger(dbDir)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", dbDir, err)
	}
	logger.Info().Str("path", dbDir).Msg("Database opened")

	n, err := newWithDB(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return n, nil
}

// newWithDB wires the services over an already opened database.
func newWithDB(cfg *config.Config, db storage.DB) (*Node, error) {
	logger := klog.WithComponent("node")

	walletDB := walletdb.New(storage.NewPrefixDB(db, walletPrefix))

	// ── 4. Ledger oracle ────────────────────────────────────────────
	led, err := ledger.New(ledger.Config{
		Peers:        cfg.Ledger.Peers,
		Timeout:      cfg.Ledger.Timeout,
		Offline:      cfg.Ledger.Offline,
		DefaultFee:   cfg.Ledger.DefaultFee,
		BlockVersion: cfg.Ledger.BlockVersion,
	}, storage.NewPrefixDB(db, ledgerPrefix))
	if err != nil {
		return nil, fmt.Errorf("create ledger: %w", err)
	}
	local, err := led.LocalBlockCount()
	if err != nil {
		return nil, err
	}
	logger.Info().
		Uint64("local_blocks", local).
		Uint64("fee_pmob", led.CurrentFee()).
		Uint32("block_version", led.CurrentBlockVersion()).
		Msg("Ledger ready")

	// ── 5. Services ─────────────────────────────────────────────────
	balances := balance.NewService(walletDB, led, cfg.Balance.MaxInputs)
	accounts := account.NewService(walletDB, kdfParams(cfg.Wallet))

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		walletDB: walletDB,
		ledger:   led,
		balances: balances,
		accounts: accounts,
		ctx:      ctx,
		cancel:   cancel,
	}

	// ── 6. RPC ──────────────────────────────────────────────────────
	if cfg.RPC.Enabled {
		n.rpcServer = rpc.New(cfg.RPCListenAddr(), balances, accounts, cfg.RPC)
		n.rpcServer.SetDefaultDepth(cfg.Balance.DefaultDepth)
	}

	return n, nil
}

// Start binds the RPC listener and starts the status loop.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return err
		}
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.runStatusLoop(statusInterval)
	}()

	n.logger.Info().
		Str("rpc", n.RPCAddr()).
		Bool("metrics", n.cfg.RPC.Metrics).
		Msg("Wallet daemon started successfully")
	return nil
}

// Stop shuts down the RPC server and closes the database.
func (n *Node) Stop() {
	n.cancel()
	n.wg.Wait()

	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("RPC shutdown")
		}
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the RPC listen address, or "" when RPC is disabled.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Balances returns the balance service.
func (n *Node) Balances() *balance.Service { return n.balances }

// Accounts returns the account service.
func (n *Node) Accounts() *account.Service { return n.accounts }

// Ledger returns the ledger oracle.
func (n *Node) Ledger() *ledger.Ledger { return n.ledger }

// WalletDB returns the wallet store.
func (n *Node) WalletDB() *walletdb.Store { return n.walletDB }

// runStatusLoop periodically logs how far accounts lag the network.
func (n *Node) runStatusLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			n.logStatus()
		}
	}
}

func (n *Node) logStatus() {
	ctx, cancel := context.WithTimeout(n.ctx, 30*time.Second)
	defer cancel()

	status, err := n.balances.WalletStatus(ctx)
	if err != nil {
		n.logger.Warn().Err(err).Msg("Wallet status unavailable")
		return
	}
	n.logger.Info().
		Uint64("network_height", status.NetworkBlockHeight).
		Uint64("local_height", status.LocalBlockHeight).
		Uint64("min_synced", status.MinSyncedBlockIndex).
		Int("accounts", len(status.AccountIDs)).
		Int("view_only", len(status.ViewOnlyAccountIDs)).
		Msg("Wallet status")
}
