// Package ledger reports block heights, fees and the block version the
// wallet reconciles against.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
)

// ErrUnavailable is returned when no height source can be reached.
var ErrUnavailable = errors.New("ledger unavailable")

// Oracle answers height and fee questions about the ledger.
type Oracle interface {
	// LocalBlockCount is the number of blocks synced into local storage.
	LocalBlockCount() (uint64, error)
	// NetworkBlockCount is the best block count reported by the network.
	NetworkBlockCount(ctx context.Context) (uint64, error)
	// CurrentFee is the fee, in picoMOB, a transaction pays today.
	CurrentFee() uint64
	// CurrentBlockVersion is the block version new transactions target.
	CurrentBlockVersion() uint32
}

// Config configures a Ledger.
type Config struct {
	Peers        []string
	Timeout      time.Duration
	Offline      bool
	DefaultFee   uint64
	BlockVersion uint32
}

// Ledger combines the local block store with the configured peers.
type Ledger struct {
	store   *Store
	peers   *PeerSource
	offline bool
	logger  zerolog.Logger

	fee     atomic.Uint64
	version atomic.Uint32
}

// New creates a Ledger over db. In offline mode, or with no peers, the
// network block count is the local block count.
func New(cfg Config, db storage.DB) (*Ledger, error) {
	store := NewStore(db)
	l := &Ledger{
		store:   store,
		offline: cfg.Offline || len(cfg.Peers) == 0,
		logger:  klog.WithComponent("ledger"),
	}
	l.fee.Store(cfg.DefaultFee)

	version, err := store.BlockVersion()
	if err != nil {
		return nil, fmt.Errorf("load block version: %w", err)
	}
	if version < cfg.BlockVersion {
		version = cfg.BlockVersion
	}
	l.version.Store(version)

	if !l.offline {
		l.peers = NewPeerSource(cfg.Peers, cfg.Timeout)
	}
	return l, nil
}

// Store returns the local block store.
func (l *Ledger) Store() *Store {
	return l.store
}

// LocalBlockCount implements Oracle.
func (l *Ledger) LocalBlockCount() (uint64, error) {
	n, err := l.store.NumBlocks()
	if err != nil {
		return 0, fmt.Errorf("ledger local block count: %w", err)
	}
	return n, nil
}

// NetworkBlockCount implements Oracle.
func (l *Ledger) NetworkBlockCount(ctx context.Context) (uint64, error) {
	if l.offline {
		return l.LocalBlockCount()
	}
	info, err := l.peers.Poll(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Msg("Network height unavailable")
		return 0, err
	}
	if info.FeePmob != nil {
		l.fee.Store(*info.FeePmob)
	}
	if info.BlockVersion != nil && *info.BlockVersion > l.version.Load() {
		l.version.Store(*info.BlockVersion)
	}
	return info.Height, nil
}

// CurrentFee implements Oracle.
func (l *Ledger) CurrentFee() uint64 {
	return l.fee.Load()
}

// CurrentBlockVersion implements Oracle.
func (l *Ledger) CurrentBlockVersion() uint32 {
	return l.version.Load()
}

// AppendBlocks records that the local store now holds n blocks.
func (l *Ledger) AppendBlocks(n uint64) error {
	return l.store.SetNumBlocks(n)
}
