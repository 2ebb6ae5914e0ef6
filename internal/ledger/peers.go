package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
)

// PeerInfo is the subset of chain_getInfo the wallet uses.
type PeerInfo struct {
	Height       uint64  `json:"height"`
	FeePmob      *uint64 `json:"fee_pmob,omitempty"`
	BlockVersion *uint32 `json:"block_version,omitempty"`
}

type peer struct {
	client  *rpcclient.Client
	breaker *gobreaker.CircuitBreaker
}

// PeerSource polls a fixed set of peers for their chain tip.
type PeerSource struct {
	peers  []*peer
	logger zerolog.Logger
}

// NewPeerSource creates a source over the given peer URLs. Each peer sits
// behind its own circuit breaker.
func NewPeerSource(urls []string, timeout time.Duration) *PeerSource {
	ps := &PeerSource{logger: klog.WithComponent("ledger")}
	for _, url := range urls {
		ps.peers = append(ps.peers, &peer{
			client:  rpcclient.NewWithTimeout(url, timeout),
			breaker: newCircuitBreaker(url, ps.logger),
		})
	}
	return ps
}

func newCircuitBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Warn().Str("peer", name).Msg("Peer seems down, stop querying")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				logger.Info().Str("peer", name).Msg("Checking peer status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				logger.Info().Str("peer", name).Msg("Peer recovered")
			}
		},
	})
}

// Poll asks every peer for its tip and returns the highest one. It fails
// only when no peer answers.
func (ps *PeerSource) Poll(ctx context.Context) (*PeerInfo, error) {
	var (
		best *PeerInfo
		errs []error
	)
	for _, p := range ps.peers {
		res, err := p.breaker.Execute(func() (interface{}, error) {
			var info PeerInfo
			if err := p.client.CallContext(ctx, "chain_getInfo", nil, &info); err != nil {
				return nil, err
			}
			return &info, nil
		})
		if err != nil {
			ps.logger.Debug().Err(err).Str("peer", p.client.Endpoint()).Msg("Peer poll failed")
			errs = append(errs, fmt.Errorf("%s: %w", p.client.Endpoint(), err))
			continue
		}
		info := res.(*PeerInfo)
		if best == nil || info.Height > best.Height {
			best = info
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	}
	return best, nil
}
