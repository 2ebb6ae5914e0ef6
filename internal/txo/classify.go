package txo

import (
	"errors"
	"fmt"
)

// ErrInconsistentState is returned when a record's stored fields cannot
// belong to any single lifecycle state.
var ErrInconsistentState = errors.New("inconsistent txo state")

// Record is the part of a stored output that classification depends on.
type Record struct {
	Value              uint64
	SubaddressIndex    *uint64
	ReceivedBlockIndex *uint64
	SpentBlockIndex    *uint64
	// PendingSpend is set when a consuming transaction was submitted but
	// has not been observed in a block yet.
	PendingSpend bool
	// Minted is set on outputs created by the account's own transactions.
	Minted bool
}

// Subaddresses is the set of subaddress indexes an account tracks.
type Subaddresses map[uint64]struct{}

// NewSubaddresses builds a set from indexes.
func NewSubaddresses(indexes ...uint64) Subaddresses {
	s := make(Subaddresses, len(indexes))
	for _, i := range indexes {
		s[i] = struct{}{}
	}
	return s
}

// Contains reports whether index is tracked. A nil index is never tracked.
func (s Subaddresses) Contains(index *uint64) bool {
	if index == nil {
		return false
	}
	_, ok := s[*index]
	return ok
}

// Context is the per-query input to classification.
type Context struct {
	Tracked     Subaddresses
	LocalHeight uint64
	// Depth is the number of blocks a spend must be buried under before
	// it counts as final. Zero trusts the ledger's own finality.
	Depth uint64
}

// final reports whether a spend at blockIndex is at or before
// LocalHeight - Depth.
func (c Context) final(blockIndex uint64) bool {
	if c.Depth > c.LocalHeight {
		return false
	}
	return blockIndex <= c.LocalHeight-c.Depth
}

// Classify maps a record onto exactly one lifecycle state. Rules apply in
// order: secreted, spent, pending, unspent, orphaned.
func Classify(r Record, ctx Context) (Status, error) {
	hasSpend := r.SpentBlockIndex != nil || r.PendingSpend

	if r.ReceivedBlockIndex == nil {
		if !r.Minted {
			return 0, fmt.Errorf("%w: output neither received nor minted", ErrInconsistentState)
		}
		if hasSpend {
			return 0, fmt.Errorf("%w: spend recorded on an output that was never received", ErrInconsistentState)
		}
		return StatusSecreted, nil
	}

	tracked := ctx.Tracked.Contains(r.SubaddressIndex)

	if hasSpend {
		if !tracked {
			return 0, fmt.Errorf("%w: spend recorded on an orphaned output", ErrInconsistentState)
		}
		if r.SpentBlockIndex != nil {
			if *r.SpentBlockIndex < *r.ReceivedBlockIndex {
				return 0, fmt.Errorf("%w: spent at block %d before received at block %d",
					ErrInconsistentState, *r.SpentBlockIndex, *r.ReceivedBlockIndex)
			}
			if ctx.final(*r.SpentBlockIndex) {
				return StatusSpent, nil
			}
		}
		return StatusPending, nil
	}

	if tracked {
		return StatusUnspent, nil
	}
	return StatusOrphaned, nil
}
