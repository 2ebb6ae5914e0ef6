package txo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idx(v uint64) *uint64 { return &v }

func TestClassify(t *testing.T) {
	tracked := NewSubaddresses(0, 1)

	tests := []struct {
		name   string
		record Record
		ctx    Context
		want   Status
	}{
		{
			name:   "received at tracked subaddress",
			record: Record{Value: 10, SubaddressIndex: idx(0), ReceivedBlockIndex: idx(3)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusUnspent,
		},
		{
			name:   "received at untracked subaddress",
			record: Record{Value: 10, SubaddressIndex: idx(3), ReceivedBlockIndex: idx(3)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusOrphaned,
		},
		{
			name:   "received with unknown subaddress",
			record: Record{Value: 10, ReceivedBlockIndex: idx(3)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusOrphaned,
		},
		{
			name:   "spent at depth zero",
			record: Record{Value: 10, SubaddressIndex: idx(1), ReceivedBlockIndex: idx(3), SpentBlockIndex: idx(11)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusSpent,
		},
		{
			name:   "spent but too shallow",
			record: Record{Value: 10, SubaddressIndex: idx(1), ReceivedBlockIndex: idx(3), SpentBlockIndex: idx(11)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12, Depth: 5},
			want:   StatusPending,
		},
		{
			name:   "spent exactly at depth boundary",
			record: Record{Value: 10, SubaddressIndex: idx(1), ReceivedBlockIndex: idx(3), SpentBlockIndex: idx(7)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12, Depth: 5},
			want:   StatusSpent,
		},
		{
			name:   "depth larger than local height",
			record: Record{Value: 10, SubaddressIndex: idx(1), ReceivedBlockIndex: idx(0), SpentBlockIndex: idx(0)},
			ctx:    Context{Tracked: tracked, LocalHeight: 2, Depth: 10},
			want:   StatusPending,
		},
		{
			name:   "submitted spend not yet in a block",
			record: Record{Value: 10, SubaddressIndex: idx(0), ReceivedBlockIndex: idx(3), PendingSpend: true},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusPending,
		},
		{
			name:   "minted and never received",
			record: Record{Value: 10, Minted: true},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusSecreted,
		},
		{
			name:   "minted change that came back",
			record: Record{Value: 10, Minted: true, SubaddressIndex: idx(1), ReceivedBlockIndex: idx(9)},
			ctx:    Context{Tracked: tracked, LocalHeight: 12},
			want:   StatusUnspent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.record, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_InconsistentState(t *testing.T) {
	tracked := NewSubaddresses(0)

	tests := []struct {
		name   string
		record Record
	}{
		{"spent and orphaned", Record{SubaddressIndex: idx(4), ReceivedBlockIndex: idx(1), SpentBlockIndex: idx(2)}},
		{"pending and orphaned", Record{ReceivedBlockIndex: idx(1), PendingSpend: true}},
		{"secreted with spend", Record{Minted: true, SpentBlockIndex: idx(2)}},
		{"neither received nor minted", Record{SubaddressIndex: idx(0)}},
		{"spent before received", Record{SubaddressIndex: idx(0), ReceivedBlockIndex: idx(5), SpentBlockIndex: idx(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.record, Context{Tracked: tracked, LocalHeight: 10})
			require.ErrorIs(t, err, ErrInconsistentState)
		})
	}
}

func TestTotals_Partition(t *testing.T) {
	tracked := NewSubaddresses(0)
	records := []Record{
		{Value: 5, SubaddressIndex: idx(0), ReceivedBlockIndex: idx(1)},
		{Value: 7, SubaddressIndex: idx(0), ReceivedBlockIndex: idx(1), SpentBlockIndex: idx(2)},
		{Value: 11, SubaddressIndex: idx(0), ReceivedBlockIndex: idx(1), SpentBlockIndex: idx(9)},
		{Value: 13, Minted: true},
		{Value: 17, SubaddressIndex: idx(2), ReceivedBlockIndex: idx(1)},
	}

	for depth := uint64(0); depth <= 12; depth++ {
		var totals Totals
		var sum uint64
		for _, r := range records {
			status, err := Classify(r, Context{Tracked: tracked, LocalHeight: 10, Depth: depth})
			require.NoError(t, err)
			totals.Add(status, r.Value)
			sum += r.Value
		}
		assert.True(t, totals.Sum().Equals64(sum), "depth %d: partition sum %s != %d", depth, totals.Sum(), sum)
	}
}

func TestTotals_WideAccumulation(t *testing.T) {
	var totals Totals
	max := ^uint64(0)
	totals.Add(StatusUnspent, max)
	totals.Add(StatusUnspent, max)

	got := totals.Get(StatusUnspent)
	assert.Equal(t, uint64(1), got.Hi)
	assert.Equal(t, max-1, got.Lo)
}

func TestTotals_ZeroAccountScoped(t *testing.T) {
	var totals Totals
	for i, s := range Statuses {
		totals.Add(s, uint64(i+1))
	}
	z := totals.ZeroAccountScoped()
	assert.True(t, z.Get(StatusSecreted).IsZero())
	assert.True(t, z.Get(StatusOrphaned).IsZero())
	assert.True(t, z.Get(StatusUnspent).Equals64(1))
	// Receiver is unchanged.
	assert.True(t, totals.Get(StatusOrphaned).Equals64(5))
}

func TestStatus_Names(t *testing.T) {
	for _, s := range Statuses {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.True(t, StatusOrphaned.AccountScoped())
	assert.False(t, StatusPending.AccountScoped())
	_, err := ParseStatus("burned")
	assert.Error(t, err)
}
