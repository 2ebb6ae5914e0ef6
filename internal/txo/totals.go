package txo

import "lukechampine.com/uint128"

// Totals accumulates output values per lifecycle state with 128-bit sums.
type Totals [numStatuses]uint128.Uint128

// Add credits value to status.
func (t *Totals) Add(status Status, value uint64) {
	t[status] = t[status].Add64(value)
}

// Get returns the sum for status.
func (t Totals) Get(status Status) uint128.Uint128 {
	return t[status]
}

// Plus returns the element-wise sum of two totals.
func (t Totals) Plus(o Totals) Totals {
	var out Totals
	for i := range t {
		out[i] = t[i].Add(o[i])
	}
	return out
}

// Sum returns the total across all states.
func (t Totals) Sum() uint128.Uint128 {
	sum := uint128.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// ZeroAccountScoped clears the states that only exist at account scope.
func (t Totals) ZeroAccountScoped() Totals {
	t[StatusSecreted] = uint128.Zero
	t[StatusOrphaned] = uint128.Zero
	return t
}
