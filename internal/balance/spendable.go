package balance

import (
	"sort"

	"lukechampine.com/uint128"
)

// maxSpendable returns the value of the maxInputs largest unspent
// outputs minus one flat fee, or zero when that would not cover the fee.
//
// This is a largest-first bound, not an optimum: if the real fee grows
// with the number of inputs, the figure can overstate what fits in one
// transaction near the input limit.
func maxSpendable(values []uint64, maxInputs int, fee uint64) uint128.Uint128 {
	sorted := make([]uint64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] > sorted[j]
	})
	if len(sorted) > maxInputs {
		sorted = sorted[:maxInputs]
	}

	total := uint128.Zero
	for _, v := range sorted {
		total = total.Add64(v)
	}
	if total.Cmp64(fee) <= 0 {
		return uint128.Zero
	}
	return total.Sub64(fee)
}
