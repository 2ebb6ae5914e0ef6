package main

import "github.com/shopspring/decimal"

// pmobExp is the decimal exponent between pmob and MOB.
const pmobExp = -12

// formatMOB renders a decimal pmob string as MOB with twelve fractional
// digits. Unparseable input is returned unchanged.
func formatMOB(pmob string) string {
	d, err := decimal.NewFromString(pmob)
	if err != nil {
		return pmob
	}
	return d.Shift(pmobExp).StringFixed(12)
}

