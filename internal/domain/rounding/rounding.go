// Package rounding holds the one rounding rule used for every reported figure:
// half away from zero, applied to the shortest decimal form of the float.
// 2.25 rounds to 2.3 and -2.25 to -2.3 even though neither is exact in binary.
package rounding

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// OneDecimal rounds v to one decimal place.
func OneDecimal(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// ToHalf rounds v to the nearest multiple of 0.5.
func ToHalf(v float64) float64 {
	return decimal.NewFromFloat(v).Mul(two).Round(0).Div(two).InexactFloat64()
}

// Mean is the arithmetic mean of vals, 0 for none.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
