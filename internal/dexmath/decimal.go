package dexmath

import "github.com/shopspring/decimal"

// Internal accounting precision in decimal places. Directional rounding at
// this granularity keeps per-step rounding in the pool's favor: amounts the
// pool receives round up, amounts it pays out round down.
const Precision int32 = 38

var zero = decimal.Zero

func DivFloor(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Precision+6).RoundFloor(Precision)
}

func DivCeil(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Precision+6).RoundCeil(Precision)
}

// MulDivFloor returns floor(a*b/c) at the accounting precision.
func MulDivFloor(a, b, c decimal.Decimal) decimal.Decimal {
	return DivFloor(a.Mul(b), c)
}

// MulDivCeil returns ceil(a*b/c) at the accounting precision.
func MulDivCeil(a, b, c decimal.Decimal) decimal.Decimal {
	return DivCeil(a.Mul(b), c)
}
