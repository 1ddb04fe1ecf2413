package model

import "github.com/shopspring/decimal"

// FeeTier is a swap fee in parts per million.
type FeeTier int32

const (
	FeeTier500   FeeTier = 500
	FeeTier3000  FeeTier = 3000
	FeeTier10000 FeeTier = 10000
)

var tierSpacing = map[FeeTier]int32{
	FeeTier500:   10,
	FeeTier3000:  60,
	FeeTier10000: 200,
}

var feeDenominator = decimal.NewFromInt(1_000_000)

// Supported reports whether the fee tier is one of the fixed set.
func (f FeeTier) Supported() bool {
	_, ok := tierSpacing[f]
	return ok
}

// TickSpacing returns the tick spacing mapped to the fee tier.
func (f FeeTier) TickSpacing() int32 {
	return tierSpacing[f]
}

// Fraction returns the fee as a decimal fraction, e.g. 3000 -> 0.003.
func (f FeeTier) Fraction() decimal.Decimal {
	return decimal.NewFromInt(int64(f)).Div(feeDenominator)
}
