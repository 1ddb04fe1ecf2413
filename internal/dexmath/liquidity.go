package dexmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrLiquidityUnderflow = errors.New("liquidity delta exceeds available liquidity")

// DustEpsilon is the threshold below which residual position balances are
// treated as zero and cleaned up.
var DustEpsilon = decimal.New(1, -8)

// LiquidityForAmount0 returns the liquidity purchasable with amount0 between
// two sqrt prices.
func LiquidityForAmount0(sqrtA, sqrtB, amount0 decimal.Decimal) decimal.Decimal {
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	return MulDivFloor(amount0.Mul(sqrtA), sqrtB, sqrtB.Sub(sqrtA))
}

// LiquidityForAmount1 returns the liquidity purchasable with amount1 between
// two sqrt prices.
func LiquidityForAmount1(sqrtA, sqrtB, amount1 decimal.Decimal) decimal.Decimal {
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	return DivFloor(amount1, sqrtB.Sub(sqrtA))
}

// LiquidityForAmounts returns the maximum liquidity both token amounts can
// fund between the range bounds at the current price. When the price is inside
// the range the smaller of the two single-token liquidities wins.
func LiquidityForAmounts(sqrtCurrent, sqrtA, sqrtB, amount0, amount1 decimal.Decimal) decimal.Decimal {
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	switch {
	case sqrtCurrent.LessThanOrEqual(sqrtA):
		return LiquidityForAmount0(sqrtA, sqrtB, amount0)
	case sqrtCurrent.GreaterThanOrEqual(sqrtB):
		return LiquidityForAmount1(sqrtA, sqrtB, amount1)
	default:
		l0 := LiquidityForAmount0(sqrtCurrent, sqrtB, amount0)
		l1 := LiquidityForAmount1(sqrtA, sqrtCurrent, amount1)
		if l0.LessThan(l1) {
			return l0
		}
		return l1
	}
}

// AddLiquidityDelta applies a signed liquidity change and rejects results
// below zero.
func AddLiquidityDelta(liquidity, delta decimal.Decimal) (decimal.Decimal, error) {
	next := liquidity.Add(delta)
	if next.IsNegative() {
		return zero, ErrLiquidityUnderflow
	}
	return next, nil
}
