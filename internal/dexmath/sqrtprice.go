package dexmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrLiquidityZero        = errors.New("liquidity must be greater than zero")
	ErrSqrtPriceZero        = errors.New("sqrt price must be greater than zero")
	ErrPriceUnderflow       = errors.New("price underflow")
	ErrInsufficientReserves = errors.New("amount exceeds available reserves")
)

// GetAmount0Delta returns the token0 amount between two sqrt prices for the
// given liquidity: liquidity * (sqrtB - sqrtA) / (sqrtB * sqrtA).
func GetAmount0Delta(sqrtA, sqrtB, liquidity decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	if !sqrtA.IsPositive() {
		return zero, ErrSqrtPriceZero
	}
	numerator := liquidity.Mul(sqrtB.Sub(sqrtA))
	denominator := sqrtB.Mul(sqrtA)
	if roundUp {
		return DivCeil(numerator, denominator), nil
	}
	return DivFloor(numerator, denominator), nil
}

// GetAmount1Delta returns the token1 amount between two sqrt prices for the
// given liquidity: liquidity * (sqrtB - sqrtA).
func GetAmount1Delta(sqrtA, sqrtB, liquidity decimal.Decimal, roundUp bool) decimal.Decimal {
	if sqrtA.GreaterThan(sqrtB) {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	product := liquidity.Mul(sqrtB.Sub(sqrtA))
	if roundUp {
		return product.RoundCeil(Precision)
	}
	return product.RoundFloor(Precision)
}

// GetNextSqrtPriceFromInput returns the price after consuming amountIn of the
// swap's input token.
func GetNextSqrtPriceFromInput(sqrtP, liquidity, amountIn decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if !sqrtP.IsPositive() {
		return zero, ErrSqrtPriceZero
	}
	if !liquidity.IsPositive() {
		return zero, ErrLiquidityZero
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount0(sqrtP, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1(sqrtP, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput returns the price after paying out amountOut of
// the swap's output token.
func GetNextSqrtPriceFromOutput(sqrtP, liquidity, amountOut decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if !sqrtP.IsPositive() {
		return zero, ErrSqrtPriceZero
	}
	if !liquidity.IsPositive() {
		return zero, ErrLiquidityZero
	}
	if zeroForOne {
		return nextSqrtPriceFromAmount1(sqrtP, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0(sqrtP, liquidity, amountOut, false)
}

// nextSqrtPriceFromAmount0 rounds up so the price never moves further than the
// amount strictly pays for.
func nextSqrtPriceFromAmount0(sqrtP, liquidity, amount decimal.Decimal, add bool) (decimal.Decimal, error) {
	if amount.IsZero() {
		return sqrtP, nil
	}
	numerator := liquidity.Mul(sqrtP)
	if add {
		denominator := liquidity.Add(amount.Mul(sqrtP))
		return DivCeil(numerator, denominator), nil
	}
	denominator := liquidity.Sub(amount.Mul(sqrtP))
	if !denominator.IsPositive() {
		return zero, ErrInsufficientReserves
	}
	return DivCeil(numerator, denominator), nil
}

// nextSqrtPriceFromAmount1 rounds down so the price never moves further than
// the amount strictly pays for.
func nextSqrtPriceFromAmount1(sqrtP, liquidity, amount decimal.Decimal, add bool) (decimal.Decimal, error) {
	if add {
		return sqrtP.Add(DivFloor(amount, liquidity)), nil
	}
	next := sqrtP.Sub(DivCeil(amount, liquidity))
	if !next.IsPositive() {
		return zero, ErrPriceUnderflow
	}
	return next, nil
}
