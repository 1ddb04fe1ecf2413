package dexmath

import "github.com/shopspring/decimal"

// SwapStep is the outcome of a single-tick-range fill.
type SwapStep struct {
	SqrtPriceNext decimal.Decimal
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
	FeeAmount     decimal.Decimal
}

var ppmDenominator = decimal.NewFromInt(1_000_000)

// ComputeSwapStep fills as much of amountRemaining as the range between the
// current and target sqrt prices allows, at the given liquidity and fee (in
// parts per million). amountRemaining >= 0 means exact-input (fee taken from
// the input), negative means exact-output.
//
// When the fill does not reach the target price on an exact-input step, the
// entire leftover input becomes the fee, so the caller's remaining amount hits
// exactly zero and the swap loop terminates.
func ComputeSwapStep(sqrtCurrent, sqrtTarget, liquidity, amountRemaining decimal.Decimal, feePips int32) (SwapStep, error) {
	var (
		step SwapStep
		err  error
	)
	zeroForOne := sqrtCurrent.GreaterThanOrEqual(sqrtTarget)
	exactIn := !amountRemaining.IsNegative()
	fee := decimal.NewFromInt(int64(feePips))
	feeComplement := ppmDenominator.Sub(fee)

	if exactIn {
		amountRemainingLessFee := MulDivFloor(amountRemaining, feeComplement, ppmDenominator)
		if zeroForOne {
			step.AmountIn, err = GetAmount0Delta(sqrtTarget, sqrtCurrent, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		} else {
			step.AmountIn = GetAmount1Delta(sqrtCurrent, sqrtTarget, liquidity, true)
		}
		if amountRemainingLessFee.GreaterThanOrEqual(step.AmountIn) {
			step.SqrtPriceNext = sqrtTarget
		} else {
			step.SqrtPriceNext, err = GetNextSqrtPriceFromInput(sqrtCurrent, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		amountRemainingAbs := amountRemaining.Neg()
		if zeroForOne {
			step.AmountOut = GetAmount1Delta(sqrtTarget, sqrtCurrent, liquidity, false)
		} else {
			step.AmountOut, err = GetAmount0Delta(sqrtCurrent, sqrtTarget, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if amountRemainingAbs.GreaterThanOrEqual(step.AmountOut) {
			step.SqrtPriceNext = sqrtTarget
		} else {
			step.SqrtPriceNext, err = GetNextSqrtPriceFromOutput(sqrtCurrent, liquidity, amountRemainingAbs, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	reachedTarget := sqrtTarget.Equal(step.SqrtPriceNext)

	// Recompute amounts against the price actually reached.
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.AmountIn, err = GetAmount0Delta(step.SqrtPriceNext, sqrtCurrent, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut = GetAmount1Delta(step.SqrtPriceNext, sqrtCurrent, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.AmountIn = GetAmount1Delta(sqrtCurrent, step.SqrtPriceNext, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut, err = GetAmount0Delta(sqrtCurrent, step.SqrtPriceNext, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	if !exactIn {
		amountRemainingAbs := amountRemaining.Neg()
		if step.AmountOut.GreaterThan(amountRemainingAbs) {
			step.AmountOut = amountRemainingAbs
		}
	}

	if exactIn && !reachedTarget {
		step.FeeAmount = amountRemaining.Sub(step.AmountIn)
	} else {
		step.FeeAmount = MulDivCeil(step.AmountIn, fee, feeComplement)
	}
	return step, nil
}
