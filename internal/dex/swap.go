package dex

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tickswap/internal/dexmath"
	"tickswap/internal/model"
)

// SwapResult is the outcome of one swap: both token flows, the final pool
// state, and the protocol's cut of the fees.
type SwapResult struct {
	Delta0      Delta
	Delta1      Delta
	SqrtPrice   decimal.Decimal
	Tick        int32
	ProtocolFee decimal.Decimal
}

type swapState struct {
	amountRemaining  decimal.Decimal
	amountCalculated decimal.Decimal
	sqrtPrice        decimal.Decimal
	tick             int32
	liquidity        decimal.Decimal
	feeGrowthGlobal  decimal.Decimal
	protocolFee      decimal.Decimal
}

// Swap walks initialized ticks from the current price toward the limit,
// filling amountSpecified step by step. Positive amountSpecified is
// exact-input, negative exact-output. The fee-growth accumulator of the input
// token is the only one a swap advances.
func (p *Pool) Swap(ticks *TickKeeper, zeroForOne bool, amountSpecified, sqrtPriceLimit decimal.Decimal) (SwapResult, error) {
	if amountSpecified.IsZero() {
		return SwapResult{}, model.Validationf("swap amount must be non-zero")
	}
	if zeroForOne {
		if sqrtPriceLimit.GreaterThanOrEqual(p.SqrtPrice) || sqrtPriceLimit.LessThan(dexmath.MinSqrtPrice) {
			return SwapResult{}, model.Validationf("sqrt price limit %s must be below current price %s and at least %s", sqrtPriceLimit, p.SqrtPrice, dexmath.MinSqrtPrice)
		}
	} else {
		if sqrtPriceLimit.LessThanOrEqual(p.SqrtPrice) || sqrtPriceLimit.GreaterThan(dexmath.MaxSqrtPrice) {
			return SwapResult{}, model.Validationf("sqrt price limit %s must be above current price %s and at most %s", sqrtPriceLimit, p.SqrtPrice, dexmath.MaxSqrtPrice)
		}
	}

	exactInput := amountSpecified.IsPositive()
	state := swapState{
		amountRemaining: amountSpecified,
		sqrtPrice:       p.SqrtPrice,
		tick:            p.Tick,
		liquidity:       p.Liquidity,
	}
	if zeroForOne {
		state.feeGrowthGlobal = p.FeeGrowthGlobal0
	} else {
		state.feeGrowthGlobal = p.FeeGrowthGlobal1
	}
	spacing := p.Fee.TickSpacing()

	for !state.amountRemaining.IsZero() && !state.sqrtPrice.Equal(sqrtPriceLimit) {
		tickNext, initialized := p.nextInitializedTickWithinOneWord(state.tick, spacing, zeroForOne)
		if tickNext < dexmath.MinTick || tickNext > dexmath.MaxTick {
			return SwapResult{}, model.Conflictf("insufficient liquidity: no initialized tick beyond %d", state.tick)
		}
		sqrtPriceNext, err := dexmath.TickToSqrtPrice(tickNext)
		if err != nil {
			return SwapResult{}, err
		}

		target := sqrtPriceNext
		if (zeroForOne && sqrtPriceNext.LessThan(sqrtPriceLimit)) ||
			(!zeroForOne && sqrtPriceNext.GreaterThan(sqrtPriceLimit)) {
			target = sqrtPriceLimit
		}

		sqrtPriceStart := state.sqrtPrice
		step, err := dexmath.ComputeSwapStep(state.sqrtPrice, target, state.liquidity, state.amountRemaining, int32(p.Fee))
		if err != nil {
			return SwapResult{}, fmt.Errorf("swap step at tick %d: %w", state.tick, err)
		}
		state.sqrtPrice = step.SqrtPriceNext

		if exactInput {
			state.amountRemaining = state.amountRemaining.Sub(step.AmountIn.Add(step.FeeAmount))
			state.amountCalculated = state.amountCalculated.Sub(step.AmountOut)
			// rounding may overshoot zero by a final decimal place; the
			// remaining amount must not change sign mid-swap
			if state.amountRemaining.IsNegative() {
				state.amountRemaining = zero
			}
		} else {
			state.amountRemaining = state.amountRemaining.Add(step.AmountOut)
			state.amountCalculated = state.amountCalculated.Add(step.AmountIn.Add(step.FeeAmount))
			if state.amountRemaining.IsPositive() {
				state.amountRemaining = zero
			}
		}

		feeAmount := step.FeeAmount
		if p.ProtocolFee.IsPositive() {
			cut := feeAmount.Mul(p.ProtocolFee)
			state.protocolFee = state.protocolFee.Add(cut)
			feeAmount = feeAmount.Sub(cut)
		}
		if state.liquidity.IsPositive() {
			state.feeGrowthGlobal = state.feeGrowthGlobal.Add(dexmath.DivFloor(feeAmount, state.liquidity))
		}

		switch {
		case state.sqrtPrice.Equal(sqrtPriceNext):
			if initialized {
				var net decimal.Decimal
				if zeroForOne {
					net, err = ticks.Cross(tickNext, state.feeGrowthGlobal, p.FeeGrowthGlobal1)
				} else {
					net, err = ticks.Cross(tickNext, p.FeeGrowthGlobal0, state.feeGrowthGlobal)
				}
				if err != nil {
					return SwapResult{}, err
				}
				if zeroForOne {
					net = net.Neg()
				}
				state.liquidity, err = dexmath.AddLiquidityDelta(state.liquidity, net)
				if err != nil {
					return SwapResult{}, fmt.Errorf("crossing tick %d: %w", tickNext, err)
				}
			}
			if zeroForOne {
				state.tick = tickNext - 1
			} else {
				state.tick = tickNext
			}
		case !state.sqrtPrice.Equal(sqrtPriceStart):
			state.tick, err = dexmath.SqrtPriceToTick(state.sqrtPrice)
			if err != nil {
				return SwapResult{}, err
			}
		}
	}

	var amount0, amount1 decimal.Decimal
	if zeroForOne == exactInput {
		amount0 = amountSpecified.Sub(state.amountRemaining)
		amount1 = state.amountCalculated
	} else {
		amount0 = state.amountCalculated
		amount1 = amountSpecified.Sub(state.amountRemaining)
	}

	p.SqrtPrice = state.sqrtPrice
	p.Tick = state.tick
	p.Liquidity = state.liquidity
	if zeroForOne {
		p.FeeGrowthGlobal0 = state.feeGrowthGlobal
		p.ProtocolFees0 = p.ProtocolFees0.Add(state.protocolFee)
	} else {
		p.FeeGrowthGlobal1 = state.feeGrowthGlobal
		p.ProtocolFees1 = p.ProtocolFees1.Add(state.protocolFee)
	}

	return SwapResult{
		Delta0:      deltaFromSigned(amount0),
		Delta1:      deltaFromSigned(amount1),
		SqrtPrice:   p.SqrtPrice,
		Tick:        p.Tick,
		ProtocolFee: state.protocolFee,
	}, nil
}
