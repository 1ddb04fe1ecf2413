package dex

import "github.com/shopspring/decimal"

// Delta is a token flow from the pool's point of view. The direction is part
// of the type so a swap cannot confuse what the pool receives with what it
// pays out.
type Delta struct {
	amount   decimal.Decimal
	receives bool
}

// DeltaIn tags an amount the pool receives.
func DeltaIn(amount decimal.Decimal) Delta {
	return Delta{amount: amount.Abs(), receives: true}
}

// DeltaOut tags an amount the pool pays out.
func DeltaOut(amount decimal.Decimal) Delta {
	return Delta{amount: amount.Abs(), receives: false}
}

// deltaFromSigned interprets a signed amount: positive means the pool
// receives, negative means it pays out.
func deltaFromSigned(d decimal.Decimal) Delta {
	if d.IsNegative() {
		return DeltaOut(d)
	}
	return DeltaIn(d)
}

// Amount returns the unsigned magnitude.
func (d Delta) Amount() decimal.Decimal {
	return d.amount
}

// PoolReceives reports the flow direction.
func (d Delta) PoolReceives() bool {
	return d.receives
}

// Signed renders the flow with the wire convention: positive when the pool
// receives, negative when it pays out.
func (d Delta) Signed() decimal.Decimal {
	if d.receives {
		return d.amount
	}
	return d.amount.Neg()
}
