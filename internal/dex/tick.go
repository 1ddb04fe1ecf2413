package dex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tickswap/internal/dexmath"
	"tickswap/internal/ledger"
	"tickswap/internal/model"
)

// TickData carries the per-tick accounting for one pool. Records are created
// lazily with zero values on first reference and never explicitly deleted; a
// tick whose gross liquidity returns to zero is simply uninitialized again.
type TickData struct {
	PoolHash string `json:"pool_hash"`
	Tick     int32  `json:"tick"`

	LiquidityGross decimal.Decimal `json:"liquidity_gross"`
	// LiquidityNet is applied to the pool's in-range liquidity when the price
	// crosses this tick upward; downward crossings negate it.
	LiquidityNet decimal.Decimal `json:"liquidity_net"`

	FeeGrowthOutside0 decimal.Decimal `json:"fee_growth_outside0"`
	FeeGrowthOutside1 decimal.Decimal `json:"fee_growth_outside1"`
}

func (t *TickData) Initialized() bool {
	return t.LiquidityGross.IsPositive()
}

// TickKeeper loads and buffers TickData records inside one ledger transaction.
// It carries the transaction's context; keepers do not outlive their txn.
type TickKeeper struct {
	ctx      context.Context
	txn      *ledger.Txn
	poolHash string
}

func NewTickKeeper(ctx context.Context, txn *ledger.Txn, poolHash string) *TickKeeper {
	return &TickKeeper{ctx: ctx, txn: txn, poolHash: poolHash}
}

func (k *TickKeeper) key(tick int32) string {
	return ledger.Key(ledger.TypeTick, k.poolHash, ledger.TickAttr(tick))
}

// Fetch returns the stored tick record or a zero-valued default.
func (k *TickKeeper) Fetch(tick int32) (*TickData, error) {
	if tick < dexmath.MinTick || tick > dexmath.MaxTick {
		return nil, model.Validationf("tick %d outside [%d, %d]", tick, dexmath.MinTick, dexmath.MaxTick)
	}
	data := &TickData{PoolHash: k.poolHash, Tick: tick}
	if _, err := k.txn.GetJSON(k.ctx, k.key(tick), data); err != nil {
		return nil, fmt.Errorf("fetch tick %d: %w", tick, err)
	}
	data.PoolHash = k.poolHash
	data.Tick = tick
	return data, nil
}

func (k *TickKeeper) save(data *TickData) error {
	if err := k.txn.PutJSON(k.key(data.Tick), data); err != nil {
		return fmt.Errorf("save tick %d: %w", data.Tick, err)
	}
	return nil
}

// Update applies a signed liquidity delta to a tick boundary and reports
// whether the tick flipped between initialized and uninitialized. A tick
// initialized at or below the current tick snapshots the global fee growth as
// its outside accumulators.
func (k *TickKeeper) Update(tick, currentTick int32, liquidityDelta, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal, upper bool) (bool, error) {
	data, err := k.Fetch(tick)
	if err != nil {
		return false, err
	}

	grossBefore := data.LiquidityGross
	grossAfter, err := dexmath.AddLiquidityDelta(grossBefore, liquidityDelta)
	if err != nil {
		return false, fmt.Errorf("tick %d gross liquidity: %w", tick, err)
	}
	data.LiquidityGross = grossAfter

	if grossBefore.IsZero() && tick <= currentTick {
		data.FeeGrowthOutside0 = feeGrowthGlobal0
		data.FeeGrowthOutside1 = feeGrowthGlobal1
	}

	if upper {
		data.LiquidityNet = data.LiquidityNet.Sub(liquidityDelta)
	} else {
		data.LiquidityNet = data.LiquidityNet.Add(liquidityDelta)
	}

	if err := k.save(data); err != nil {
		return false, err
	}
	flipped := grossAfter.IsZero() != grossBefore.IsZero()
	return flipped, nil
}

// Cross flips the tick's fee-growth-outside snapshots against the current
// globals and returns its net liquidity.
func (k *TickKeeper) Cross(tick int32, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) (decimal.Decimal, error) {
	data, err := k.Fetch(tick)
	if err != nil {
		return zero, err
	}
	data.FeeGrowthOutside0 = feeGrowthGlobal0.Sub(data.FeeGrowthOutside0)
	data.FeeGrowthOutside1 = feeGrowthGlobal1.Sub(data.FeeGrowthOutside1)
	if err := k.save(data); err != nil {
		return zero, err
	}
	return data.LiquidityNet, nil
}

// FeeGrowthInside computes the fee growth accumulated strictly inside a tick
// range, per unit of liquidity, for both tokens.
func (k *TickKeeper) FeeGrowthInside(tickLower, tickUpper, currentTick int32, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	lower, err := k.Fetch(tickLower)
	if err != nil {
		return zero, zero, err
	}
	upper, err := k.Fetch(tickUpper)
	if err != nil {
		return zero, zero, err
	}

	var below0, below1 decimal.Decimal
	if currentTick >= tickLower {
		below0 = lower.FeeGrowthOutside0
		below1 = lower.FeeGrowthOutside1
	} else {
		below0 = feeGrowthGlobal0.Sub(lower.FeeGrowthOutside0)
		below1 = feeGrowthGlobal1.Sub(lower.FeeGrowthOutside1)
	}

	var above0, above1 decimal.Decimal
	if currentTick < tickUpper {
		above0 = upper.FeeGrowthOutside0
		above1 = upper.FeeGrowthOutside1
	} else {
		above0 = feeGrowthGlobal0.Sub(upper.FeeGrowthOutside0)
		above1 = feeGrowthGlobal1.Sub(upper.FeeGrowthOutside1)
	}

	inside0 := feeGrowthGlobal0.Sub(below0).Sub(above0)
	inside1 := feeGrowthGlobal1.Sub(below1).Sub(above1)
	return inside0, inside1, nil
}
