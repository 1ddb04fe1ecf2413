package dex

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"tickswap/internal/dexmath"
	"tickswap/internal/model"
)

// Pool is the aggregate root for one (token0, token1, fee) market. All tick
// and position mutation goes through its methods; the engine persists the
// touched records as one write-set.
type Pool struct {
	Token0 model.TokenClassKey `json:"token0"`
	Token1 model.TokenClassKey `json:"token1"`
	Fee    model.FeeTier       `json:"fee"`

	SqrtPrice decimal.Decimal `json:"sqrt_price"`
	Tick      int32           `json:"tick"`
	Liquidity decimal.Decimal `json:"liquidity"`

	FeeGrowthGlobal0 decimal.Decimal `json:"fee_growth_global0"`
	FeeGrowthGlobal1 decimal.Decimal `json:"fee_growth_global1"`

	// ProtocolFee is the fraction of each swap fee diverted to the protocol.
	ProtocolFee   decimal.Decimal `json:"protocol_fee"`
	ProtocolFees0 decimal.Decimal `json:"protocol_fees0"`
	ProtocolFees1 decimal.Decimal `json:"protocol_fees1"`

	// Bitmap marks initialized ticks, keyed by word index, each word a hex
	// encoded 256-bit integer.
	Bitmap map[string]string `json:"bitmap"`
}

func NewPool(token0, token1 model.TokenClassKey, fee model.FeeTier, sqrtPrice decimal.Decimal, protocolFee decimal.Decimal) (*Pool, error) {
	tick, err := dexmath.SqrtPriceToTick(sqrtPrice)
	if err != nil {
		return nil, model.Validationf("initial sqrt price: %v", err)
	}
	return &Pool{
		Token0:           token0,
		Token1:           token1,
		Fee:              fee,
		SqrtPrice:        sqrtPrice,
		Tick:             tick,
		Liquidity:        decimal.Zero,
		FeeGrowthGlobal0: decimal.Zero,
		FeeGrowthGlobal1: decimal.Zero,
		ProtocolFee:      protocolFee,
		ProtocolFees0:    decimal.Zero,
		ProtocolFees1:    decimal.Zero,
		Bitmap:           make(map[string]string),
	}, nil
}

// Hash is the pool's stable identifier, a keccak hash of its identity tuple.
func (p *Pool) Hash() string {
	preimage := fmt.Sprintf("%s|%s|%d", p.Token0, p.Token1, p.Fee)
	return hex.EncodeToString(crypto.Keccak256([]byte(preimage)))
}

// CustodyAddress is the ledger account holding the pool's token reserves.
func (p *Pool) CustodyAddress() string {
	return "service|pool_" + p.Hash()
}

// Clone deep-copies the pool for read-only simulation.
func (p *Pool) Clone() *Pool {
	cp := *p
	cp.Bitmap = make(map[string]string, len(p.Bitmap))
	for k, v := range p.Bitmap {
		cp.Bitmap[k] = v
	}
	return &cp
}

// CheckTickRange validates a position range against the pool's tick spacing.
func (p *Pool) CheckTickRange(tickLower, tickUpper int32) error {
	if tickLower >= tickUpper {
		return model.Validationf("tick lower %d must be below tick upper %d", tickLower, tickUpper)
	}
	if tickLower < dexmath.MinTick || tickUpper > dexmath.MaxTick {
		return model.Validationf("tick range [%d, %d] outside [%d, %d]", tickLower, tickUpper, dexmath.MinTick, dexmath.MaxTick)
	}
	spacing := p.Fee.TickSpacing()
	if tickLower%spacing != 0 || tickUpper%spacing != 0 {
		return model.Validationf("ticks [%d, %d] must align to spacing %d", tickLower, tickUpper, spacing)
	}
	return nil
}

// Mint applies a positive liquidity delta to a position's range and returns
// the token amounts the caller must pay in. Tick and position records are
// mutated through the keeper; the pool's in-range liquidity grows only when
// the current tick lies inside the range.
func (p *Pool) Mint(ticks *TickKeeper, position *DexPositionData, liquidityDelta decimal.Decimal) (amount0, amount1 decimal.Decimal, err error) {
	if !liquidityDelta.IsPositive() {
		return zero, zero, model.Validationf("mint liquidity must be positive, got %s", liquidityDelta)
	}
	amount0, amount1, err = p.modifyPosition(ticks, position, liquidityDelta)
	if err != nil {
		return zero, zero, err
	}
	if amount0.IsNegative() || amount1.IsNegative() {
		return zero, zero, fmt.Errorf("mint produced negative amounts %s/%s for range [%d, %d]", amount0, amount1, position.TickLower, position.TickUpper)
	}
	return amount0, amount1, nil
}

// Burn removes liquidity from a position and credits the freed token amounts
// to the position's owed balances. Tokens move later, via collect.
func (p *Pool) Burn(ticks *TickKeeper, position *DexPositionData, liquidityDelta decimal.Decimal) (amount0, amount1 decimal.Decimal, err error) {
	if !liquidityDelta.IsPositive() {
		return zero, zero, model.Validationf("burn liquidity must be positive, got %s", liquidityDelta)
	}
	if liquidityDelta.GreaterThan(position.Liquidity) {
		return zero, zero, model.Validationf("burn %s exceeds position liquidity %s", liquidityDelta, position.Liquidity)
	}
	a0, a1, err := p.modifyPosition(ticks, position, liquidityDelta.Neg())
	if err != nil {
		return zero, zero, err
	}
	amount0, amount1 = a0.Neg(), a1.Neg()
	position.TokensOwed0 = position.TokensOwed0.Add(amount0)
	position.TokensOwed1 = position.TokensOwed1.Add(amount1)
	return amount0, amount1, nil
}

// modifyPosition is the shared mint/burn accounting path. Amounts are signed
// with the liquidity delta: positive into the pool, negative out of it.
func (p *Pool) modifyPosition(ticks *TickKeeper, position *DexPositionData, liquidityDelta decimal.Decimal) (amount0, amount1 decimal.Decimal, err error) {
	tickLower, tickUpper := position.TickLower, position.TickUpper
	spacing := p.Fee.TickSpacing()

	flippedLower, err := ticks.Update(tickLower, p.Tick, liquidityDelta, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1, false)
	if err != nil {
		return zero, zero, err
	}
	flippedUpper, err := ticks.Update(tickUpper, p.Tick, liquidityDelta, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1, true)
	if err != nil {
		return zero, zero, err
	}
	if flippedLower {
		if err := p.flipTick(tickLower, spacing); err != nil {
			return zero, zero, err
		}
	}
	if flippedUpper {
		if err := p.flipTick(tickUpper, spacing); err != nil {
			return zero, zero, err
		}
	}

	inside0, inside1, err := ticks.FeeGrowthInside(tickLower, tickUpper, p.Tick, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1)
	if err != nil {
		return zero, zero, err
	}
	if err := position.Update(liquidityDelta, inside0, inside1); err != nil {
		return zero, zero, err
	}

	sqrtLower, err := dexmath.TickToSqrtPrice(tickLower)
	if err != nil {
		return zero, zero, err
	}
	sqrtUpper, err := dexmath.TickToSqrtPrice(tickUpper)
	if err != nil {
		return zero, zero, err
	}

	// Round in the pool's favor: deposits up, withdrawals down.
	roundUp := liquidityDelta.IsPositive()
	magnitude := liquidityDelta.Abs()

	switch {
	case p.Tick < tickLower:
		a0, err := dexmath.GetAmount0Delta(sqrtLower, sqrtUpper, magnitude, roundUp)
		if err != nil {
			return zero, zero, err
		}
		amount0 = a0
		amount1 = zero
	case p.Tick < tickUpper:
		a0, err := dexmath.GetAmount0Delta(p.SqrtPrice, sqrtUpper, magnitude, roundUp)
		if err != nil {
			return zero, zero, err
		}
		amount0 = a0
		amount1 = dexmath.GetAmount1Delta(sqrtLower, p.SqrtPrice, magnitude, roundUp)
		next, err := dexmath.AddLiquidityDelta(p.Liquidity, liquidityDelta)
		if err != nil {
			return zero, zero, fmt.Errorf("pool liquidity for range [%d, %d]: %w", tickLower, tickUpper, err)
		}
		p.Liquidity = next
	default:
		amount0 = zero
		a1 := dexmath.GetAmount1Delta(sqrtLower, sqrtUpper, magnitude, roundUp)
		amount1 = a1
	}

	if liquidityDelta.IsNegative() {
		amount0 = amount0.Neg()
		amount1 = amount1.Neg()
	}
	return amount0, amount1, nil
}
