package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tickswap/internal/dexmath"
	"tickswap/internal/ledger"
	"tickswap/internal/model"
)

// Engine is the caller-facing surface. Every operation runs inside one ledger
// transaction: reads up front, writes buffered, committed atomically at the
// end. Cross-transaction conflicts are the store's concern.
type Engine struct {
	store       ledger.Store
	log         *zap.Logger
	authorities map[string]struct{}
}

func NewEngine(store ledger.Store, authorities []string, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	auth := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		auth[a] = struct{}{}
	}
	return &Engine{store: store, log: log, authorities: auth}
}

func (e *Engine) isAuthority(caller string) bool {
	_, ok := e.authorities[caller]
	return ok
}

func poolKey(token0, token1 model.TokenClassKey, fee model.FeeTier) string {
	return ledger.Key(ledger.TypePool, token0.String(), token1.String(), strconv.Itoa(int(fee)))
}

func parsePair(token0, token1 string) (model.TokenClassKey, model.TokenClassKey, error) {
	t0, err := model.ParseTokenClassKey(token0)
	if err != nil {
		return model.TokenClassKey{}, model.TokenClassKey{}, err
	}
	t1, err := model.ParseTokenClassKey(token1)
	if err != nil {
		return model.TokenClassKey{}, model.TokenClassKey{}, err
	}
	return t0, t1, nil
}

func loadPool(ctx context.Context, txn *ledger.Txn, token0, token1 model.TokenClassKey, fee model.FeeTier) (*Pool, error) {
	var pool Pool
	ok, err := txn.GetJSON(ctx, poolKey(token0, token1, fee), &pool)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.Conflictf("pool %s/%s/%d does not exist", token0, token1, fee)
	}
	if pool.Bitmap == nil {
		pool.Bitmap = make(map[string]string)
	}
	return &pool, nil
}

func savePool(txn *ledger.Txn, pool *Pool) error {
	return txn.PutJSON(poolKey(pool.Token0, pool.Token1, pool.Fee), pool)
}

// roundForTransfer quantizes an amount to the token's declared decimals,
// upward when the pool receives it and downward when the pool pays it out.
func roundForTransfer(amount decimal.Decimal, decimals int32, poolReceives bool) decimal.Decimal {
	if poolReceives {
		return amount.RoundCeil(decimals)
	}
	return amount.RoundFloor(decimals)
}

// RegisterTokenClass seeds a token class, optionally crediting an initial
// supply.
func (e *Engine) RegisterTokenClass(ctx context.Context, caller string, req model.RegisterTokenClassRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	key, _ := model.ParseTokenClassKey(req.Token)

	txn := ledger.NewTxn(e.store)
	tokens := NewTokenLedger(ctx, txn)
	class := model.TokenClass{
		Key:         key,
		Symbol:      req.Symbol,
		Decimals:    req.Decimals,
		Image:       req.Image,
		Authorities: req.Authorities,
	}
	if err := tokens.RegisterClass(class); err != nil {
		return err
	}
	if req.InitialSupply.IsPositive() {
		supplyTo := req.SupplyTo
		if supplyTo == "" {
			supplyTo = caller
		}
		if err := tokens.Credit(supplyTo, key, req.InitialSupply); err != nil {
			return err
		}
	}
	if err := txn.Commit(ctx); err != nil {
		return err
	}
	e.log.Info("registered token class",
		zap.String("token", key.String()),
		zap.String("symbol", req.Symbol),
		zap.Int32("decimals", req.Decimals))
	return nil
}

// CreatePool creates the pool for a canonical token pair and fee tier. No
// token movement happens at creation.
func (e *Engine) CreatePool(ctx context.Context, caller string, req model.CreatePoolRequest) (*model.CreatePoolResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	tokens := NewTokenLedger(ctx, txn)
	for _, key := range []model.TokenClassKey{token0, token1} {
		ok, err := tokens.ClassExists(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, model.Conflictf("token class %s does not exist", key)
		}
	}

	var existing Pool
	ok, err := txn.GetJSON(ctx, poolKey(token0, token1, req.Fee), &existing)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, model.Conflictf("pool %s/%s/%d already exists with hash %s", token0, token1, req.Fee, existing.Hash())
	}

	pool, err := NewPool(token0, token1, req.Fee, req.InitialSqrtPrice, req.ProtocolFee)
	if err != nil {
		return nil, err
	}
	if err := savePool(txn, pool); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("created pool",
		zap.String("pool", pool.Hash()),
		zap.String("token0", token0.String()),
		zap.String("token1", token1.String()),
		zap.Int32("fee", int32(req.Fee)),
		zap.String("sqrt_price", req.InitialSqrtPrice.String()))
	return &model.CreatePoolResponse{
		Token0:   token0.String(),
		Token1:   token1.String(),
		Fee:      req.Fee,
		PoolHash: pool.Hash(),
	}, nil
}

// AddLiquidity deposits liquidity into a tick range, creating or extending a
// position, and transfers the required token amounts into pool custody.
func (e *Engine) AddLiquidity(ctx context.Context, caller string, req model.AddLiquidityRequest) (*model.AddLiquidityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}
	if err := pool.CheckTickRange(req.TickLower, req.TickUpper); err != nil {
		return nil, err
	}

	sqrtLower, err := dexmath.TickToSqrtPrice(req.TickLower)
	if err != nil {
		return nil, err
	}
	sqrtUpper, err := dexmath.TickToSqrtPrice(req.TickUpper)
	if err != nil {
		return nil, err
	}
	liquidity := dexmath.LiquidityForAmounts(pool.SqrtPrice, sqrtLower, sqrtUpper, req.Amount0Desired, req.Amount1Desired)
	if !liquidity.IsPositive() {
		return nil, model.Validationf("desired amounts %s/%s yield no liquidity in range [%d, %d]", req.Amount0Desired, req.Amount1Desired, req.TickLower, req.TickUpper)
	}

	positions := NewPositionKeeper(ctx, txn, pool.Hash())
	position, err := positions.FetchOrCreatePosition(pool, caller, req.TickLower, req.TickUpper, req.PositionID, req.UniqueKey)
	if err != nil {
		return nil, err
	}

	ticks := NewTickKeeper(ctx, txn, pool.Hash())
	amount0, amount1, err := pool.Mint(ticks, position, liquidity)
	if err != nil {
		return nil, fmt.Errorf("mint into pool %s: %w", pool.Hash(), err)
	}
	if amount0.LessThan(req.Amount0Min) || amount1.LessThan(req.Amount1Min) {
		return nil, model.Slippagef("realized amounts %s/%s below minimums %s/%s", amount0, amount1, req.Amount0Min, req.Amount1Min)
	}

	tokens := NewTokenLedger(ctx, txn)
	class0, err := tokens.FetchClass(token0)
	if err != nil {
		return nil, err
	}
	class1, err := tokens.FetchClass(token1)
	if err != nil {
		return nil, err
	}
	pay0 := roundForTransfer(amount0, class0.Decimals, true)
	pay1 := roundForTransfer(amount1, class1.Decimals, true)
	if err := tokens.Transfer(caller, pool.CustodyAddress(), token0, pay0); err != nil {
		return nil, err
	}
	if err := tokens.Transfer(caller, pool.CustodyAddress(), token1, pay1); err != nil {
		return nil, err
	}

	if err := positions.Save(position); err != nil {
		return nil, err
	}
	if err := savePool(txn, pool); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("added liquidity",
		zap.String("pool", pool.Hash()),
		zap.String("position", position.PositionID),
		zap.Int32("tick_lower", req.TickLower),
		zap.Int32("tick_upper", req.TickUpper),
		zap.String("liquidity", liquidity.String()),
		zap.String("amount0", pay0.String()),
		zap.String("amount1", pay1.String()))
	return &model.AddLiquidityResponse{
		PositionID: position.PositionID,
		Liquidity:  liquidity,
		Amount0:    pay0,
		Amount1:    pay1,
	}, nil
}

// RemoveLiquidity burns liquidity from a position; the freed amounts become
// withdrawable via CollectFees.
func (e *Engine) RemoveLiquidity(ctx context.Context, caller string, req model.BurnRequest) (*model.BurnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}
	if err := pool.CheckTickRange(req.TickLower, req.TickUpper); err != nil {
		return nil, err
	}

	positions := NewPositionKeeper(ctx, txn, pool.Hash())
	position, err := positions.ResolvePosition(caller, req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return nil, err
	}

	ticks := NewTickKeeper(ctx, txn, pool.Hash())
	amount0, amount1, err := pool.Burn(ticks, position, req.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("burn from pool %s: %w", pool.Hash(), err)
	}

	if err := positions.UpdateOrRemovePosition(position); err != nil {
		return nil, err
	}
	if err := savePool(txn, pool); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("removed liquidity",
		zap.String("pool", pool.Hash()),
		zap.String("position", position.PositionID),
		zap.String("liquidity", req.Liquidity.String()),
		zap.String("amount0", amount0.String()),
		zap.String("amount1", amount1.String()))
	return &model.BurnResponse{
		PositionID: position.PositionID,
		Amount0:    amount0,
		Amount1:    amount1,
	}, nil
}

// CollectFees withdraws up to the requested amounts from a position's owed
// balances, crediting newly accrued fees first.
func (e *Engine) CollectFees(ctx context.Context, caller string, req model.CollectRequest) (*model.CollectResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}
	if err := pool.CheckTickRange(req.TickLower, req.TickUpper); err != nil {
		return nil, err
	}

	positions := NewPositionKeeper(ctx, txn, pool.Hash())
	position, err := positions.ResolvePosition(caller, req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return nil, err
	}

	ticks := NewTickKeeper(ctx, txn, pool.Hash())
	inside0, inside1, err := ticks.FeeGrowthInside(req.TickLower, req.TickUpper, pool.Tick, pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1)
	if err != nil {
		return nil, err
	}
	if err := position.Update(decimal.Zero, inside0, inside1); err != nil {
		return nil, err
	}

	amount0 := decimal.Min(req.Amount0Requested, position.TokensOwed0)
	amount1 := decimal.Min(req.Amount1Requested, position.TokensOwed1)
	position.TokensOwed0 = position.TokensOwed0.Sub(amount0)
	position.TokensOwed1 = position.TokensOwed1.Sub(amount1)

	tokens := NewTokenLedger(ctx, txn)
	class0, err := tokens.FetchClass(token0)
	if err != nil {
		return nil, err
	}
	class1, err := tokens.FetchClass(token1)
	if err != nil {
		return nil, err
	}
	out0 := roundForTransfer(amount0, class0.Decimals, false)
	out1 := roundForTransfer(amount1, class1.Decimals, false)
	if err := tokens.Transfer(pool.CustodyAddress(), caller, token0, out0); err != nil {
		return nil, err
	}
	if err := tokens.Transfer(pool.CustodyAddress(), caller, token1, out1); err != nil {
		return nil, err
	}

	if err := positions.UpdateOrRemovePosition(position); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("collected fees",
		zap.String("pool", pool.Hash()),
		zap.String("position", position.PositionID),
		zap.String("amount0", out0.String()),
		zap.String("amount1", out1.String()))
	return &model.CollectResponse{
		PositionID: position.PositionID,
		Amount0:    out0,
		Amount1:    out1,
	}, nil
}

// Swap trades against a pool and settles both token flows with pool custody.
func (e *Engine) Swap(ctx context.Context, caller string, req model.SwapRequest) (*model.SwapResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}

	limit := req.SqrtPriceLimit
	if limit.IsZero() {
		if req.ZeroForOne {
			limit = dexmath.MinSqrtPrice
		} else {
			limit = dexmath.MaxSqrtPrice
		}
	}

	ticks := NewTickKeeper(ctx, txn, pool.Hash())
	result, err := pool.Swap(ticks, req.ZeroForOne, req.Amount, limit)
	if err != nil {
		return nil, fmt.Errorf("swap on pool %s: %w", pool.Hash(), err)
	}

	if err := checkSwapSlippage(req, result); err != nil {
		return nil, err
	}

	tokens := NewTokenLedger(ctx, txn)
	class0, err := tokens.FetchClass(token0)
	if err != nil {
		return nil, err
	}
	class1, err := tokens.FetchClass(token1)
	if err != nil {
		return nil, err
	}
	settled0, err := e.settle(tokens, caller, pool, token0, class0.Decimals, result.Delta0)
	if err != nil {
		return nil, err
	}
	settled1, err := e.settle(tokens, caller, pool, token1, class1.Decimals, result.Delta1)
	if err != nil {
		return nil, err
	}

	if err := savePool(txn, pool); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("swapped",
		zap.String("pool", pool.Hash()),
		zap.Bool("zero_for_one", req.ZeroForOne),
		zap.String("amount0", settled0.String()),
		zap.String("amount1", settled1.String()),
		zap.String("sqrt_price", result.SqrtPrice.String()),
		zap.Int32("tick", result.Tick))
	return &model.SwapResponse{
		Amount0:     settled0,
		Amount1:     settled1,
		SqrtPrice:   result.SqrtPrice,
		Tick:        result.Tick,
		ProtocolFee: result.ProtocolFee,
	}, nil
}

// QuoteSwap runs the swap algorithm against cloned state without committing,
// so quotes cannot diverge from execution.
func (e *Engine) QuoteSwap(ctx context.Context, req model.SwapRequest) (*model.SwapResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}

	limit := req.SqrtPriceLimit
	if limit.IsZero() {
		if req.ZeroForOne {
			limit = dexmath.MinSqrtPrice
		} else {
			limit = dexmath.MaxSqrtPrice
		}
	}

	sim := pool.Clone()
	ticks := NewTickKeeper(ctx, txn, sim.Hash())
	result, err := sim.Swap(ticks, req.ZeroForOne, req.Amount, limit)
	if err != nil {
		return nil, fmt.Errorf("quote on pool %s: %w", pool.Hash(), err)
	}
	// txn is dropped without commit; tick writes never reach the store

	return &model.SwapResponse{
		Amount0:     result.Delta0.Signed(),
		Amount1:     result.Delta1.Signed(),
		SqrtPrice:   result.SqrtPrice,
		Tick:        result.Tick,
		ProtocolFee: result.ProtocolFee,
	}, nil
}

func checkSwapSlippage(req model.SwapRequest, result SwapResult) error {
	paidIn, paidOut := result.Delta0, result.Delta1
	if !paidIn.PoolReceives() {
		paidIn, paidOut = paidOut, paidIn
	}
	if req.Amount.IsPositive() && req.AmountOutMinimum.IsPositive() &&
		paidOut.Amount().LessThan(req.AmountOutMinimum) {
		return model.Slippagef("output %s below minimum %s", paidOut.Amount(), req.AmountOutMinimum)
	}
	if req.Amount.IsNegative() && req.AmountInMaximum.IsPositive() &&
		paidIn.Amount().GreaterThan(req.AmountInMaximum) {
		return model.Slippagef("input %s above maximum %s", paidIn.Amount(), req.AmountInMaximum)
	}
	return nil
}

// settle moves one leg of a swap between the caller and pool custody,
// quantized to the token's decimals, and returns the signed settled amount.
func (e *Engine) settle(tokens *TokenLedger, caller string, pool *Pool, key model.TokenClassKey, decimals int32, delta Delta) (decimal.Decimal, error) {
	amount := roundForTransfer(delta.Amount(), decimals, delta.PoolReceives())
	if delta.PoolReceives() {
		if err := tokens.Transfer(caller, pool.CustodyAddress(), key, amount); err != nil {
			return decimal.Zero, err
		}
		return amount, nil
	}
	if err := tokens.Transfer(pool.CustodyAddress(), caller, key, amount); err != nil {
		return decimal.Zero, err
	}
	return amount.Neg(), nil
}

// CollectProtocolFees transfers accrued protocol fees to the recipient and
// zeroes the accruals. Restricted to configured authorities.
func (e *Engine) CollectProtocolFees(ctx context.Context, caller string, req model.CollectProtocolFeesRequest) (*model.CollectProtocolFeesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !e.isAuthority(caller) {
		return nil, model.Unauthorizedf("%s is not a protocol fee authority", caller)
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenLedger(ctx, txn)
	class0, err := tokens.FetchClass(token0)
	if err != nil {
		return nil, err
	}
	class1, err := tokens.FetchClass(token1)
	if err != nil {
		return nil, err
	}
	out0 := roundForTransfer(pool.ProtocolFees0, class0.Decimals, false)
	out1 := roundForTransfer(pool.ProtocolFees1, class1.Decimals, false)
	if err := tokens.Transfer(pool.CustodyAddress(), req.Recipient, token0, out0); err != nil {
		return nil, err
	}
	if err := tokens.Transfer(pool.CustodyAddress(), req.Recipient, token1, out1); err != nil {
		return nil, err
	}
	pool.ProtocolFees0 = decimal.Zero
	pool.ProtocolFees1 = decimal.Zero

	if err := savePool(txn, pool); err != nil {
		return nil, err
	}
	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	e.log.Info("collected protocol fees",
		zap.String("pool", pool.Hash()),
		zap.String("recipient", req.Recipient),
		zap.String("amount0", out0.String()),
		zap.String("amount1", out1.String()))
	return &model.CollectProtocolFeesResponse{Amount0: out0, Amount1: out1}, nil
}

// SetProtocolFee updates the fraction of swap fees diverted to the protocol.
// Restricted to configured authorities.
func (e *Engine) SetProtocolFee(ctx context.Context, caller string, req model.SetProtocolFeeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if !e.isAuthority(caller) {
		return model.Unauthorizedf("%s is not a protocol fee authority", caller)
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return err
	}

	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return err
	}
	pool.ProtocolFee = req.ProtocolFee
	if err := savePool(txn, pool); err != nil {
		return err
	}
	if err := txn.Commit(ctx); err != nil {
		return err
	}

	e.log.Info("set protocol fee",
		zap.String("pool", pool.Hash()),
		zap.String("protocol_fee", req.ProtocolFee.String()))
	return nil
}

// GetPoolData returns the stored pool aggregate.
func (e *Engine) GetPoolData(ctx context.Context, token0, token1 string, fee model.FeeTier) (*Pool, error) {
	t0, t1, err := parsePair(token0, token1)
	if err != nil {
		return nil, err
	}
	txn := ledger.NewTxn(e.store)
	return loadPool(ctx, txn, t0, t1, fee)
}

// Slot0 returns the pool's price, tick, and liquidity snapshot.
func (e *Engine) Slot0(ctx context.Context, token0, token1 string, fee model.FeeTier) (*model.Slot0, error) {
	pool, err := e.GetPoolData(ctx, token0, token1, fee)
	if err != nil {
		return nil, err
	}
	return &model.Slot0{
		SqrtPrice: pool.SqrtPrice,
		Tick:      pool.Tick,
		Liquidity: pool.Liquidity,
	}, nil
}

// GetPosition returns a read model of one position.
func (e *Engine) GetPosition(ctx context.Context, req model.GetPositionRequest) (*model.PositionView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	token0, token1, err := parsePair(req.Token0, req.Token1)
	if err != nil {
		return nil, err
	}
	txn := ledger.NewTxn(e.store)
	pool, err := loadPool(ctx, txn, token0, token1, req.Fee)
	if err != nil {
		return nil, err
	}
	positions := NewPositionKeeper(ctx, txn, pool.Hash())
	position, err := positions.ResolvePosition(req.Owner, req.TickLower, req.TickUpper, req.PositionID)
	if err != nil {
		return nil, err
	}
	view := positionView(position)
	return &view, nil
}

// GetUserPositions enumerates an owner's positions across pools with
// two-level bookmark pagination: the outer cursor is the last ownership-index
// key consumed, the inner skip counts entries already returned from it.
func (e *Engine) GetUserPositions(ctx context.Context, owner, bookmark string, limit int) (*model.GetUserPositionsResponse, error) {
	if owner == "" {
		return nil, model.Validationf("owner is required")
	}
	if limit <= 0 {
		limit = 50
	}
	mark, err := model.DecodeBookmark(bookmark)
	if err != nil {
		return nil, err
	}

	txn := ledger.NewTxn(e.store)
	start, end := ledger.PrefixRange(ledger.TypePositionOwner, owner)
	if mark.Outer != "" && mark.Outer > start {
		start = mark.Outer
	}
	records, err := txn.GetRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}

	resp := &model.GetUserPositionsResponse{}
	for _, record := range records {
		skip := 0
		if record.Key == mark.Outer {
			skip = mark.Skip
		}
		var index DexPositionOwner
		if err := json.Unmarshal(record.Value, &index); err != nil {
			return nil, fmt.Errorf("decode position index %q: %w", record.Key, err)
		}
		positions := NewPositionKeeper(ctx, txn, index.PoolHash)

		consumed := 0
		for _, rk := range index.SortedRanges() {
			tickLower, tickUpper, err := parseRangeKey(rk)
			if err != nil {
				return nil, fmt.Errorf("position index %q: %w", record.Key, err)
			}
			for _, id := range index.Ranges[rk] {
				if consumed < skip {
					consumed++
					continue
				}
				if len(resp.Positions) >= limit {
					resp.Bookmark = model.EncodeBookmark(model.Bookmark{Outer: record.Key, Skip: consumed})
					return resp, nil
				}
				position, err := positions.FetchPosition(tickLower, tickUpper, id)
				if err != nil {
					return nil, err
				}
				resp.Positions = append(resp.Positions, positionView(position))
				consumed++
			}
		}
	}
	return resp, nil
}

func positionView(p *DexPositionData) model.PositionView {
	return model.PositionView{
		PoolHash:    p.PoolHash,
		Token0:      p.Token0.String(),
		Token1:      p.Token1.String(),
		Fee:         p.Fee,
		PositionID:  p.PositionID,
		TickLower:   p.TickLower,
		TickUpper:   p.TickUpper,
		Liquidity:   p.Liquidity,
		TokensOwed0: p.TokensOwed0,
		TokensOwed1: p.TokensOwed1,
	}
}

func parseRangeKey(s string) (int32, int32, error) {
	lowerRaw, upperRaw, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed range key %q", s)
	}
	lower, err := strconv.ParseInt(lowerRaw, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed range key %q", s)
	}
	upper, err := strconv.ParseInt(upperRaw, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed range key %q", s)
	}
	return int32(lower), int32(upper), nil
}
