package dex

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tickswap/internal/ledger"
	"tickswap/internal/model"
)

const (
	gala = "GALA|Unit|none|none"
	usd  = "USD|Unit|none|none"

	alice = "client|alice"
	bob   = "client|bob"
	admin = "client|admin"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(ledger.NewMemoryStore(), []string{admin}, nil)
	ctx := context.Background()

	for _, token := range []string{gala, usd} {
		err := e.RegisterTokenClass(ctx, admin, model.RegisterTokenClassRequest{
			Token:         token,
			Symbol:        "TST",
			Decimals:      8,
			InitialSupply: decimal.NewFromInt(10_000_000),
			SupplyTo:      alice,
		})
		if err != nil {
			t.Fatalf("register %s: %v", token, err)
		}
	}

	// fund bob from alice
	txn := ledger.NewTxn(e.store)
	tokens := NewTokenLedger(ctx, txn)
	for _, token := range []string{gala, usd} {
		key, err := model.ParseTokenClassKey(token)
		if err != nil {
			t.Fatalf("parse %s: %v", token, err)
		}
		if err := tokens.Transfer(alice, bob, key, decimal.NewFromInt(1_000_000)); err != nil {
			t.Fatalf("fund bob: %v", err)
		}
	}
	if err := txn.Commit(ctx); err != nil {
		t.Fatalf("commit funding: %v", err)
	}
	return e
}

func createTestPool(t *testing.T, e *Engine, protocolFee string) {
	t.Helper()
	_, err := e.CreatePool(context.Background(), admin, model.CreatePoolRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		InitialSqrtPrice: decimal.NewFromInt(1),
		ProtocolFee:      decimal.RequireFromString(protocolFee),
	})
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
}

func addTestLiquidity(t *testing.T, e *Engine, owner string, lower, upper int32, amount int64, uniqueKey string) *model.AddLiquidityResponse {
	t.Helper()
	resp, err := e.AddLiquidity(context.Background(), owner, model.AddLiquidityRequest{
		Token0:         gala,
		Token1:         usd,
		Fee:            model.FeeTier3000,
		TickLower:      lower,
		TickUpper:      upper,
		Amount0Desired: decimal.NewFromInt(amount),
		Amount1Desired: decimal.NewFromInt(amount),
		UniqueKey:      uniqueKey,
	})
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	return resp
}

func TestCreatePoolScenario(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	resp, err := e.CreatePool(ctx, admin, model.CreatePoolRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		InitialSqrtPrice: decimal.NewFromInt(1),
		ProtocolFee:      decimal.RequireFromString("0.1"),
	})
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if resp.PoolHash == "" {
		t.Fatal("expected a pool hash")
	}

	_, err = e.CreatePool(ctx, admin, model.CreatePoolRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		InitialSqrtPrice: decimal.NewFromInt(1),
		ProtocolFee:      decimal.RequireFromString("0.1"),
	})
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected ErrConflict on retry, got %v", err)
	}
}

func TestCreatePoolOrderingInvariant(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, pair := range [][2]string{{usd, gala}, {gala, gala}} {
		_, err := e.CreatePool(ctx, admin, model.CreatePoolRequest{
			Token0:           pair[0],
			Token1:           pair[1],
			Fee:              model.FeeTier3000,
			InitialSqrtPrice: decimal.NewFromInt(1),
		})
		if !errors.Is(err, model.ErrValidation) {
			t.Fatalf("expected ErrValidation for pair %v, got %v", pair, err)
		}
	}
}

func TestCreatePoolRequiresTokenClasses(t *testing.T) {
	e := NewEngine(ledger.NewMemoryStore(), nil, nil)
	_, err := e.CreatePool(context.Background(), admin, model.CreatePoolRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		InitialSqrtPrice: decimal.NewFromInt(1),
	})
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected ErrConflict for missing classes, got %v", err)
	}
}

func TestMintThenFullBurn(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	added := addTestLiquidity(t, e, alice, -887220, 887220, 1000, "mint-burn-1")
	if !added.Liquidity.IsPositive() {
		t.Fatalf("expected positive liquidity, got %s", added.Liquidity)
	}

	slot, err := e.Slot0(ctx, gala, usd, model.FeeTier3000)
	if err != nil {
		t.Fatalf("slot0: %v", err)
	}
	if !slot.Liquidity.Equal(added.Liquidity) {
		t.Fatalf("pool liquidity %s != minted %s", slot.Liquidity, added.Liquidity)
	}

	burned, err := e.RemoveLiquidity(ctx, alice, model.BurnRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -887220,
		TickUpper: 887220,
		Liquidity: added.Liquidity,
	})
	if err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}

	tolerance := decimal.RequireFromString("0.0001")
	if added.Amount0.Sub(burned.Amount0).Abs().GreaterThan(tolerance) {
		t.Fatalf("burned amount0 %s too far from minted %s", burned.Amount0, added.Amount0)
	}
	if added.Amount1.Sub(burned.Amount1).Abs().GreaterThan(tolerance) {
		t.Fatalf("burned amount1 %s too far from minted %s", burned.Amount1, added.Amount1)
	}
	if burned.Amount0.IsNegative() || burned.Amount1.IsNegative() {
		t.Fatalf("owed amounts must not be negative: %s/%s", burned.Amount0, burned.Amount1)
	}

	// liquidity conservation: the pool is back where it started
	slot, err = e.Slot0(ctx, gala, usd, model.FeeTier3000)
	if err != nil {
		t.Fatalf("slot0: %v", err)
	}
	if !slot.Liquidity.IsZero() {
		t.Fatalf("pool liquidity must return to zero, got %s", slot.Liquidity)
	}
}

func TestCollectRemovesDustPosition(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	added := addTestLiquidity(t, e, alice, -887220, 887220, 1000, "collect-1")
	if _, err := e.RemoveLiquidity(ctx, alice, model.BurnRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -887220,
		TickUpper: 887220,
		Liquidity: added.Liquidity,
	}); err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}

	collected, err := e.CollectFees(ctx, alice, model.CollectRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		TickLower:        -887220,
		TickUpper:        887220,
		Amount0Requested: decimal.NewFromInt(10_000),
		Amount1Requested: decimal.NewFromInt(10_000),
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if collected.Amount0.IsNegative() || collected.Amount1.IsNegative() {
		t.Fatalf("collected amounts must not be negative: %s/%s", collected.Amount0, collected.Amount1)
	}
	// never over-withdraws what was owed
	if collected.Amount0.GreaterThan(added.Amount0) || collected.Amount1.GreaterThan(added.Amount1) {
		t.Fatalf("collected %s/%s exceeds minted %s/%s", collected.Amount0, collected.Amount1, added.Amount0, added.Amount1)
	}

	// the emptied position is gone along with its index entry
	if _, err := e.GetPosition(ctx, model.GetPositionRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -887220,
		TickUpper: 887220,
		Owner:     alice,
	}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after dust cleanup, got %v", err)
	}
	positions, err := e.GetUserPositions(ctx, alice, "", 10)
	if err != nil {
		t.Fatalf("get user positions: %v", err)
	}
	if len(positions.Positions) != 0 {
		t.Fatalf("expected no positions after cleanup, got %d", len(positions.Positions))
	}
}

func TestAddLiquiditySlippage(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")

	_, err := e.AddLiquidity(context.Background(), alice, model.AddLiquidityRequest{
		Token0:         gala,
		Token1:         usd,
		Fee:            model.FeeTier3000,
		TickLower:      -887220,
		TickUpper:      887220,
		Amount0Desired: decimal.NewFromInt(1000),
		Amount1Desired: decimal.NewFromInt(1000),
		Amount0Min:     decimal.NewFromInt(2000),
		Amount1Min:     decimal.NewFromInt(2000),
		UniqueKey:      "slippage-1",
	})
	if !errors.Is(err, model.ErrSlippage) {
		t.Fatalf("expected ErrSlippage, got %v", err)
	}
}

func TestIdempotentPositionCreation(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	first := addTestLiquidity(t, e, alice, -60, 60, 100, "same-key")
	second := addTestLiquidity(t, e, alice, -60, 60, 100, "same-key")
	if first.PositionID != second.PositionID {
		t.Fatalf("same key and range must resolve to one position: %s vs %s", first.PositionID, second.PositionID)
	}

	positions, err := e.GetUserPositions(ctx, alice, "", 10)
	if err != nil {
		t.Fatalf("get user positions: %v", err)
	}
	if len(positions.Positions) != 1 {
		t.Fatalf("expected one position, got %d", len(positions.Positions))
	}
	want := first.Liquidity.Add(second.Liquidity)
	if !positions.Positions[0].Liquidity.Equal(want) {
		t.Fatalf("position liquidity %s != %s", positions.Positions[0].Liquidity, want)
	}
}

func TestSwapExactInput(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	resp, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: true,
		Amount:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	if !resp.Amount0.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("pool must receive exactly the input, got %s", resp.Amount0)
	}
	if !resp.Amount1.IsNegative() {
		t.Fatalf("pool must pay out token1, got %s", resp.Amount1)
	}
	if !resp.SqrtPrice.LessThan(decimal.NewFromInt(1)) {
		t.Fatalf("price must fall on a zero-for-one swap, got %s", resp.SqrtPrice)
	}
	if resp.Tick >= 0 {
		t.Fatalf("tick must fall below the starting tick, got %d", resp.Tick)
	}
	// fee drag keeps the output below the no-fee fill
	if resp.Amount1.Neg().GreaterThanOrEqual(decimal.NewFromInt(100)) {
		t.Fatalf("output %s must be below the input", resp.Amount1.Neg())
	}
}

func TestSwapExactOutput(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	resp, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: false,
		Amount:     decimal.NewFromInt(-50),
	})
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !resp.Amount0.IsNegative() {
		t.Fatalf("pool must pay out token0, got %s", resp.Amount0)
	}
	out := resp.Amount0.Neg()
	if out.Sub(decimal.NewFromInt(50)).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected about 50 token0 out, got %s", out)
	}
	if !resp.Amount1.IsPositive() {
		t.Fatalf("pool must receive token1, got %s", resp.Amount1)
	}
	// input exceeds output because of the fee
	if resp.Amount1.LessThanOrEqual(out) {
		t.Fatalf("input %s must exceed output %s", resp.Amount1, out)
	}
}

func TestSwapSlippageBounds(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	_, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:           gala,
		Token1:           usd,
		Fee:              model.FeeTier3000,
		ZeroForOne:       true,
		Amount:           decimal.NewFromInt(100),
		AmountOutMinimum: decimal.NewFromInt(100),
	})
	if !errors.Is(err, model.ErrSlippage) {
		t.Fatalf("expected ErrSlippage on exact input, got %v", err)
	}

	_, err = e.Swap(ctx, bob, model.SwapRequest{
		Token0:          gala,
		Token1:          usd,
		Fee:             model.FeeTier3000,
		ZeroForOne:      false,
		Amount:          decimal.NewFromInt(-50),
		AmountInMaximum: decimal.NewFromInt(1),
	})
	if !errors.Is(err, model.ErrSlippage) {
		t.Fatalf("expected ErrSlippage on exact output, got %v", err)
	}
}

func TestSwapProtocolFeeSplit(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0.1")
	ctx := context.Background()

	added := addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	resp, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: true,
		Amount:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !resp.ProtocolFee.IsPositive() {
		t.Fatalf("expected protocol fee accrual, got %s", resp.ProtocolFee)
	}

	pool, err := e.GetPoolData(ctx, gala, usd, model.FeeTier3000)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if !pool.ProtocolFees0.Equal(resp.ProtocolFee) {
		t.Fatalf("accrued %s != reported %s", pool.ProtocolFees0, resp.ProtocolFee)
	}
	if !pool.FeeGrowthGlobal0.IsPositive() {
		t.Fatal("expected fee growth for token0")
	}
	if !pool.FeeGrowthGlobal1.IsZero() {
		t.Fatalf("token1 growth must be untouched, got %s", pool.FeeGrowthGlobal1)
	}

	// protocol takes 0.1 of the fee, LPs get 0.9/liquidity as growth
	totalFee := resp.ProtocolFee.Mul(decimal.NewFromInt(10))
	lpShare := pool.FeeGrowthGlobal0.Mul(added.Liquidity)
	want := totalFee.Mul(decimal.RequireFromString("0.9"))
	if lpShare.Sub(want).Abs().GreaterThan(decimal.RequireFromString("0.000001")) {
		t.Fatalf("LP share %s too far from 0.9 of fee %s", lpShare, totalFee)
	}
}

func TestSwapRoundTripReturnsNearStart(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	first, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: true,
		Amount:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("first swap: %v", err)
	}

	back, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: false,
		Amount:     first.Amount1.Neg(),
	})
	if err != nil {
		t.Fatalf("second swap: %v", err)
	}

	if back.Tick < -1 || back.Tick > 1 {
		t.Fatalf("round trip must land within one tick of the start, got %d", back.Tick)
	}
}

func TestFeeGrowthMonotonic(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0.1")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	prev0, prev1 := decimal.Zero, decimal.Zero
	for i := 0; i < 4; i++ {
		zeroForOne := i%2 == 0
		if _, err := e.Swap(ctx, bob, model.SwapRequest{
			Token0:     gala,
			Token1:     usd,
			Fee:        model.FeeTier3000,
			ZeroForOne: zeroForOne,
			Amount:     decimal.NewFromInt(50),
		}); err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
		pool, err := e.GetPoolData(ctx, gala, usd, model.FeeTier3000)
		if err != nil {
			t.Fatalf("get pool: %v", err)
		}
		if pool.FeeGrowthGlobal0.LessThan(prev0) || pool.FeeGrowthGlobal1.LessThan(prev1) {
			t.Fatalf("fee growth decreased: %s/%s after %s/%s", pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1, prev0, prev1)
		}
		prev0, prev1 = pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1
	}
}

func TestQuoteMatchesSwap(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")

	req := model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: true,
		Amount:     decimal.NewFromInt(100),
	}
	quote, err := e.QuoteSwap(ctx, req)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	executed, err := e.Swap(ctx, bob, req)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	// quotes run the same step algorithm; settlement only quantizes to token
	// decimals
	tolerance := decimal.RequireFromString("0.00000001")
	if quote.Amount0.Sub(executed.Amount0).Abs().GreaterThan(tolerance) {
		t.Fatalf("quote amount0 %s != executed %s", quote.Amount0, executed.Amount0)
	}
	if quote.Amount1.Sub(executed.Amount1).Abs().GreaterThan(tolerance) {
		t.Fatalf("quote amount1 %s != executed %s", quote.Amount1, executed.Amount1)
	}
	if !quote.SqrtPrice.Equal(executed.SqrtPrice) {
		t.Fatalf("quote price %s != executed %s", quote.SqrtPrice, executed.SqrtPrice)
	}
}

func TestProtocolFeeAuthorization(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0.1")
	ctx := context.Background()

	err := e.SetProtocolFee(ctx, bob, model.SetProtocolFeeRequest{
		Token0:      gala,
		Token1:      usd,
		Fee:         model.FeeTier3000,
		ProtocolFee: decimal.RequireFromString("0.2"),
	})
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := e.SetProtocolFee(ctx, admin, model.SetProtocolFeeRequest{
		Token0:      gala,
		Token1:      usd,
		Fee:         model.FeeTier3000,
		ProtocolFee: decimal.RequireFromString("0.2"),
	}); err != nil {
		t.Fatalf("authority must be able to set the fee: %v", err)
	}

	if _, err := e.CollectProtocolFees(ctx, bob, model.CollectProtocolFeesRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		Recipient: bob,
	}); !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCollectProtocolFees(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0.1")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -887220, 887220, 100_000, "swap-depth")
	if _, err := e.Swap(ctx, bob, model.SwapRequest{
		Token0:     gala,
		Token1:     usd,
		Fee:        model.FeeTier3000,
		ZeroForOne: true,
		Amount:     decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("swap: %v", err)
	}

	resp, err := e.CollectProtocolFees(ctx, admin, model.CollectProtocolFeesRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		Recipient: admin,
	})
	if err != nil {
		t.Fatalf("collect protocol fees: %v", err)
	}
	if !resp.Amount0.IsPositive() {
		t.Fatalf("expected positive token0 protocol fees, got %s", resp.Amount0)
	}

	pool, err := e.GetPoolData(ctx, gala, usd, model.FeeTier3000)
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if !pool.ProtocolFees0.IsZero() || !pool.ProtocolFees1.IsZero() {
		t.Fatalf("accruals must be zeroed, got %s/%s", pool.ProtocolFees0, pool.ProtocolFees1)
	}
}

func TestGetUserPositionsPagination(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	addTestLiquidity(t, e, alice, -60, 60, 100, "page-1")
	addTestLiquidity(t, e, alice, -120, 120, 100, "page-2")
	addTestLiquidity(t, e, alice, -180, 180, 100, "page-3")

	firstPage, err := e.GetUserPositions(ctx, alice, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(firstPage.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(firstPage.Positions))
	}
	if firstPage.Bookmark == "" {
		t.Fatal("expected a continuation bookmark")
	}

	secondPage, err := e.GetUserPositions(ctx, alice, firstPage.Bookmark, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(secondPage.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(secondPage.Positions))
	}
	if secondPage.Bookmark != "" {
		t.Fatalf("expected no bookmark on the last page, got %q", secondPage.Bookmark)
	}

	seen := make(map[string]bool)
	for _, p := range append(firstPage.Positions, secondPage.Positions...) {
		if seen[p.PositionID] {
			t.Fatalf("position %s returned twice", p.PositionID)
		}
		seen[p.PositionID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct positions, got %d", len(seen))
	}
}

func TestNoNegativeBalancesAfterBurnCollect(t *testing.T) {
	e := newTestEngine(t)
	createTestPool(t, e, "0")
	ctx := context.Background()

	added := addTestLiquidity(t, e, alice, -600, 600, 1000, "neg-check")
	half := added.Liquidity.Div(decimal.NewFromInt(2))
	if _, err := e.RemoveLiquidity(ctx, alice, model.BurnRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -600,
		TickUpper: 600,
		Liquidity: half,
	}); err != nil {
		t.Fatalf("remove half: %v", err)
	}

	view, err := e.GetPosition(ctx, model.GetPositionRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -600,
		TickUpper: 600,
		Owner:     alice,
	})
	if err != nil {
		t.Fatalf("get position: %v", err)
	}
	if view.Liquidity.IsNegative() || view.TokensOwed0.IsNegative() || view.TokensOwed1.IsNegative() {
		t.Fatalf("negative balances on position: %+v", view)
	}

	// burning more than the position holds must fail
	_, err = e.RemoveLiquidity(ctx, alice, model.BurnRequest{
		Token0:    gala,
		Token1:    usd,
		Fee:       model.FeeTier3000,
		TickLower: -600,
		TickUpper: 600,
		Liquidity: added.Liquidity,
	})
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for over-burn, got %v", err)
	}
}
