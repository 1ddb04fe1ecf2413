package model

import "github.com/shopspring/decimal"

// Request and response shapes for the pool operations. Wire encoding is owned
// by the surrounding layer; validation lives here so every entry point applies
// the same contract.

// CreatePoolRequest creates a pool for a canonical token pair and fee tier.
type CreatePoolRequest struct {
	Token0           string          `json:"token0"`
	Token1           string          `json:"token1"`
	Fee              FeeTier         `json:"fee"`
	InitialSqrtPrice decimal.Decimal `json:"initial_sqrt_price"`
	ProtocolFee      decimal.Decimal `json:"protocol_fee"`
}

func (r CreatePoolRequest) Validate() error {
	t0, err := ParseTokenClassKey(r.Token0)
	if err != nil {
		return err
	}
	t1, err := ParseTokenClassKey(r.Token1)
	if err != nil {
		return err
	}
	if !t0.Less(t1) {
		return Validationf("token0 %q must order before token1 %q", r.Token0, r.Token1)
	}
	if !r.Fee.Supported() {
		return Validationf("unsupported fee tier %d", r.Fee)
	}
	if !r.InitialSqrtPrice.IsPositive() {
		return Validationf("initial sqrt price must be positive, got %s", r.InitialSqrtPrice)
	}
	if r.ProtocolFee.IsNegative() || r.ProtocolFee.GreaterThan(decimal.NewFromInt(1)) {
		return Validationf("protocol fee %s outside [0,1]", r.ProtocolFee)
	}
	return nil
}

// CreatePoolResponse returns the identity of the created (or existing) pool.
type CreatePoolResponse struct {
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Fee      FeeTier `json:"fee"`
	PoolHash string `json:"pool_hash"`
}

// AddLiquidityRequest deposits liquidity into a tick range.
type AddLiquidityRequest struct {
	Token0         string          `json:"token0"`
	Token1         string          `json:"token1"`
	Fee            FeeTier         `json:"fee"`
	TickLower      int32           `json:"tick_lower"`
	TickUpper      int32           `json:"tick_upper"`
	Amount0Desired decimal.Decimal `json:"amount0_desired"`
	Amount1Desired decimal.Decimal `json:"amount1_desired"`
	Amount0Min     decimal.Decimal `json:"amount0_min"`
	Amount1Min     decimal.Decimal `json:"amount1_min"`
	// PositionID targets an existing position; empty means resolve by range
	// or create a new position from UniqueKey.
	PositionID string `json:"position_id,omitempty"`
	// UniqueKey is the caller-supplied idempotency key for position creation.
	UniqueKey string `json:"unique_key"`
}

func (r AddLiquidityRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if r.Amount0Desired.IsNegative() || r.Amount1Desired.IsNegative() {
		return Validationf("desired amounts must be non-negative")
	}
	if r.Amount0Desired.IsZero() && r.Amount1Desired.IsZero() {
		return Validationf("at least one desired amount must be positive")
	}
	if r.Amount0Min.IsNegative() || r.Amount1Min.IsNegative() {
		return Validationf("minimum amounts must be non-negative")
	}
	if r.PositionID == "" && r.UniqueKey == "" {
		return Validationf("unique key is required when no position id is given")
	}
	return nil
}

// AddLiquidityResponse reports realized amounts and the touched position.
type AddLiquidityResponse struct {
	PositionID string          `json:"position_id"`
	Liquidity  decimal.Decimal `json:"liquidity"`
	Amount0    decimal.Decimal `json:"amount0"`
	Amount1    decimal.Decimal `json:"amount1"`
}

// BurnRequest removes liquidity from a position; removed amounts become owed.
type BurnRequest struct {
	Token0     string          `json:"token0"`
	Token1     string          `json:"token1"`
	Fee        FeeTier         `json:"fee"`
	TickLower  int32           `json:"tick_lower"`
	TickUpper  int32           `json:"tick_upper"`
	Liquidity  decimal.Decimal `json:"liquidity"`
	PositionID string          `json:"position_id,omitempty"`
}

func (r BurnRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if !r.Liquidity.IsPositive() {
		return Validationf("burn liquidity must be positive, got %s", r.Liquidity)
	}
	return nil
}

// BurnResponse reports amounts credited to the position's owed balances.
type BurnResponse struct {
	PositionID string          `json:"position_id"`
	Amount0    decimal.Decimal `json:"amount0"`
	Amount1    decimal.Decimal `json:"amount1"`
}

// CollectRequest withdraws up to the requested amounts from owed balances.
type CollectRequest struct {
	Token0           string          `json:"token0"`
	Token1           string          `json:"token1"`
	Fee              FeeTier         `json:"fee"`
	TickLower        int32           `json:"tick_lower"`
	TickUpper        int32           `json:"tick_upper"`
	Amount0Requested decimal.Decimal `json:"amount0_requested"`
	Amount1Requested decimal.Decimal `json:"amount1_requested"`
	PositionID       string          `json:"position_id,omitempty"`
}

func (r CollectRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if r.Amount0Requested.IsNegative() || r.Amount1Requested.IsNegative() {
		return Validationf("requested amounts must be non-negative")
	}
	return nil
}

// CollectResponse reports the withdrawn amounts.
type CollectResponse struct {
	PositionID string          `json:"position_id"`
	Amount0    decimal.Decimal `json:"amount0"`
	Amount1    decimal.Decimal `json:"amount1"`
}

// SwapRequest trades against a pool. Amount is positive for exact-input and
// negative for exact-output.
type SwapRequest struct {
	Token0        string          `json:"token0"`
	Token1        string          `json:"token1"`
	Fee           FeeTier         `json:"fee"`
	ZeroForOne    bool            `json:"zero_for_one"`
	Amount        decimal.Decimal `json:"amount"`
	SqrtPriceLimit decimal.Decimal `json:"sqrt_price_limit"`
	// AmountOutMinimum bounds exact-input swaps; zero disables the check.
	AmountOutMinimum decimal.Decimal `json:"amount_out_minimum,omitempty"`
	// AmountInMaximum bounds exact-output swaps; zero disables the check.
	AmountInMaximum decimal.Decimal `json:"amount_in_maximum,omitempty"`
}

func (r SwapRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if r.Amount.IsZero() {
		return Validationf("swap amount must be non-zero")
	}
	if r.AmountOutMinimum.IsNegative() || r.AmountInMaximum.IsNegative() {
		return Validationf("slippage bounds must be non-negative")
	}
	return nil
}

// SwapResponse reports signed fills: positive means the pool received the
// token, negative means the pool paid it out.
type SwapResponse struct {
	Amount0      decimal.Decimal `json:"amount0"`
	Amount1      decimal.Decimal `json:"amount1"`
	SqrtPrice    decimal.Decimal `json:"sqrt_price"`
	Tick         int32           `json:"tick"`
	ProtocolFee  decimal.Decimal `json:"protocol_fee"`
}

// Slot0 is the price, tick, and liquidity snapshot of a pool.
type Slot0 struct {
	SqrtPrice decimal.Decimal `json:"sqrt_price"`
	Tick      int32           `json:"tick"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

// PositionView is a read model of a position for enumeration endpoints.
type PositionView struct {
	PoolHash    string          `json:"pool_hash"`
	Token0      string          `json:"token0"`
	Token1      string          `json:"token1"`
	Fee         FeeTier         `json:"fee"`
	PositionID  string          `json:"position_id"`
	TickLower   int32           `json:"tick_lower"`
	TickUpper   int32           `json:"tick_upper"`
	Liquidity   decimal.Decimal `json:"liquidity"`
	TokensOwed0 decimal.Decimal `json:"tokens_owed0"`
	TokensOwed1 decimal.Decimal `json:"tokens_owed1"`
}

// GetUserPositionsResponse is a bookmark-paginated slice of a user's positions.
type GetUserPositionsResponse struct {
	Positions []PositionView `json:"positions"`
	Bookmark  string         `json:"bookmark,omitempty"`
}

// RegisterTokenClassRequest seeds a token class, optionally with an initial
// supply credited to an account.
type RegisterTokenClassRequest struct {
	Token         string          `json:"token"`
	Symbol        string          `json:"symbol"`
	Decimals      int32           `json:"decimals"`
	Image         string          `json:"image,omitempty"`
	Authorities   []string        `json:"authorities,omitempty"`
	InitialSupply decimal.Decimal `json:"initial_supply,omitempty"`
	SupplyTo      string          `json:"supply_to,omitempty"`
}

func (r RegisterTokenClassRequest) Validate() error {
	if _, err := ParseTokenClassKey(r.Token); err != nil {
		return err
	}
	if r.Symbol == "" {
		return Validationf("token symbol is required")
	}
	if r.Decimals < 0 || r.Decimals > 32 {
		return Validationf("token decimals %d outside [0, 32]", r.Decimals)
	}
	if r.InitialSupply.IsNegative() {
		return Validationf("initial supply must be non-negative")
	}
	return nil
}

// CollectProtocolFeesRequest withdraws accrued protocol fees to a recipient.
type CollectProtocolFeesRequest struct {
	Token0    string  `json:"token0"`
	Token1    string  `json:"token1"`
	Fee       FeeTier `json:"fee"`
	Recipient string  `json:"recipient"`
}

func (r CollectProtocolFeesRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if r.Recipient == "" {
		return Validationf("recipient is required")
	}
	return nil
}

// CollectProtocolFeesResponse reports the withdrawn protocol-fee amounts.
type CollectProtocolFeesResponse struct {
	Amount0 decimal.Decimal `json:"amount0"`
	Amount1 decimal.Decimal `json:"amount1"`
}

// SetProtocolFeeRequest updates a pool's protocol-fee fraction.
type SetProtocolFeeRequest struct {
	Token0      string          `json:"token0"`
	Token1      string          `json:"token1"`
	Fee         FeeTier         `json:"fee"`
	ProtocolFee decimal.Decimal `json:"protocol_fee"`
}

func (r SetProtocolFeeRequest) Validate() error {
	if err := validatePair(r.Token0, r.Token1, r.Fee); err != nil {
		return err
	}
	if r.ProtocolFee.IsNegative() || r.ProtocolFee.GreaterThan(decimal.NewFromInt(1)) {
		return Validationf("protocol fee %s outside [0,1]", r.ProtocolFee)
	}
	return nil
}

// GetPositionRequest addresses one position by range and optional id.
type GetPositionRequest struct {
	Token0     string  `json:"token0"`
	Token1     string  `json:"token1"`
	Fee        FeeTier `json:"fee"`
	TickLower  int32   `json:"tick_lower"`
	TickUpper  int32   `json:"tick_upper"`
	Owner      string  `json:"owner"`
	PositionID string  `json:"position_id,omitempty"`
}

func (r GetPositionRequest) Validate() error {
	return validatePair(r.Token0, r.Token1, r.Fee)
}

func validatePair(token0, token1 string, fee FeeTier) error {
	t0, err := ParseTokenClassKey(token0)
	if err != nil {
		return err
	}
	t1, err := ParseTokenClassKey(token1)
	if err != nil {
		return err
	}
	if !t0.Less(t1) {
		return Validationf("token0 %q must order before token1 %q", token0, token1)
	}
	if !fee.Supported() {
		return Validationf("unsupported fee tier %d", fee)
	}
	return nil
}
