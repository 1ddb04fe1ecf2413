package dex

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"tickswap/internal/dexmath"
	"tickswap/internal/ledger"
	"tickswap/internal/model"
)

// DexPositionData is one liquidity position. Ranges are not unique per owner,
// so the position carries an opaque identifier derived from the caller's
// idempotency key.
type DexPositionData struct {
	PoolHash   string `json:"pool_hash"`
	PositionID string `json:"position_id"`
	Owner      string `json:"owner"`

	Token0 model.TokenClassKey `json:"token0"`
	Token1 model.TokenClassKey `json:"token1"`
	Fee    model.FeeTier       `json:"fee"`

	TickLower int32 `json:"tick_lower"`
	TickUpper int32 `json:"tick_upper"`

	Liquidity            decimal.Decimal `json:"liquidity"`
	FeeGrowthInside0Last decimal.Decimal `json:"fee_growth_inside0_last"`
	FeeGrowthInside1Last decimal.Decimal `json:"fee_growth_inside1_last"`
	TokensOwed0          decimal.Decimal `json:"tokens_owed0"`
	TokensOwed1          decimal.Decimal `json:"tokens_owed1"`
}

// Update credits fees accrued since the last touch and applies a signed
// liquidity delta.
func (p *DexPositionData) Update(liquidityDelta, feeGrowthInside0, feeGrowthInside1 decimal.Decimal) error {
	if p.Liquidity.IsPositive() {
		p.TokensOwed0 = p.TokensOwed0.Add(feeGrowthInside0.Sub(p.FeeGrowthInside0Last).Mul(p.Liquidity))
		p.TokensOwed1 = p.TokensOwed1.Add(feeGrowthInside1.Sub(p.FeeGrowthInside1Last).Mul(p.Liquidity))
	}
	p.FeeGrowthInside0Last = feeGrowthInside0
	p.FeeGrowthInside1Last = feeGrowthInside1

	next, err := dexmath.AddLiquidityDelta(p.Liquidity, liquidityDelta)
	if err != nil {
		return model.Validationf("position %s liquidity: %v", p.PositionID, err)
	}
	p.Liquidity = next
	return nil
}

// Empty reports whether liquidity and both owed balances are below the dust
// threshold, making the position eligible for cleanup.
func (p *DexPositionData) Empty() bool {
	return p.Liquidity.LessThan(dexmath.DustEpsilon) &&
		p.TokensOwed0.LessThan(dexmath.DustEpsilon) &&
		p.TokensOwed1.LessThan(dexmath.DustEpsilon)
}

// DexPositionOwner indexes one owner's positions in one pool by tick range,
// so existence checks and enumeration avoid scanning every position.
type DexPositionOwner struct {
	Owner    string              `json:"owner"`
	PoolHash string              `json:"pool_hash"`
	Ranges   map[string][]string `json:"ranges"`
}

func rangeKey(tickLower, tickUpper int32) string {
	return fmt.Sprintf("%d:%d", tickLower, tickUpper)
}

// SortedRanges returns the index's range keys in deterministic order for
// pagination.
func (o *DexPositionOwner) SortedRanges() []string {
	keys := make([]string, 0, len(o.Ranges))
	for k := range o.Ranges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *DexPositionOwner) add(tickLower, tickUpper int32, positionID string) {
	if o.Ranges == nil {
		o.Ranges = make(map[string][]string)
	}
	key := rangeKey(tickLower, tickUpper)
	for _, id := range o.Ranges[key] {
		if id == positionID {
			return
		}
	}
	o.Ranges[key] = append(o.Ranges[key], positionID)
}

func (o *DexPositionOwner) remove(tickLower, tickUpper int32, positionID string) {
	key := rangeKey(tickLower, tickUpper)
	ids := o.Ranges[key]
	for i, id := range ids {
		if id == positionID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(o.Ranges, key)
	} else {
		o.Ranges[key] = ids
	}
}

// PositionKeeper loads and persists positions and the ownership index inside
// one ledger transaction.
type PositionKeeper struct {
	ctx      context.Context
	txn      *ledger.Txn
	poolHash string
}

func NewPositionKeeper(ctx context.Context, txn *ledger.Txn, poolHash string) *PositionKeeper {
	return &PositionKeeper{ctx: ctx, txn: txn, poolHash: poolHash}
}

func (k *PositionKeeper) positionKey(tickUpper, tickLower int32, positionID string) string {
	return ledger.Key(ledger.TypePosition, k.poolHash, ledger.TickAttr(tickUpper), ledger.TickAttr(tickLower), positionID)
}

func (k *PositionKeeper) ownerKey(owner string) string {
	return ledger.Key(ledger.TypePositionOwner, owner, k.poolHash)
}

// FetchPosition loads a position by range and id; absence is an error.
func (k *PositionKeeper) FetchPosition(tickLower, tickUpper int32, positionID string) (*DexPositionData, error) {
	var data DexPositionData
	ok, err := k.txn.GetJSON(k.ctx, k.positionKey(tickUpper, tickLower, positionID), &data)
	if err != nil {
		return nil, fmt.Errorf("fetch position %s: %w", positionID, err)
	}
	if !ok {
		return nil, model.NotFoundf("position %s in range [%d, %d]", positionID, tickLower, tickUpper)
	}
	return &data, nil
}

func (k *PositionKeeper) fetchOwnerIndex(owner string) (*DexPositionOwner, error) {
	index := &DexPositionOwner{Owner: owner, PoolHash: k.poolHash, Ranges: make(map[string][]string)}
	if _, err := k.txn.GetJSON(k.ctx, k.ownerKey(owner), index); err != nil {
		return nil, fmt.Errorf("fetch position index for %s: %w", owner, err)
	}
	index.Owner = owner
	index.PoolHash = k.poolHash
	if index.Ranges == nil {
		index.Ranges = make(map[string][]string)
	}
	return index, nil
}

func (k *PositionKeeper) saveOwnerIndex(index *DexPositionOwner) error {
	if err := k.txn.PutJSON(k.ownerKey(index.Owner), index); err != nil {
		return fmt.Errorf("save position index for %s: %w", index.Owner, err)
	}
	return nil
}

// Save persists a position record.
func (k *PositionKeeper) Save(position *DexPositionData) error {
	key := k.positionKey(position.TickUpper, position.TickLower, position.PositionID)
	if err := k.txn.PutJSON(key, position); err != nil {
		return fmt.Errorf("save position %s: %w", position.PositionID, err)
	}
	return nil
}

// FetchOrCreatePosition resolves the position a liquidity deposit targets.
// With an explicit positionID the position must already exist in the claimed
// range. Otherwise the ownership index is consulted for an existing position
// in the exact range, and failing that a new identifier is derived from the
// caller's idempotency key, so replays resolve to the same position. The index
// entry is written before the position record so lookups later in the same
// transaction see a consistent index.
func (k *PositionKeeper) FetchOrCreatePosition(pool *Pool, owner string, tickLower, tickUpper int32, positionID, uniqueKey string) (*DexPositionData, error) {
	if positionID != "" {
		position, err := k.FetchPosition(tickLower, tickUpper, positionID)
		if err != nil {
			return nil, err
		}
		if position.Owner != owner {
			return nil, model.NotFoundf("position %s does not belong to %s", positionID, owner)
		}
		return position, nil
	}

	index, err := k.fetchOwnerIndex(owner)
	if err != nil {
		return nil, err
	}
	if ids := index.Ranges[rangeKey(tickLower, tickUpper)]; len(ids) > 0 {
		return k.FetchPosition(tickLower, tickUpper, ids[0])
	}

	newID := derivePositionID(owner, k.poolHash, tickLower, tickUpper, uniqueKey)
	index.add(tickLower, tickUpper, newID)
	if err := k.saveOwnerIndex(index); err != nil {
		return nil, err
	}

	position := &DexPositionData{
		PoolHash:   k.poolHash,
		PositionID: newID,
		Owner:      owner,
		Token0:     pool.Token0,
		Token1:     pool.Token1,
		Fee:        pool.Fee,
		TickLower:  tickLower,
		TickUpper:  tickUpper,
	}
	if err := k.Save(position); err != nil {
		return nil, err
	}
	return position, nil
}

// ResolvePosition finds the caller's position by explicit id or by range via
// the ownership index; absence is a not-found error.
func (k *PositionKeeper) ResolvePosition(owner string, tickLower, tickUpper int32, positionID string) (*DexPositionData, error) {
	if positionID != "" {
		position, err := k.FetchPosition(tickLower, tickUpper, positionID)
		if err != nil {
			return nil, err
		}
		if position.Owner != owner {
			return nil, model.NotFoundf("position %s does not belong to %s", positionID, owner)
		}
		return position, nil
	}
	index, err := k.fetchOwnerIndex(owner)
	if err != nil {
		return nil, err
	}
	ids := index.Ranges[rangeKey(tickLower, tickUpper)]
	if len(ids) == 0 {
		return nil, model.NotFoundf("no position for %s in range [%d, %d]", owner, tickLower, tickUpper)
	}
	return k.FetchPosition(tickLower, tickUpper, ids[0])
}

// UpdateOrRemovePosition persists the position, or deletes it and its index
// entry once everything on it has fallen below the dust threshold.
func (k *PositionKeeper) UpdateOrRemovePosition(position *DexPositionData) error {
	if !position.Empty() {
		return k.Save(position)
	}
	index, err := k.fetchOwnerIndex(position.Owner)
	if err != nil {
		return err
	}
	index.remove(position.TickLower, position.TickUpper, position.PositionID)
	if err := k.saveOwnerIndex(index); err != nil {
		return err
	}
	k.txn.Delete(k.positionKey(position.TickUpper, position.TickLower, position.PositionID))
	return nil
}

// derivePositionID hashes the caller-supplied idempotency key together with
// the position identity, so replaying the same logical request yields the
// same id.
func derivePositionID(owner, poolHash string, tickLower, tickUpper int32, uniqueKey string) string {
	preimage := fmt.Sprintf("%s|%s|%s|%s", owner, poolHash, rangeKey(tickLower, tickUpper), uniqueKey)
	return hex.EncodeToString(crypto.Keccak256([]byte(preimage)))
}
