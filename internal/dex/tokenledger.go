package dex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tickswap/internal/ledger"
	"tickswap/internal/model"
)

// TokenLedger keeps token classes and balances in the same ledger transaction
// as the pool state, so token movement joins the atomic write-set. The dex
// core never mutates balances except through it.
type TokenLedger struct {
	ctx context.Context
	txn *ledger.Txn
}

func NewTokenLedger(ctx context.Context, txn *ledger.Txn) *TokenLedger {
	return &TokenLedger{ctx: ctx, txn: txn}
}

func classKey(key model.TokenClassKey) string {
	return ledger.Key(ledger.TypeTokenClass, key.Collection, key.Category, key.Type, key.AdditionalKey)
}

func balanceKey(owner string, key model.TokenClassKey) string {
	return ledger.Key(ledger.TypeTokenBalance, owner, key.String())
}

// RegisterClass persists a token class; registering an existing class is a
// conflict.
func (l *TokenLedger) RegisterClass(class model.TokenClass) error {
	var existing model.TokenClass
	ok, err := l.txn.GetJSON(l.ctx, classKey(class.Key), &existing)
	if err != nil {
		return err
	}
	if ok {
		return model.Conflictf("token class %s already registered", class.Key)
	}
	return l.txn.PutJSON(classKey(class.Key), class)
}

// FetchClass loads a registered token class.
func (l *TokenLedger) FetchClass(key model.TokenClassKey) (model.TokenClass, error) {
	var class model.TokenClass
	ok, err := l.txn.GetJSON(l.ctx, classKey(key), &class)
	if err != nil {
		return model.TokenClass{}, err
	}
	if !ok {
		return model.TokenClass{}, model.NotFoundf("token class %s", key)
	}
	return class, nil
}

// ClassExists reports whether a token class is registered.
func (l *TokenLedger) ClassExists(key model.TokenClassKey) (bool, error) {
	var class model.TokenClass
	return l.txn.GetJSON(l.ctx, classKey(key), &class)
}

// BalanceOf returns the owner's balance for a token class, zero when absent.
func (l *TokenLedger) BalanceOf(owner string, key model.TokenClassKey) (decimal.Decimal, error) {
	raw, err := l.txn.Get(l.ctx, balanceKey(owner, key))
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	balance, err := decimal.NewFromString(string(raw))
	if err != nil {
		return zero, fmt.Errorf("decode balance of %s for %s: %w", key, owner, err)
	}
	return balance, nil
}

func (l *TokenLedger) setBalance(owner string, key model.TokenClassKey, balance decimal.Decimal) {
	l.txn.Put(balanceKey(owner, key), []byte(balance.String()))
}

// Credit mints amount into the owner's balance. Used to seed supply at class
// registration.
func (l *TokenLedger) Credit(owner string, key model.TokenClassKey, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return model.Validationf("credit amount must be non-negative, got %s", amount)
	}
	balance, err := l.BalanceOf(owner, key)
	if err != nil {
		return err
	}
	l.setBalance(owner, key, balance.Add(amount))
	return nil
}

// Transfer moves custody of amount from one account to another. Insufficient
// balance fails validation; nothing is written in that case.
func (l *TokenLedger) Transfer(from, to string, key model.TokenClassKey, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return model.Validationf("transfer amount must be non-negative, got %s", amount)
	}
	if amount.IsZero() {
		return nil
	}
	fromBalance, err := l.BalanceOf(from, key)
	if err != nil {
		return err
	}
	if fromBalance.LessThan(amount) {
		return model.Validationf("insufficient %s balance: %s has %s, needs %s", key, from, fromBalance, amount)
	}
	toBalance, err := l.BalanceOf(to, key)
	if err != nil {
		return err
	}
	l.setBalance(from, key, fromBalance.Sub(amount))
	l.setBalance(to, key, toBalance.Add(amount))
	return nil
}
