package dexmath

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetAmount0Delta(t *testing.T) {
	// L * (b - a) / (b * a) = 6 * 1 / 2 = 3
	got, err := GetAmount0Delta(dec("1"), dec("2"), dec("6"), false)
	if err != nil {
		t.Fatalf("GetAmount0Delta: %v", err)
	}
	if !got.Equal(dec("3")) {
		t.Fatalf("expected 3, got %s", got)
	}

	// order of bounds must not matter
	swapped, err := GetAmount0Delta(dec("2"), dec("1"), dec("6"), false)
	if err != nil {
		t.Fatalf("GetAmount0Delta swapped: %v", err)
	}
	if !swapped.Equal(got) {
		t.Fatalf("bound order changed result: %s vs %s", swapped, got)
	}
}

func TestGetAmount0DeltaRounding(t *testing.T) {
	up, err := GetAmount0Delta(dec("1"), dec("3"), dec("10"), true)
	if err != nil {
		t.Fatalf("round up: %v", err)
	}
	down, err := GetAmount0Delta(dec("1"), dec("3"), dec("10"), false)
	if err != nil {
		t.Fatalf("round down: %v", err)
	}
	if !up.GreaterThan(down) {
		t.Fatalf("expected ceil %s > floor %s for inexact quotient", up, down)
	}
}

func TestGetAmount0DeltaRejectsZeroPrice(t *testing.T) {
	if _, err := GetAmount0Delta(dec("0"), dec("2"), dec("6"), false); !errors.Is(err, ErrSqrtPriceZero) {
		t.Fatalf("expected ErrSqrtPriceZero, got %v", err)
	}
}

func TestGetAmount1Delta(t *testing.T) {
	// L * (b - a) = 100 * 0.5 = 50
	got := GetAmount1Delta(dec("1"), dec("1.5"), dec("100"), false)
	if !got.Equal(dec("50")) {
		t.Fatalf("expected 50, got %s", got)
	}
	swapped := GetAmount1Delta(dec("1.5"), dec("1"), dec("100"), true)
	if !swapped.Equal(got) {
		t.Fatalf("bound order changed result: %s vs %s", swapped, got)
	}
}

func TestNextSqrtPriceFromInput(t *testing.T) {
	// token1 in, price rises by amount/L: 1 + 5/10 = 1.5
	next, err := GetNextSqrtPriceFromInput(dec("1"), dec("10"), dec("5"), false)
	if err != nil {
		t.Fatalf("amount1 in: %v", err)
	}
	if !next.Equal(dec("1.5")) {
		t.Fatalf("expected 1.5, got %s", next)
	}

	// token0 in, price falls: L*p / (L + amt*p) = 10 / 20 = 0.5
	next, err = GetNextSqrtPriceFromInput(dec("1"), dec("10"), dec("10"), true)
	if err != nil {
		t.Fatalf("amount0 in: %v", err)
	}
	if !next.Equal(dec("0.5")) {
		t.Fatalf("expected 0.5, got %s", next)
	}
}

func TestNextSqrtPriceFromInputZeroAmount(t *testing.T) {
	next, err := GetNextSqrtPriceFromInput(dec("1.3"), dec("10"), dec("0"), true)
	if err != nil {
		t.Fatalf("zero amount: %v", err)
	}
	if !next.Equal(dec("1.3")) {
		t.Fatalf("expected unchanged price, got %s", next)
	}
}

func TestNextSqrtPriceFromOutput(t *testing.T) {
	// paying token1 out moves price down: 1 - 4/10 = 0.6
	next, err := GetNextSqrtPriceFromOutput(dec("1"), dec("10"), dec("4"), true)
	if err != nil {
		t.Fatalf("amount1 out: %v", err)
	}
	if !next.Equal(dec("0.6")) {
		t.Fatalf("expected 0.6, got %s", next)
	}

	// paying token0 out moves price up: L*p / (L - amt*p) = 10 / 5 = 2
	next, err = GetNextSqrtPriceFromOutput(dec("1"), dec("10"), dec("5"), false)
	if err != nil {
		t.Fatalf("amount0 out: %v", err)
	}
	if !next.Equal(dec("2")) {
		t.Fatalf("expected 2, got %s", next)
	}
}

func TestNextSqrtPriceFromOutputExhaustsReserves(t *testing.T) {
	if _, err := GetNextSqrtPriceFromOutput(dec("1"), dec("10"), dec("10"), true); !errors.Is(err, ErrPriceUnderflow) {
		t.Fatalf("expected ErrPriceUnderflow, got %v", err)
	}
	if _, err := GetNextSqrtPriceFromOutput(dec("1"), dec("10"), dec("10"), false); !errors.Is(err, ErrInsufficientReserves) {
		t.Fatalf("expected ErrInsufficientReserves, got %v", err)
	}
}

func TestNextSqrtPriceRejectsBadInputs(t *testing.T) {
	if _, err := GetNextSqrtPriceFromInput(dec("0"), dec("10"), dec("1"), true); !errors.Is(err, ErrSqrtPriceZero) {
		t.Fatalf("expected ErrSqrtPriceZero, got %v", err)
	}
	if _, err := GetNextSqrtPriceFromInput(dec("1"), dec("0"), dec("1"), true); !errors.Is(err, ErrLiquidityZero) {
		t.Fatalf("expected ErrLiquidityZero, got %v", err)
	}
}
