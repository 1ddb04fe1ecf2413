package dexmath

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/shopspring/decimal"
)

// Valid tick bounds. A tick maps to sqrtPrice = 1.0001^(tick/2); the bounds
// keep prices within the representable accounting range.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

// floatPrec is the binary precision used for the power/log evaluation.
const floatPrec = 256

var tickBase = mustParseFloat("1.0001")

// MinSqrtPrice and MaxSqrtPrice are the prices of the extreme ticks.
var (
	MinSqrtPrice = mustTickSqrtPrice(MinTick)
	MaxSqrtPrice = mustTickSqrtPrice(MaxTick)
)

// TickToSqrtPrice converts a tick index to its square-root price.
func TickToSqrtPrice(tick int32) (decimal.Decimal, error) {
	if tick < MinTick || tick > MaxTick {
		return zero, fmt.Errorf("tick %d outside [%d, %d]", tick, MinTick, MaxTick)
	}
	exp := new(big.Float).SetPrec(floatPrec).SetInt64(int64(tick))
	pow := bigfloat.Pow(tickBase, exp)
	sqrt := new(big.Float).SetPrec(floatPrec).Sqrt(pow)
	return decimalFromFloat(sqrt)
}

// SqrtPriceToTick returns the largest tick whose price does not exceed
// sqrtPrice.
func SqrtPriceToTick(sqrtPrice decimal.Decimal) (int32, error) {
	if !sqrtPrice.IsPositive() {
		return 0, fmt.Errorf("sqrt price must be positive, got %s", sqrtPrice)
	}
	if sqrtPrice.LessThan(MinSqrtPrice) || sqrtPrice.GreaterThan(MaxSqrtPrice) {
		return 0, fmt.Errorf("sqrt price %s outside representable tick range", sqrtPrice)
	}

	f, ok := new(big.Float).SetPrec(floatPrec).SetString(sqrtPrice.String())
	if !ok {
		return 0, fmt.Errorf("parse sqrt price %s", sqrtPrice)
	}
	// tick = 2*ln(sqrtPrice)/ln(1.0001), then correct for rounding at the
	// boundary since the float estimate can be off by one.
	num := new(big.Float).SetPrec(floatPrec).Mul(bigfloat.Log(f), big.NewFloat(2))
	ratio := new(big.Float).SetPrec(floatPrec).Quo(num, bigfloat.Log(tickBase))
	est, _ := ratio.Int64()

	tick := int32(est)
	if tick < MinTick {
		tick = MinTick
	}
	if tick > MaxTick {
		tick = MaxTick
	}
	for tick > MinTick {
		p, err := TickToSqrtPrice(tick)
		if err != nil {
			return 0, err
		}
		if p.LessThanOrEqual(sqrtPrice) {
			break
		}
		tick--
	}
	for tick < MaxTick {
		p, err := TickToSqrtPrice(tick + 1)
		if err != nil {
			return 0, err
		}
		if p.GreaterThan(sqrtPrice) {
			break
		}
		tick++
	}
	return tick, nil
}

func decimalFromFloat(f *big.Float) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(f.Text('f', int(Precision)))
	if err != nil {
		return zero, fmt.Errorf("convert %s: %w", f.Text('g', 10), err)
	}
	return d, nil
}

func mustParseFloat(s string) *big.Float {
	f, _, err := big.ParseFloat(s, 10, floatPrec, big.ToNearestEven)
	if err != nil {
		panic(err)
	}
	return f
}

func mustTickSqrtPrice(tick int32) decimal.Decimal {
	d, err := TickToSqrtPrice(tick)
	if err != nil {
		panic(err)
	}
	return d
}
