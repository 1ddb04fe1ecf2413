package model

import (
	"errors"
	"fmt"
)

// Error kinds for the dex core. Callers match with errors.Is; every kind is
// recoverable by retrying with different parameters.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks state conflicts: pool already exists, pool missing,
	// or a swap that cannot find further liquidity within tick bounds.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a referenced position, tick, or pool that must exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks protocol-fee operations by non-authorities.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSlippage marks realized amounts violating caller-specified bounds.
	ErrSlippage = errors.New("slippage exceeded")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

func Slippagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSlippage, fmt.Sprintf(format, args...))
}
