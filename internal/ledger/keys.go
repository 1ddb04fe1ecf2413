package ledger

import (
	"fmt"
	"strings"
)

// Composite keys are the object type and its identity attributes joined by a
// separator byte that sorts before any printable attribute content, so range
// scans over a prefix enumerate one object type deterministically.

const keySep = "\x00"

// Object type prefixes.
const (
	TypePool          = "dexpool"
	TypeTick          = "dextick"
	TypePosition      = "dexposition"
	TypePositionOwner = "dexpositionowner"
	TypeTokenClass    = "tokenclass"
	TypeTokenBalance  = "tokenbalance"
)

// Key builds a composite key from an object type and identity attributes.
func Key(objectType string, attrs ...string) string {
	parts := append([]string{objectType}, attrs...)
	return strings.Join(parts, keySep)
}

// PrefixRange returns the [start, end) bounds covering every key under the
// given composite prefix.
func PrefixRange(objectType string, attrs ...string) (string, string) {
	prefix := Key(objectType, attrs...) + keySep
	return prefix, prefix + "\xff"
}

// TickAttr renders a signed tick index so lexicographic key order matches
// numeric order. Ticks are offset into the non-negative range and zero-padded.
func TickAttr(tick int32) string {
	const tickOffset = 1_000_000 // > MaxTick, keeps all offsets 7 digits
	return fmt.Sprintf("%07d", int64(tick)+tickOffset)
}
