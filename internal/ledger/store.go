package ledger

import "context"

// KV is a key/value pair returned from range scans.
type KV struct {
	Key   string
	Value []byte
}

// Write is one entry of an atomic write-set.
type Write struct {
	Key    string
	Value  []byte
	Delete bool
}

// Store is a keyed byte store with ordered range scans and atomic write-sets.
// Get returns (nil, nil) for absent keys; "doesn't exist yet" is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetRange returns pairs with start <= key < end in ascending key order,
	// at most limit entries (limit <= 0 means no cap).
	GetRange(ctx context.Context, start, end string, limit int) ([]KV, error)
	// ApplyWriteSet applies all writes atomically: either every entry lands
	// or none does.
	ApplyWriteSet(ctx context.Context, writes []Write) error
	Close() error
}
