package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Txn is a read-then-write-set transaction over a Store. Reads are cached for
// the life of the transaction; writes and deletes buffer in the transaction
// and are visible to later reads and range scans before commit. Commit applies
// the buffered write-set atomically. The transaction never re-reads fresher
// store state for a key it has already read.
type Txn struct {
	store  Store
	reads  map[string][]byte
	writes map[string]Write
	order  []string
	done   bool
}

func NewTxn(store Store) *Txn {
	return &Txn{
		store:  store,
		reads:  make(map[string][]byte),
		writes: make(map[string]Write),
	}
}

// Get returns the value for key, observing buffered writes first. Absent keys
// return (nil, nil).
func (t *Txn) Get(ctx context.Context, key string) ([]byte, error) {
	if w, ok := t.writes[key]; ok {
		if w.Delete {
			return nil, nil
		}
		return w.Value, nil
	}
	if v, ok := t.reads[key]; ok {
		return v, nil
	}
	v, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("ledger get %q: %w", key, err)
	}
	t.reads[key] = v
	return v, nil
}

// Put buffers a write for commit.
func (t *Txn) Put(key string, value []byte) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = Write{Key: key, Value: value}
}

// Delete buffers a deletion for commit.
func (t *Txn) Delete(key string) {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = Write{Key: key, Delete: true}
}

// GetRange scans [start, end) merging buffered writes over store state.
func (t *Txn) GetRange(ctx context.Context, start, end string, limit int) ([]KV, error) {
	stored, err := t.store.GetRange(ctx, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("ledger range [%q, %q): %w", start, end, err)
	}

	merged := make(map[string][]byte, len(stored))
	for _, kv := range stored {
		merged[kv.Key] = kv.Value
	}
	for key, w := range t.writes {
		if key < start || key >= end {
			continue
		}
		if w.Delete {
			delete(merged, key)
		} else {
			merged[key] = w.Value
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KV, 0, len(keys))
	for _, k := range keys {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, KV{Key: k, Value: merged[k]})
	}
	return out, nil
}

// GetJSON unmarshals the value at key into dst, reporting whether it existed.
func (t *Txn) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := t.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// PutJSON buffers the JSON encoding of src at key.
func (t *Txn) PutJSON(key string, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	t.Put(key, raw)
	return nil
}

// Commit applies the buffered write-set in buffering order. A committed or
// discarded transaction must not be reused.
func (t *Txn) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	if len(t.writes) == 0 {
		return nil
	}
	writes := make([]Write, 0, len(t.writes))
	for _, key := range t.order {
		writes = append(writes, t.writes[key])
	}
	if err := t.store.ApplyWriteSet(ctx, writes); err != nil {
		return fmt.Errorf("commit write-set: %w", err)
	}
	return nil
}
