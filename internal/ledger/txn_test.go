package ledger

import (
	"context"
	"reflect"
	"testing"
)

func TestTxnReadsBufferedWrites(t *testing.T) {
	store := NewMemoryStore()
	txn := NewTxn(store)
	ctx := context.Background()

	txn.Put("a", []byte("1"))
	got, err := txn.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "1" {
		t.Fatalf("expected buffered value, got %q", got)
	}

	// nothing reaches the store before commit
	if store.Len() != 0 {
		t.Fatalf("store must stay empty before commit, has %d keys", store.Len())
	}
	if err := txn.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 stored key, got %d", store.Len())
	}
}

func TestTxnDeleteShadowsStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.ApplyWriteSet(ctx, []Write{{Key: "a", Value: []byte("1")}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	txn := NewTxn(store)
	txn.Delete("a")
	got, err := txn.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted key must read as absent, got %q", got)
	}

	if err := txn.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected deletion applied, store has %d keys", store.Len())
	}
}

func TestTxnRangeMergesBufferedWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seed := []Write{
		{Key: "k\x00a", Value: []byte("1")},
		{Key: "k\x00b", Value: []byte("2")},
		{Key: "k\x00c", Value: []byte("3")},
	}
	if err := store.ApplyWriteSet(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	txn := NewTxn(store)
	txn.Put("k\x00b", []byte("2x"))
	txn.Delete("k\x00c")
	txn.Put("k\x00d", []byte("4"))

	got, err := txn.GetRange(ctx, "k\x00", "k\x00\xff", 0)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	want := []KV{
		{Key: "k\x00a", Value: []byte("1")},
		{Key: "k\x00b", Value: []byte("2x")},
		{Key: "k\x00d", Value: []byte("4")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("range mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestTxnCommitTwiceFails(t *testing.T) {
	txn := NewTxn(NewMemoryStore())
	ctx := context.Background()
	txn.Put("a", []byte("1"))
	if err := txn.Commit(ctx); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := txn.Commit(ctx); err == nil {
		t.Fatal("expected error on second commit")
	}
}

func TestTxnReadCacheIsStable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.ApplyWriteSet(ctx, []Write{{Key: "a", Value: []byte("1")}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	txn := NewTxn(store)
	if _, err := txn.Get(ctx, "a"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// a concurrent writer changes the store; the txn keeps its first read
	if err := store.ApplyWriteSet(ctx, []Write{{Key: "a", Value: []byte("fresh")}}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := txn.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "1" {
		t.Fatalf("expected cached read, got %q", got)
	}
}
