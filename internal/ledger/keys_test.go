package ledger

import (
	"sort"
	"testing"
)

func TestKeyComposition(t *testing.T) {
	got := Key(TypeTick, "abc", TickAttr(0))
	want := "dextick\x00abc\x001000000"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrefixRangeCoversOnlyPrefix(t *testing.T) {
	start, end := PrefixRange(TypePositionOwner, "client|alice")
	inside := Key(TypePositionOwner, "client|alice", "pool1")
	outside := Key(TypePositionOwner, "client|alicez")

	if !(inside >= start && inside < end) {
		t.Fatalf("key %q must fall inside [%q, %q)", inside, start, end)
	}
	if outside >= start && outside < end {
		t.Fatalf("key %q must fall outside [%q, %q)", outside, start, end)
	}
}

func TestTickAttrPreservesNumericOrder(t *testing.T) {
	ticks := []int32{-887272, -887220, -60, -1, 0, 1, 60, 887220, 887272}
	attrs := make([]string, len(ticks))
	for i, tick := range ticks {
		attrs[i] = TickAttr(tick)
	}
	if !sort.StringsAreSorted(attrs) {
		t.Fatalf("tick attributes must sort like their ticks: %v", attrs)
	}
}
