package model

import (
	"errors"
	"testing"
)

func TestBookmarkRoundTrip(t *testing.T) {
	mark := Bookmark{Outer: "dexpositionowner\x00client|alice\x00pool", Skip: 7}
	token := EncodeBookmark(mark)
	if token == "" {
		t.Fatal("non-zero bookmark must encode to a token")
	}
	got, err := DecodeBookmark(token)
	if err != nil {
		t.Fatalf("DecodeBookmark: %v", err)
	}
	if got != mark {
		t.Fatalf("expected %+v, got %+v", mark, got)
	}
}

func TestZeroBookmark(t *testing.T) {
	if token := EncodeBookmark(Bookmark{}); token != "" {
		t.Fatalf("zero bookmark must encode empty, got %q", token)
	}
	got, err := DecodeBookmark("")
	if err != nil {
		t.Fatalf("DecodeBookmark: %v", err)
	}
	if got != (Bookmark{}) {
		t.Fatalf("expected zero bookmark, got %+v", got)
	}
}

func TestDecodeBookmarkRejectsGarbage(t *testing.T) {
	for _, input := range []string{"!!!", "bm9wZQ", "YXxi"} {
		if _, err := DecodeBookmark(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", input, err)
		}
	}
}

func TestFeeTierSpacing(t *testing.T) {
	cases := map[FeeTier]int32{
		FeeTier500:   10,
		FeeTier3000:  60,
		FeeTier10000: 200,
	}
	for tier, spacing := range cases {
		if !tier.Supported() {
			t.Fatalf("tier %d must be supported", tier)
		}
		if got := tier.TickSpacing(); got != spacing {
			t.Fatalf("tier %d spacing: expected %d, got %d", tier, spacing, got)
		}
	}
	if FeeTier(123).Supported() {
		t.Fatal("tier 123 must not be supported")
	}
}
