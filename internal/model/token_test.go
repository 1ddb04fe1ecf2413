package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTokenClassKey(t *testing.T) {
	got, err := ParseTokenClassKey("GALA|Unit|none|none")
	if err != nil {
		t.Fatalf("ParseTokenClassKey: %v", err)
	}
	want := TokenClassKey{Collection: "GALA", Category: "Unit", Type: "none", AdditionalKey: "none"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.String() != "GALA|Unit|none|none" {
		t.Fatalf("round trip mismatch: %q", got.String())
	}
}

func TestParseTokenClassKeyRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "GALA", "GALA|Unit|none", "GALA|Unit||none", "a|b|c|d|e"} {
		if _, err := ParseTokenClassKey(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", input, err)
		}
	}
}

func TestTokenClassKeyOrdering(t *testing.T) {
	gala, err := ParseTokenClassKey("GALA|Unit|none|none")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	usd, err := ParseTokenClassKey("USD|Unit|none|none")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !gala.Less(usd) {
		t.Fatal("GALA must order before USD")
	}
	if usd.Less(gala) {
		t.Fatal("ordering must be asymmetric")
	}
	if gala.Less(gala) {
		t.Fatal("ordering must be irreflexive")
	}
}
