package model

import (
	"fmt"
	"strings"
)

// TokenClassKey identifies a token class on the ledger.
type TokenClassKey struct {
	Collection    string `json:"collection"`
	Category      string `json:"category"`
	Type          string `json:"type"`
	AdditionalKey string `json:"additional_key"`
}

// ParseTokenClassKey parses the pipe-joined form, e.g. "GALA|Unit|none|none".
func ParseTokenClassKey(s string) (TokenClassKey, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return TokenClassKey{}, Validationf("token class key %q must have 4 segments", s)
	}
	for _, p := range parts {
		if p == "" {
			return TokenClassKey{}, Validationf("token class key %q has empty segment", s)
		}
	}
	return TokenClassKey{
		Collection:    parts[0],
		Category:      parts[1],
		Type:          parts[2],
		AdditionalKey: parts[3],
	}, nil
}

func (k TokenClassKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.Collection, k.Category, k.Type, k.AdditionalKey)
}

// Less orders token class keys lexicographically; pools require token0 < token1.
func (k TokenClassKey) Less(other TokenClassKey) bool {
	return k.String() < other.String()
}

// TokenClass holds the registered metadata of a token class.
type TokenClass struct {
	Key         TokenClassKey `json:"key"`
	Symbol      string        `json:"symbol"`
	Decimals    int32         `json:"decimals"`
	Image       string        `json:"image,omitempty"`
	Authorities []string      `json:"authorities,omitempty"`
}
