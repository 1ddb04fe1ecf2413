package model

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Bookmark resumes a paginated enumeration. It is opaque to callers; inside it
// carries the outer cursor (the last ledger key consumed) and an inner skip
// count into that record's entries, so resuming never re-scans from the start.
type Bookmark struct {
	Outer string
	Skip  int
}

// EncodeBookmark renders a bookmark as an opaque token. A zero bookmark
// encodes to the empty string.
func EncodeBookmark(b Bookmark) string {
	if b.Outer == "" && b.Skip == 0 {
		return ""
	}
	raw := fmt.Sprintf("%s|%d", b.Outer, b.Skip)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeBookmark parses a bookmark token; empty input yields a zero bookmark.
func DecodeBookmark(s string) (Bookmark, error) {
	if s == "" {
		return Bookmark{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Bookmark{}, Validationf("malformed bookmark")
	}
	idx := strings.LastIndexByte(string(raw), '|')
	if idx < 0 {
		return Bookmark{}, Validationf("malformed bookmark")
	}
	skip, err := strconv.Atoi(string(raw[idx+1:]))
	if err != nil || skip < 0 {
		return Bookmark{}, Validationf("malformed bookmark")
	}
	return Bookmark{Outer: string(raw[:idx]), Skip: skip}, nil
}
