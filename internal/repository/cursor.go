package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor pins one position in the ranking: the accuracy of a row plus its
// insertion-order key for tie-breaks. Outside this package it only travels
// as the opaque string produced by Encode.
type Cursor struct {
	Accuracy float64 `json:"a"`
	RowID    int64   `json:"r"`
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Encode. Tokens from an older
// ordering (or hand-crafted ones) that fail to parse are rejected.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor: %w", err)
	}
	if c.RowID <= 0 {
		return Cursor{}, fmt.Errorf("malformed cursor: missing row reference")
	}
	return c, nil
}
