// Package id mints the public identifiers exposed on the wire: 32 lowercase
// hex characters backed by 16 random bytes. Numeric row ids never leave the
// database layer.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a fresh 32-char lowercase hex id. A broken entropy source
// panics the process rather than minting predictable ids.
func NewID32() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
