package rand

import (
	"crypto/rand"
	"encoding/hex"
)

// ID16 returns a 16-character hex identifier.
func ID16() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b)
}
