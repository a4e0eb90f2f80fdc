// Package util provides content hashing helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ETag returns a strong entity tag for a response body.
func ETag(body []byte) string {
	return `"` + ContentHash(body) + `"`
}
