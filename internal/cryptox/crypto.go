// Package cryptox holds the password hashing scheme used for user accounts.
//
// Hashes are unsalted SHA-1 hex digests. The scheme is fixed so that hashes
// written by earlier deployments keep verifying.
package cryptox

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-1 digest of password.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether candidate hashes to stored.
// The comparison runs in constant time.
func VerifyPassword(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(HashPassword(candidate))) == 1
}
