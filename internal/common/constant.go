// Package common contains shared constants, sentinel errors and small helpers
// used across the files manager server and client.
package common

// TokenHeaderName is the HTTP header that carries the session token.
const TokenHeaderName = "X-Token"

// SessionTokenSize is the number of random bytes in a session token.
// Tokens are hex encoded, so the resulting string is twice as long.
const SessionTokenSize = 32
