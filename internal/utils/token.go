package utils

import "github.com/google/uuid"

// NewOpaqueToken returns a random, unguessable identifier used for
// cancellation, verification and password-reset tokens.  UUIDv4 gives
// 122 bits of randomness; tokens are never sequential or derivable
// from one another.
func NewOpaqueToken() string {
	return uuid.NewString()
}
