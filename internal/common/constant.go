// Package common contains shared constants and sentinel errors used across
// taskledger components.
package common

// Metadata keys used by the local key/value store.
const (
	// SessionMetadataKey holds the signed token of the active session.
	SessionMetadataKey = "session"

	// SessionSecretMetadataKey holds the per-install HMAC secret used to sign
	// session tokens.
	SessionSecretMetadataKey = "session_secret"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6
