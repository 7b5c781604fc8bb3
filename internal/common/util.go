package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes from the system CSPRNG and panics
// if the entropy source is unavailable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic("common: entropy source failed: " + err.Error())
	}
	return b
}

// WipeByteArray zeroes b in place. Used on password buffers once they have
// been hashed or compared.
func WipeByteArray(b []byte) {
	clear(b)
}
