// Package models defines client-side data models: the locally stored account
// record, the active session, and the tasks read from the ledger.
package models

import "time"

// Account is one locally registered user. Email is the unique key. The
// address and private key are generated together at signup and never change.
type Account struct {
	Email string

	// PasswordHash is argon2id(password, PasswordSalt).
	PasswordHash []byte
	PasswordSalt []byte

	// Address is the EIP-55 hex address derived from PrivateKey.
	Address string
	// PrivateKey is the hex encoded secp256k1 key, without 0x.
	PrivateKey string

	CreatedAt time.Time
}
