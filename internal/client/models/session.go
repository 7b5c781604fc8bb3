package models

import "github.com/dmitrijs2005/taskledger/internal/client/keys"

// Session is the active signed-in identity. Signer is nil for identities
// that cannot sign ledger writes.
type Session struct {
	Email   string
	Address string
	Signer  keys.Signer
}

// CanSign reports whether the session can authorize ledger writes.
func (s *Session) CanSign() bool {
	return s != nil && s.Signer != nil
}
