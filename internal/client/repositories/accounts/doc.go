// Package accounts is the local credential store: one record per email
// holding the password hash, the generated address and its private key.
//
// Repository is the row-level contract; SQLiteRepository implements it over a
// dbx.DBTX so it can run inside a transaction. Store is the credential store
// used by services: it owns the *sql.DB and makes Create a single
// check-then-insert transaction.
//
// Rows that fail validation (bad key, address not derived from the key,
// unparseable timestamp) are reported as common.ErrStorageCorrupt rather than
// returned half-decoded.
package accounts
