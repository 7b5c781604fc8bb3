// Package metadata is a small key/value store in the local database. It holds
// the persisted session token and the per-install session secret.
package metadata

import "context"

// Repository stores opaque byte values by key. Get returns (nil, nil) for a
// missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
