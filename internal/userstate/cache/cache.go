// Package cache is the local key-value cache: per-account string storage
// holding the full JSON serialization of the user state. Writes overwrite
// the prior value entirely; there is no merge at this layer.
package cache

import "context"

// KeyPrefix namespaces cache entries; the full key is KeyPrefix + email.
const KeyPrefix = "ethos_user_"

// Cache is the local cache seam. Get returns sentinel.ErrNotFound when no
// entry exists for the account.
type Cache interface {
	Get(ctx context.Context, email string) ([]byte, error)
	Set(ctx context.Context, email string, data []byte) error
	Delete(ctx context.Context, email string) error
}

// Key returns the namespaced cache key for an account email.
func Key(email string) string {
	return KeyPrefix + email
}
