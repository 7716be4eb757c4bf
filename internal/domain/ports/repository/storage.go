package repository

import "context"

// KeyValueStore is the port for the client's persistent string storage
// (the equivalent of browser localStorage). Get reports ok=false for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
