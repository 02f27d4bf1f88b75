package storage

import "context"

// Medium is a flat string key/value store. Get reports found=false, not an
// error, for a key that was never written.
type Medium interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
