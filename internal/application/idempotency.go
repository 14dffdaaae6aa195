package application

import "context"

// IdempotencyStore deduplicates report requests carrying the same key.
type IdempotencyStore interface {
	// TryReserve returns false when the key is already taken.
	TryReserve(ctx context.Context, key string) (bool, error)
	// Release frees a key whose request did not go through.
	Release(ctx context.Context, key string) error
}

// NoopIdempotency accepts every key.
type NoopIdempotency struct{}

func (NoopIdempotency) TryReserve(context.Context, string) (bool, error) { return true, nil }
func (NoopIdempotency) Release(context.Context, string) error            { return nil }
