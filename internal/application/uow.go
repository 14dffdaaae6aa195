package application

import "context"

// UnitOfWork groups repository writes; implementations carry the transaction in ctx.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUoW runs fn directly, for stores without transactions.
type NoopUoW struct{}

func (NoopUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
