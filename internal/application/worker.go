package application

import "context"

// Worker processes queued report runs until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
