package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"crypto-report/internal/infrastructure/worker"

	"github.com/stretchr/testify/require"
)

type countingRequester struct{ n atomic.Int32 }

func (c *countingRequester) RequestReport(context.Context, *string) (string, error) {
	c.n.Add(1)
	return "run", nil
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	t.Parallel()
	_, err := worker.NewScheduler("every tuesday", &countingRequester{}, nil)
	require.Error(t, err)
}

func TestScheduler_EnqueuesOnSchedule(t *testing.T) {
	t.Parallel()
	req := &countingRequester{}
	s, err := worker.NewScheduler("@every 1s", req, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return req.n.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	<-done
}
