package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"crypto-report/internal/bootstrap"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.InitWorker(ctx)
	if err != nil {
		zap.NewExample().Fatal("init worker", zap.Error(err))
	}
	defer cleanup()

	var wg sync.WaitGroup
	if app.Scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Scheduler.Start(ctx)
		}()
	}
	app.Worker.Start(ctx)
	wg.Wait()
	app.Log.Info("worker exited")
}
