package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"crypto-report/internal/bootstrap"
	infraconfig "crypto-report/internal/infrastructure/config"
	httpserver "crypto-report/internal/infrastructure/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		zap.NewExample().Fatal("init api", zap.Error(err))
	}
	defer cleanup()
	logger := app.Log
	addr := ":" + app.Config.Port

	var wg sync.WaitGroup
	if app.Worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Worker.Start(ctx)
		}()
	}
	if app.Scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.Scheduler.Start(ctx)
		}()
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           httpserver.NewRouter(app.Server),
		ReadHeaderTimeout: infraconfig.DefaultHTTPTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr), zap.Bool("in_process_worker", app.Worker != nil))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
	wg.Wait()
	logger.Info("server stopped")
}
