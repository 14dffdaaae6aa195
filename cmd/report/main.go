package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"crypto-report/internal/bootstrap"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.InitReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init report:", err)
		return 1
	}
	defer cleanup()

	res, err := app.Pipeline.Run(ctx, app.Artifacts)
	if err != nil {
		app.Log.Error("report failed", zap.Error(err))
		return 1
	}
	for _, cerr := range res.ChartErrors {
		app.Log.Warn("chart skipped", zap.Error(cerr))
	}
	fmt.Println(res.Artifacts.ReportPath)
	return 0
}
