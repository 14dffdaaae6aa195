//go:build wireinject

package bootstrap

import (
	"context"

	"crypto-report/internal/application"

	"github.com/google/wire"
)

var pipelineSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideHistoricalSource,
	ProvideMarketProvider,
	ProvidePipelineOptions,
	ProvidePipeline,
	ProvideArtifactLayout,
	wire.Bind(new(application.Runner), new(*application.Pipeline)),
)

var serviceSet = wire.NewSet(
	pipelineSet,
	ProvideStorage,
	ProvideIdempotency,
	ProvideReportService,
	ProvideWorker,
	ProvideScheduler,
)

func InitAPI(ctx context.Context) (*API, func(), error) {
	wire.Build(serviceSet, ProvideServer, ProvideAPI)
	return nil, nil, nil
}

func InitWorker(ctx context.Context) (*WorkerApp, func(), error) {
	wire.Build(serviceSet, ProvideWorkerApp)
	return nil, nil, nil
}

func InitReport() (*Report, func(), error) {
	wire.Build(pipelineSet, ProvideReport)
	return nil, nil, nil
}
