package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crypto-report/internal/application"
	"crypto-report/internal/config"
	"crypto-report/internal/domain"
	"crypto-report/internal/infrastructure/chart"
	infraconfig "crypto-report/internal/infrastructure/config"
	"crypto-report/internal/infrastructure/historical"
	httpserver "crypto-report/internal/infrastructure/http"
	"crypto-report/internal/infrastructure/httpx"
	"crypto-report/internal/infrastructure/logx"
	"crypto-report/internal/infrastructure/memory"
	"crypto-report/internal/infrastructure/pg"
	"crypto-report/internal/infrastructure/provider"
	redisstore "crypto-report/internal/infrastructure/redis"
	"crypto-report/internal/infrastructure/report"
	"crypto-report/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")

const fakePrice = 1.2345

// Storage bundles the repositories of one backend.
type Storage struct {
	Kind      string
	Runs      application.ReportRunRepo
	Snapshots application.ComparisonRepo
	UoW       application.UnitOfWork
	Ping      func(ctx context.Context) error
}

// InProcess reports whether runs live in this process only, so the API has
// to drain its own queue.
func (s Storage) InProcess() bool { return s.Kind == "memory" }

func ProvideConfig() (config.Config, error) { return config.Load() }

func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	log, err := logx.New(cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("build logger: %w", err)
	}
	return log, func() { _ = log.Sync() }, nil
}

func ProvideStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (Storage, func(), error) {
	switch cfg.Storage {
	case "", "memory":
		return Storage{
			Kind:      "memory",
			Runs:      memory.NewRunRepo(),
			Snapshots: memory.NewComparisonRepo(),
			UoW:       application.NoopUoW{},
		}, func() {}, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return Storage{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Storage{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db, log); err != nil {
			db.Close()
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Storage{
			Kind:      "pg",
			Runs:      pg.NewRunRepo(db, log),
			Snapshots: pg.NewComparisonRepo(db),
			UoW:       pg.NewUnitOfWork(db),
			Ping:      db.Ping,
		}, cleanup, nil
	default:
		return Storage{}, func() {}, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}
}

func ProvideIdempotency(cfg config.Config) (application.IdempotencyStore, func(), error) {
	switch cfg.IdempotencyBackend {
	case "", "none":
		return application.NoopIdempotency{}, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.RedisTTL), func() { _ = client.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported IDEMPOTENCY_BACKEND=%q", cfg.IdempotencyBackend)
	}
}

func ProvideMarketProvider(cfg config.Config) (application.MarketProvider, error) {
	switch cfg.Provider {
	case "coingecko":
		return &provider.CoinGeckoProvider{
			BaseURL: cfg.MarketAPIBase,
			APIKey:  cfg.MarketAPIKey,
			Client:  httpx.New(&http.Client{}, cfg.RequestTimeout),
		}, nil
	case "fake":
		return provider.NewFake(fakePrice), nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func ProvideHistoricalSource(cfg config.Config) (application.HistoricalSource, error) {
	coin := domain.Coin(strings.ToLower(cfg.DefaultCoin))
	if coin == "" {
		coin = domain.DefaultCoin
	}
	if !domain.ValidateCoin(string(coin)) {
		return nil, fmt.Errorf("DEFAULT_COIN: %w: %q", domain.ErrUnsupportedCoin, coin)
	}
	return historical.NewLoader(cfg.HistoricalPath, coin), nil
}

func ProvidePipelineOptions(cfg config.Config) (application.PipelineOptions, error) {
	coins, err := domain.ParseCoins(strings.Join(cfg.Coins, ","))
	if err != nil {
		return application.PipelineOptions{}, fmt.Errorf("COINS: %w", err)
	}
	return application.PipelineOptions{
		Coins:        coins,
		Currency:     cfg.Currency,
		ChartCoin:    domain.Coin(cfg.ChartCoin),
		FetchTimeout: cfg.RequestTimeout,
	}, nil
}

func ProvidePipeline(history application.HistoricalSource, market application.MarketProvider, opts application.PipelineOptions, log *zap.Logger) *application.Pipeline {
	return application.NewPipeline(history, market, report.ExcelWriter{}, chart.NewRenderer(), opts, log)
}

func ProvideArtifactLayout(cfg config.Config) domain.ArtifactLayout {
	return domain.ArtifactLayout{
		Dir:             cfg.OutputDir,
		ReportFile:      cfg.ReportFile,
		PriceChartFile:  cfg.PriceChartFile,
		ChangeChartFile: cfg.ChangeChartFile,
	}
}

func ProvideReportService(st Storage, runner application.Runner, layout domain.ArtifactLayout, idem application.IdempotencyStore, log *zap.Logger) *application.ReportService {
	return application.NewReportService(st.Runs, st.Snapshots, runner, layout,
		application.WithUnitOfWork(st.UoW),
		application.WithIdempotency(idem),
		application.WithLogger(log),
	)
}

func ProvideServer(svc *application.ReportService, st Storage, log *zap.Logger) *httpserver.Server {
	srv := httpserver.NewServer(svc, log)
	if st.Ping != nil {
		srv.SetReadyCheck(st.Ping)
	}
	return srv
}

func ProvideWorker(cfg config.Config, st Storage, svc *application.ReportService, log *zap.Logger) (application.Worker, error) {
	switch cfg.WorkerType {
	case "", "db":
		return &worker.DbWorker{
			Runs:       st.Runs,
			Processor:  svc,
			PollEvery:  cfg.WorkerPoll,
			BatchLimit: cfg.WorkerBatchSize,
			RunTimeout: infraconfig.DefaultRunTimeout,
			Log:        log,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported WORKER_TYPE=%q", cfg.WorkerType)
	}
}

// ProvideScheduler returns nil when REPORT_SCHEDULE is empty.
func ProvideScheduler(cfg config.Config, svc *application.ReportService, log *zap.Logger) (*worker.Scheduler, error) {
	if cfg.ReportSchedule == "" {
		return nil, nil
	}
	return worker.NewScheduler(cfg.ReportSchedule, svc, log)
}

// API is what cmd/api runs. Worker is set only for in-process storage.
type API struct {
	Config    config.Config
	Log       *zap.Logger
	Server    *httpserver.Server
	Worker    application.Worker
	Scheduler *worker.Scheduler
}

func ProvideAPI(cfg config.Config, log *zap.Logger, st Storage, srv *httpserver.Server, w application.Worker, sched *worker.Scheduler) *API {
	api := &API{Config: cfg, Log: log, Server: srv}
	if st.InProcess() {
		api.Worker = w
		api.Scheduler = sched
	}
	return api
}

// WorkerApp is what cmd/worker runs.
type WorkerApp struct {
	Log       *zap.Logger
	Worker    application.Worker
	Scheduler *worker.Scheduler
}

func ProvideWorkerApp(log *zap.Logger, st Storage, w application.Worker, sched *worker.Scheduler) (*WorkerApp, error) {
	if st.InProcess() {
		return nil, errors.New("cmd/worker needs shared storage; set STORAGE=pg or run the worker inside cmd/api")
	}
	return &WorkerApp{Log: log, Worker: w, Scheduler: sched}, nil
}

// Report is what cmd/report runs: one pipeline pass into the default layout.
type Report struct {
	Log       *zap.Logger
	Pipeline  *application.Pipeline
	Artifacts domain.Artifacts
}

func ProvideReport(log *zap.Logger, p *application.Pipeline, layout domain.ArtifactLayout) *Report {
	return &Report{Log: log, Pipeline: p, Artifacts: layout.Default()}
}
