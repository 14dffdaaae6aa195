package application

import (
	"context"
	"errors"
	"time"

	"crypto-report/internal/domain"

	"go.uber.org/zap"
)

type PipelineOptions struct {
	Coins    []domain.Coin
	Currency string
	// ChartCoin selects the asset drawn in the price history chart.
	ChartCoin    domain.Coin
	FetchTimeout time.Duration
}

// Pipeline runs load, fetch, merge, write and chart strictly in sequence.
type Pipeline struct {
	history HistoricalSource
	market  MarketProvider
	writer  ReportWriter
	charts  ChartRenderer
	opts    PipelineOptions
	log     *zap.Logger
}

var _ Runner = (*Pipeline)(nil)

func NewPipeline(history HistoricalSource, market MarketProvider, writer ReportWriter, charts ChartRenderer, opts PipelineOptions, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	if opts.ChartCoin == "" {
		opts.ChartCoin = domain.DefaultCoin
	}
	return &Pipeline{
		history: history,
		market:  market,
		writer:  writer,
		charts:  charts,
		opts:    opts,
		log:     log,
	}
}

// Run returns a *domain.StageError for the first fatal failure. Chart
// failures are logged and collected in RunResult.ChartErrors.
func (p *Pipeline) Run(ctx context.Context, out domain.Artifacts) (domain.RunResult, error) {
	log := p.log.With(zap.String("report_path", out.ReportPath))
	start := time.Now()
	log.Info("pipeline.started", zap.String("coins", domain.JoinCoins(p.opts.Coins)))

	hist, err := p.history.Load(ctx)
	if err != nil {
		return domain.RunResult{}, p.fail(log, domain.StageLoad, err)
	}
	log.Info("pipeline.historical_loaded", zap.Int("rows", len(hist.Records)))

	live, err := p.fetch(ctx)
	if err != nil {
		return domain.RunResult{}, p.fail(log, domain.StageFetch, err)
	}
	log.Info("pipeline.live_fetched", zap.Int("quotes", len(live)))

	cmp, err := Merge(hist, live)
	if err != nil {
		return domain.RunResult{}, p.fail(log, domain.StageMerge, err)
	}
	if n := cmp.Undefined(); n > 0 {
		log.Warn("pipeline.price_change_undefined", zap.Int("rows", n))
	}
	log.Info("pipeline.merged",
		zap.Int("rows", len(cmp.Records)),
		zap.String("date", domain.FormatDate(cmp.Date)),
	)

	report := domain.Report{Historical: hist, Live: live, Comparison: cmp}
	if err := p.writer.Write(ctx, out.ReportPath, report); err != nil {
		return domain.RunResult{}, p.fail(log, domain.StageWrite, err)
	}
	log.Info("pipeline.report_written")

	res := domain.RunResult{Report: report, Artifacts: out}
	if err := p.charts.RenderPriceHistory(ctx, out.PriceChartPath, p.opts.ChartCoin, hist.ForCoin(p.opts.ChartCoin)); err != nil {
		res.ChartErrors = append(res.ChartErrors, p.chartFailed(log, "price_history", err))
		res.Artifacts.PriceChartPath = ""
	} else {
		log.Info("pipeline.chart_saved", zap.String("chart", "price_history"), zap.String("path", out.PriceChartPath))
	}
	if err := p.charts.RenderPriceChange(ctx, out.ChangeChartPath, cmp.Records); err != nil {
		res.ChartErrors = append(res.ChartErrors, p.chartFailed(log, "price_change", err))
		res.Artifacts.ChangeChartPath = ""
	} else {
		log.Info("pipeline.chart_saved", zap.String("chart", "price_change"), zap.String("path", out.ChangeChartPath))
	}

	log.Info("pipeline.finished",
		zap.Duration("duration", time.Since(start)),
		zap.Int("chart_errors", len(res.ChartErrors)),
	)
	return res, nil
}

func (p *Pipeline) fetch(ctx context.Context) ([]domain.LiveQuote, error) {
	if p.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.FetchTimeout)
		defer cancel()
	}
	return p.market.Fetch(ctx, p.opts.Coins, p.opts.Currency)
}

func (p *Pipeline) fail(log *zap.Logger, stage domain.Stage, err error) error {
	var se *domain.StageError
	if !errors.As(err, &se) {
		se = domain.NewStageError(stage, err)
	}
	log.Error("pipeline.stage_failed", zap.String("stage", string(se.Stage)), zap.Error(se.Err))
	return se
}

func (p *Pipeline) chartFailed(log *zap.Logger, chart string, err error) error {
	se := domain.NewStageError(domain.StageChart, err)
	log.Error("pipeline.chart_failed", zap.String("chart", chart), zap.Error(err))
	return se
}
