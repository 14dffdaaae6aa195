package application

import (
	"context"
	"testing"
	"time"

	"crypto-report/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type pipelineFixture struct {
	history *fakeHistory
	market  *fakeMarket
	writer  *fakeWriter
	charts  *fakeCharts
	logs    *observer.ObservedLogs
	p       *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	core, logs := observer.New(zap.InfoLevel)
	f := &pipelineFixture{
		history: &fakeHistory{table: historical(
			domain.HistoricalRecord{Date: day(2), PriceUSD: 42000, Coin: "bitcoin"},
			domain.HistoricalRecord{Date: day(1), PriceUSD: 40000, Coin: "bitcoin"},
			domain.HistoricalRecord{Date: day(2), PriceUSD: 2000, Coin: "ethereum"},
		)},
		market: &fakeMarket{quotes: []domain.LiveQuote{
			{Coin: "bitcoin", CurrentPrice: 44100},
			{Coin: "ethereum", CurrentPrice: 2100},
		}},
		writer: &fakeWriter{},
		charts: &fakeCharts{},
		logs:   logs,
	}
	f.p = NewPipeline(f.history, f.market, f.writer, f.charts, PipelineOptions{
		Coins:        []domain.Coin{"bitcoin", "ethereum", "solana"},
		FetchTimeout: time.Second,
	}, zap.New(core))
	return f
}

var testArtifacts = domain.Artifacts{
	ReportPath:      "out/crypto_report.xlsx",
	PriceChartPath:  "out/bitcoin_price_chart.png",
	ChangeChartPath: "out/price_change_comparison.png",
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	res, err := f.p.Run(context.Background(), testArtifacts)
	require.NoError(t, err)
	require.Empty(t, res.ChartErrors)
	require.Equal(t, testArtifacts, res.Artifacts)

	require.Equal(t, "usd", f.market.currency)
	require.True(t, f.market.deadline)
	require.Equal(t, testArtifacts.ReportPath, f.writer.path)
	require.Len(t, f.writer.report.Comparison.Records, 2)
	require.InDelta(t, 5.0, f.writer.report.Comparison.Records[0].PriceChangePct, 1e-9)

	require.Equal(t, domain.DefaultCoin, f.charts.coin)
	require.Len(t, f.charts.history, 2)
	require.True(t, f.charts.history[0].Date.Before(f.charts.history[1].Date))
	require.Len(t, f.charts.change, 2)
	require.Equal(t, 1, f.logs.FilterMessage("pipeline.finished").Len())
}

func TestPipeline_FatalStages(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		setup func(*pipelineFixture)
		want  error
	}{
		{"load", func(f *pipelineFixture) { f.history.err = errBoom }, domain.ErrLoad},
		{"fetch", func(f *pipelineFixture) { f.market.err = errBoom }, domain.ErrFetch},
		{"merge", func(f *pipelineFixture) { f.market.quotes = nil }, domain.ErrMerge},
		{"write", func(f *pipelineFixture) { f.writer.err = errBoom }, domain.ErrWrite},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newPipelineFixture()
			c.setup(f)
			_, err := f.p.Run(context.Background(), testArtifacts)
			require.ErrorIs(t, err, c.want)
			var se *domain.StageError
			require.ErrorAs(t, err, &se)
			require.True(t, se.Fatal())
			require.Nil(t, f.charts.change, "charts must not run after a fatal stage")
			require.Equal(t, 1, f.logs.FilterMessage("pipeline.stage_failed").Len())
		})
	}
}

func TestPipeline_ChartFailuresAreNotFatal(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.charts.historyErr = errBoom
	f.charts.changeErr = errBoom

	res, err := f.p.Run(context.Background(), testArtifacts)
	require.NoError(t, err)
	require.Len(t, res.ChartErrors, 2)
	for _, e := range res.ChartErrors {
		require.ErrorIs(t, e, domain.ErrChart)
	}
	require.Empty(t, res.Artifacts.PriceChartPath)
	require.Empty(t, res.Artifacts.ChangeChartPath)
	require.Equal(t, testArtifacts.ReportPath, res.Artifacts.ReportPath)
	require.Equal(t, 2, f.logs.FilterMessage("pipeline.chart_failed").Len())
}
