package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	barColor = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	errEmpty = errors.New("nothing to plot")
)

// Renderer draws PNG (or any extension gonum/plot supports) charts.
type Renderer struct {
	LineWidth, LineHeight vg.Length
	BarWidth, BarHeight   vg.Length
}

var _ application.ChartRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{
		LineWidth:  10 * vg.Inch,
		LineHeight: 5 * vg.Inch,
		BarWidth:   7 * vg.Inch,
		BarHeight:  5 * vg.Inch,
	}
}

// RenderPriceHistory draws price over time for one coin. records must be
// sorted by Date.
func (r *Renderer) RenderPriceHistory(ctx context.Context, path string, coin domain.Coin, records []domain.HistoricalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("price history for %s: %w", coin, errEmpty)
	}
	pts := make(plotter.XYs, len(records))
	for i, rec := range records {
		pts[i].X = float64(rec.Date.Unix())
		pts[i].Y = rec.PriceUSD
	}

	p := plot.New()
	p.Title.Text = titleCase(string(coin)) + " Price Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price USD"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("price history line: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return save(p, r.LineWidth, r.LineHeight, path)
}

// RenderPriceChange draws one bar per coin. Rows with an undefined change are skipped.
func (r *Renderer) RenderPriceChange(ctx context.Context, path string, rows []domain.ComparisonRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		values plotter.Values
		names  []string
	)
	for _, row := range rows {
		if !row.ChangeDefined() {
			continue
		}
		values = append(values, row.PriceChangePct)
		names = append(names, string(row.Coin))
	}
	if len(values) == 0 {
		return fmt.Errorf("price change: %w", errEmpty)
	}

	p := plot.New()
	p.Title.Text = "Price Change (%) - Latest vs. Historical"
	p.Y.Label.Text = "Percent Change"
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("price change bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return save(p, r.BarWidth, r.BarHeight, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
