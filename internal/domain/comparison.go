package domain

import (
	"math"
	"slices"
	"time"
)

// ComparisonRecord is a latest-date historical row joined with its live quote.
type ComparisonRecord struct {
	HistoricalRecord
	CurrentPrice float64
	MarketCap    float64
	Volume24h    float64
	// PriceChangePct is NaN when the historical price is zero.
	PriceChangePct float64
}

func (r ComparisonRecord) ChangeDefined() bool {
	return !math.IsNaN(r.PriceChangePct)
}

type ComparisonTable struct {
	Columns []string
	// HistoricalColumns are the source names behind the leading Columns.
	HistoricalColumns []string
	Date              time.Time
	Records           []ComparisonRecord
}

var comparisonTail = []string{ColCurrentPrice, ColMarketCap, Col24hVolume, ColPriceChange}

// ComparisonColumns appends the live and derived columns to the historical
// header. A historical column sharing a name with one of them gets an "_x"
// suffix so both values survive.
func ComparisonColumns(historical []string) []string {
	cols := make([]string, 0, len(historical)+len(comparisonTail))
	for _, c := range historical {
		if slices.Contains(comparisonTail, c) {
			c += "_x"
		}
		cols = append(cols, c)
	}
	return append(cols, comparisonTail...)
}

func (t ComparisonTable) historicalColumns() []string {
	if t.HistoricalColumns != nil {
		return t.HistoricalColumns
	}
	if n := len(t.Columns) - len(comparisonTail); n > 0 {
		return t.Columns[:n]
	}
	return nil
}

// PriceChangePct returns (current-base)/base*100, or NaN for a zero base.
func PriceChangePct(current, base float64) float64 {
	if base == 0 {
		return math.NaN()
	}
	return (current - base) / base * 100
}

// Undefined counts rows whose change could not be computed.
func (t ComparisonTable) Undefined() int {
	n := 0
	for _, r := range t.Records {
		if !r.ChangeDefined() {
			n++
		}
	}
	return n
}

func (t ComparisonTable) Rows() [][]any {
	hist := t.historicalColumns()
	rows := make([][]any, 0, len(t.Records))
	for _, r := range t.Records {
		vals := r.HistoricalRecord.values(hist)
		var change any
		if r.ChangeDefined() {
			change = r.PriceChangePct
		}
		rows = append(rows, append(vals, r.CurrentPrice, r.MarketCap, r.Volume24h, change))
	}
	return rows
}

// ComparisonSnapshot is a stored comparison table for one report run.
type ComparisonSnapshot struct {
	RunID   string
	TakenAt time.Time
	Records []ComparisonRecord
}
