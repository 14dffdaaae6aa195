package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	ColDate         = "Date"
	ColPriceUSD     = "Price USD"
	ColCoin         = "Coin"
	ColCurrentPrice = "Current Price (USD)"
	ColMarketCap    = "Market Cap"
	Col24hVolume    = "24h Volume"
	ColPriceChange  = "Price Change (%)"
)

var columnAliases = map[string]string{
	"snapped_at": ColDate,
	"date":       ColDate,
	"timestamp":  ColDate,
	"time":       ColDate,
	"price":      ColPriceUSD,
	"price_usd":  ColPriceUSD,
	"price usd":  ColPriceUSD,
	"close":      ColPriceUSD,
	"coin":       ColCoin,
	"coin_id":    ColCoin,
	"id":         ColCoin,
}

// NormalizeColumn maps source header names onto Date, Price USD and Coin.
// Unknown columns keep their original spelling.
func NormalizeColumn(name string) string {
	n := strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	if canon, ok := columnAliases[strings.ToLower(n)]; ok {
		return canon
	}
	return n
}

type HistoricalRecord struct {
	Date     time.Time
	PriceUSD float64
	Coin     Coin
	// Extra holds untouched source columns keyed by header.
	Extra map[string]string
}

// HistoricalTable is a time series of daily prices. Columns keeps the
// normalized header order of the source, with Coin always present.
type HistoricalTable struct {
	Columns []string
	Records []HistoricalRecord
}

// NewHistoricalTable builds a table from a raw header and string rows.
// Rows without a coin value are tagged with defaultCoin.
func NewHistoricalTable(header []string, rows [][]string, defaultCoin Coin) (HistoricalTable, error) {
	cols := make([]string, len(header))
	idx := map[string]int{}
	for i, h := range header {
		c := NormalizeColumn(h)
		if _, dup := idx[c]; dup {
			return HistoricalTable{}, fmt.Errorf("duplicate column %q", c)
		}
		cols[i] = c
		idx[c] = i
	}
	dateIdx, ok := idx[ColDate]
	if !ok {
		return HistoricalTable{}, fmt.Errorf("missing timestamp column")
	}
	priceIdx, ok := idx[ColPriceUSD]
	if !ok {
		return HistoricalTable{}, fmt.Errorf("missing price column")
	}
	coinIdx, hasCoin := idx[ColCoin]
	if !hasCoin {
		cols = append(cols, ColCoin)
	}

	out := HistoricalTable{Columns: cols}
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		line := n + 2
		d, err := ParseDate(cell(row, dateIdx))
		if err != nil {
			return HistoricalTable{}, fmt.Errorf("row %d: %w", line, err)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(cell(row, priceIdx)), 64)
		if err != nil {
			return HistoricalTable{}, fmt.Errorf("row %d: invalid price %q", line, cell(row, priceIdx))
		}
		rec := HistoricalRecord{Date: d, PriceUSD: p, Coin: defaultCoin}
		if hasCoin {
			if c := strings.TrimSpace(cell(row, coinIdx)); c != "" {
				rec.Coin = Coin(c)
			}
		}
		for i, c := range cols {
			if i == dateIdx || i == priceIdx || c == ColCoin {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = map[string]string{}
			}
			rec.Extra[c] = cell(row, i)
		}
		out.Records = append(out.Records, rec)
	}
	if len(out.Records) == 0 {
		return HistoricalTable{}, fmt.Errorf("no historical records")
	}
	return out, nil
}

// LatestDate returns the maximum Date present in the table.
func (t HistoricalTable) LatestDate() (time.Time, bool) {
	var latest time.Time
	for i, r := range t.Records {
		if i == 0 || r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest, len(t.Records) > 0
}

// ForCoin returns the coin's records sorted by Date.
func (t HistoricalTable) ForCoin(c Coin) []HistoricalRecord {
	var out []HistoricalRecord
	for _, r := range t.Records {
		if r.Coin == c {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Rows renders the table as sheet rows in column order.
func (t HistoricalTable) Rows() [][]any {
	rows := make([][]any, 0, len(t.Records))
	for _, r := range t.Records {
		rows = append(rows, r.values(t.Columns))
	}
	return rows
}

func (r HistoricalRecord) values(cols []string) []any {
	vals := make([]any, 0, len(cols))
	for _, c := range cols {
		switch c {
		case ColDate:
			vals = append(vals, FormatDate(r.Date))
		case ColPriceUSD:
			vals = append(vals, r.PriceUSD)
		case ColCoin:
			vals = append(vals, string(r.Coin))
		default:
			vals = append(vals, extraValue(r.Extra[c]))
		}
	}
	return vals
}

// extraValue turns finite numeric text into a number. NaN and Inf stay text.
func extraValue(s string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	return f
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
