package application

import (
	"errors"

	"crypto-report/internal/domain"
)

var errEmptyJoin = errors.New("no coin present in both historical and live data")

// Merge joins the rows of the latest historical date with the live quotes on
// Coin. Coins missing from either side are dropped. A zero historical price
// yields a NaN change instead of an error.
func Merge(hist domain.HistoricalTable, live []domain.LiveQuote) (domain.ComparisonTable, error) {
	latest, ok := hist.LatestDate()
	if !ok {
		return domain.ComparisonTable{}, domain.NewStageError(domain.StageMerge, errors.New("historical table is empty"))
	}

	quotes := make(map[domain.Coin]domain.LiveQuote, len(live))
	for _, q := range live {
		quotes[q.Coin] = q
	}

	out := domain.ComparisonTable{
		Columns:           domain.ComparisonColumns(hist.Columns),
		HistoricalColumns: hist.Columns,
		Date:              latest,
	}
	for _, r := range hist.Records {
		if !r.Date.Equal(latest) {
			continue
		}
		q, ok := quotes[r.Coin]
		if !ok {
			continue
		}
		out.Records = append(out.Records, domain.ComparisonRecord{
			HistoricalRecord: r,
			CurrentPrice:     q.CurrentPrice,
			MarketCap:        q.MarketCap,
			Volume24h:        q.Volume24h,
			PriceChangePct:   domain.PriceChangePct(q.CurrentPrice, r.PriceUSD),
		})
	}
	if len(out.Records) == 0 {
		return domain.ComparisonTable{}, domain.NewStageError(domain.StageMerge, errEmptyJoin)
	}
	return out, nil
}
