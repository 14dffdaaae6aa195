package domain

// LiveQuote is one current market snapshot for a coin.
type LiveQuote struct {
	Coin         Coin
	CurrentPrice float64
	MarketCap    float64
	Volume24h    float64
}

var LiveColumns = []string{ColCoin, ColCurrentPrice, ColMarketCap, Col24hVolume}

func LiveRows(quotes []LiveQuote) [][]any {
	rows := make([][]any, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, []any{string(q.Coin), q.CurrentPrice, q.MarketCap, q.Volume24h})
	}
	return rows
}
