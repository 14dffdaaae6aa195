package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"
	"crypto-report/internal/infrastructure/httpx"
)

const (
	coinGeckoMarketsPath = "/coins/markets"
	coinGeckoKeyHeader   = "x-cg-demo-api-key"
)

// CoinGeckoProvider reads quotes from the CoinGecko markets endpoint.
type CoinGeckoProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var _ application.MarketProvider = (*CoinGeckoProvider)(nil)

type cgMarket struct {
	ID           string   `json:"id"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
	TotalVolume  *float64 `json:"total_volume"`
}

func (p *CoinGeckoProvider) Fetch(ctx context.Context, coins []domain.Coin, currency string) ([]domain.LiveQuote, error) {
	if p.BaseURL == "" {
		return nil, errors.New("coingecko: missing base url")
	}
	if len(coins) == 0 {
		return nil, errors.New("coingecko: no coins requested")
	}
	client := p.Client
	if client == nil {
		client = httpx.New(nil, 0)
	}
	if p.APIKey != "" {
		h := map[string]string{coinGeckoKeyHeader: p.APIKey}
		for k, v := range client.Header {
			h[k] = v
		}
		client = &httpx.Client{R: client.R, Header: h}
	}

	url := strings.TrimRight(p.BaseURL, "/") + coinGeckoMarketsPath
	query := map[string]string{
		"vs_currency": strings.ToLower(currency),
		"ids":         domain.JoinCoins(coins),
	}
	var body []cgMarket
	if err := client.GetJSON(ctx, url, query, &body); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	out := make([]domain.LiveQuote, 0, len(body))
	for i, m := range body {
		q, err := m.quote()
		if err != nil {
			return nil, fmt.Errorf("coingecko: item %d: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func (m cgMarket) quote() (domain.LiveQuote, error) {
	var missing []string
	if m.ID == "" {
		missing = append(missing, "id")
	}
	if m.CurrentPrice == nil {
		missing = append(missing, "current_price")
	}
	if m.MarketCap == nil {
		missing = append(missing, "market_cap")
	}
	if m.TotalVolume == nil {
		missing = append(missing, "total_volume")
	}
	if len(missing) > 0 {
		return domain.LiveQuote{}, fmt.Errorf("missing fields %s", strings.Join(missing, ","))
	}
	return domain.LiveQuote{
		Coin:         domain.Coin(m.ID),
		CurrentPrice: *m.CurrentPrice,
		MarketCap:    *m.MarketCap,
		Volume24h:    *m.TotalVolume,
	}, nil
}
