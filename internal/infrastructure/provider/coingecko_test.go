package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"crypto-report/internal/domain"
	"crypto-report/internal/infrastructure/httpx"
	"crypto-report/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func httpClient(resBody string, code int, seen **http.Request) *httpx.Client {
	return httpx.New(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			if seen != nil {
				*seen = r
			}
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
				Request:    r,
			}
		}),
	}, 2*time.Second)
}

const sampleMarkets = `[
  {"id":"bitcoin","symbol":"btc","current_price":44100,"market_cap":864000000000,"total_volume":21000000000},
  {"id":"ethereum","symbol":"eth","current_price":2350.5,"market_cap":282000000000,"total_volume":9000000000},
  {"id":"solana","symbol":"sol","current_price":98.2,"market_cap":42000000000,"total_volume":1500000000}
]`

var coins = []domain.Coin{"bitcoin", "ethereum", "solana"}

func TestFetch_HappyPath(t *testing.T) {
	var req *http.Request
	p := &provider.CoinGeckoProvider{
		BaseURL: "https://api.coingecko.com/api/v3/",
		APIKey:  "demo",
		Client:  httpClient(sampleMarkets, 200, &req),
	}
	quotes, err := p.Fetch(context.Background(), coins, "USD")
	require.NoError(t, err)
	require.Len(t, quotes, len(coins))
	require.Equal(t, domain.LiveQuote{Coin: "bitcoin", CurrentPrice: 44100, MarketCap: 864e9, Volume24h: 21e9}, quotes[0])

	require.Equal(t, "/api/v3/coins/markets", req.URL.Path)
	require.Equal(t, "usd", req.URL.Query().Get("vs_currency"))
	require.Equal(t, "bitcoin,ethereum,solana", req.URL.Query().Get("ids"))
	require.Equal(t, "demo", req.Header.Get("x-cg-demo-api-key"))
}

func TestFetch_MissingCoinIsNotAnError(t *testing.T) {
	body := `[{"id":"bitcoin","current_price":1,"market_cap":2,"total_volume":3}]`
	p := &provider.CoinGeckoProvider{BaseURL: "http://example.com", Client: httpClient(body, 200, nil)}
	quotes, err := p.Fetch(context.Background(), coins, "usd")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
}

func TestFetch_MissingField(t *testing.T) {
	body := `[{"id":"bitcoin","current_price":1,"market_cap":2}]`
	p := &provider.CoinGeckoProvider{BaseURL: "http://example.com", Client: httpClient(body, 200, nil)}
	_, err := p.Fetch(context.Background(), coins, "usd")
	require.ErrorContains(t, err, "total_volume")
}

func TestFetch_Non2xx(t *testing.T) {
	body := `{"status":{"error_code":429,"error_message":"rate limited"}}`
	p := &provider.CoinGeckoProvider{BaseURL: "http://example.com", Client: httpClient(body, 429, nil)}
	_, err := p.Fetch(context.Background(), coins, "usd")
	var se *httpx.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 429, se.Code)
}

func TestFetch_NotAnArray(t *testing.T) {
	p := &provider.CoinGeckoProvider{BaseURL: "http://example.com", Client: httpClient(`{"id":"bitcoin"}`, 200, nil)}
	_, err := p.Fetch(context.Background(), coins, "usd")
	require.Error(t, err)
}

func TestFetch_MissingConfiguration(t *testing.T) {
	_, err := (&provider.CoinGeckoProvider{}).Fetch(context.Background(), coins, "usd")
	require.Error(t, err)
	_, err = (&provider.CoinGeckoProvider{BaseURL: "http://example.com"}).Fetch(context.Background(), nil, "usd")
	require.Error(t, err)
}

func TestFake(t *testing.T) {
	quotes, err := provider.NewFake(10).Fetch(context.Background(), coins, "usd")
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	require.Equal(t, domain.Coin("solana"), quotes[2].Coin)
	require.InDelta(t, 10, quotes[2].CurrentPrice, 1e-9)
}
