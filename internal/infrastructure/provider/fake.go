package provider

import (
	"context"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"
)

var _ application.MarketProvider = (*Fake)(nil)

// Fake quotes every requested coin at a fixed price.
type Fake struct {
	price float64
}

func NewFake(price float64) *Fake { return &Fake{price: price} }

func (f *Fake) Fetch(_ context.Context, coins []domain.Coin, _ string) ([]domain.LiveQuote, error) {
	out := make([]domain.LiveQuote, 0, len(coins))
	for _, c := range coins {
		out = append(out, domain.LiveQuote{
			Coin:         c,
			CurrentPrice: f.price,
			MarketCap:    f.price * 1e6,
			Volume24h:    f.price * 1e4,
		})
	}
	return out, nil
}
