package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageError_Is(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := fmt.Errorf("run: %w", NewStageError(StageFetch, cause))

	require.ErrorIs(t, err, ErrFetch)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrLoad)

	var se *StageError
	require.ErrorAs(t, err, &se)
	require.True(t, se.Fatal())
	require.Equal(t, "fetch: connection refused", se.Error())
}

func TestStageError_ChartNotFatal(t *testing.T) {
	t.Parallel()
	require.False(t, NewStageError(StageChart, errors.New("x")).Fatal())
	require.True(t, NewStageError(StageWrite, errors.New("x")).Fatal())
}

func TestParseCoins(t *testing.T) {
	t.Parallel()
	coins, err := ParseCoins(" Bitcoin,ethereum,,solana,bitcoin ")
	require.NoError(t, err)
	require.Equal(t, []Coin{"bitcoin", "ethereum", "solana"}, coins)
	require.Equal(t, "bitcoin,ethereum,solana", JoinCoins(coins))

	_, err = ParseCoins("btc/usd")
	require.ErrorIs(t, err, ErrUnsupportedCoin)
	_, err = ParseCoins(" , ")
	require.ErrorIs(t, err, ErrUnsupportedCoin)
}

func TestPriceChangePct(t *testing.T) {
	t.Parallel()
	require.InDelta(t, 5.0, PriceChangePct(44100, 42000), 1e-9)
	require.Zero(t, PriceChangePct(100, 100))
	r := ComparisonRecord{PriceChangePct: PriceChangePct(100, 0)}
	require.False(t, r.ChangeDefined())
}
