package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Coin is a market-data asset identifier such as "bitcoin".
type Coin string

// DefaultCoin tags historical rows whose source has no coin column.
const DefaultCoin Coin = "bitcoin"

var DefaultCoins = []Coin{"bitcoin", "ethereum", "solana"}

var coinRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func ValidateCoin(c string) bool {
	return coinRe.MatchString(c)
}

// ParseCoins splits a comma separated id list, lowercasing and dropping duplicates.
func ParseCoins(s string) ([]Coin, error) {
	var out []Coin
	seen := map[Coin]bool{}
	for _, part := range strings.Split(s, ",") {
		id := strings.ToLower(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if !ValidateCoin(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedCoin, id)
		}
		if seen[Coin(id)] {
			continue
		}
		seen[Coin(id)] = true
		out = append(out, Coin(id))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty coin list", ErrUnsupportedCoin)
	}
	return out, nil
}

func JoinCoins(coins []Coin) string {
	parts := make([]string, len(coins))
	for i, c := range coins {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
