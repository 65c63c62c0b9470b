package settlement

import (
	"math/rand"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Resolver decide o desfecho de uma aposta pendente.
type Resolver interface {
	Resolve(bet events.BetPlaced) string // "WON" | "LOST"
}

// CoinFlip resolve por moeda honesta, independente das odds — é o motor
// de simulação do POC, não um modelo de probabilidade.
type CoinFlip struct {
	Rand *rand.Rand
}

func (c *CoinFlip) Resolve(_ events.BetPlaced) string {
	var f float64
	if c.Rand != nil {
		f = c.Rand.Float64()
	} else {
		f = rand.Float64()
	}
	if f < 0.5 {
		return "WON"
	}
	return "LOST"
}
