package slip

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// RedisMatches lê o snapshot corrente da partida do cache alimentado pelo
// match-service. Espera chave "match:current:{matchID}" com o JSON do
// último MatchUpdated.
type RedisMatches struct {
	R *redis.Client
}

func NewRedisMatches(r *redis.Client) *RedisMatches { return &RedisMatches{R: r} }

func key(matchID string) string { return "match:current:" + matchID }

func (c *RedisMatches) Current(ctx context.Context, matchID string) (events.MatchUpdated, error) {
	var m events.MatchUpdated
	b, err := c.R.Get(ctx, key(matchID)).Bytes()
	if err == redis.Nil {
		return m, ErrMatchUnavailable
	}
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, err
	}
	return m, nil
}
