package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// RedisCache guarda o snapshot corrente de cada partida. É a mesma chave
// que o ledger-service lê na hora de congelar a odd de uma seleção.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

func key(matchID string) string { return "match:current:" + matchID }

// SetCurrent armazena o snapshot da partida com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, e events.MatchUpdated) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(e.MatchID), b, r.TTL).Err()
}

// GetCurrent lê o snapshot da partida; segundo retorno false em cache miss
func (r *RedisCache) GetCurrent(ctx context.Context, matchID string) (events.MatchUpdated, bool, error) {
	b, err := r.Client.Get(ctx, key(matchID)).Bytes()
	if err == redis.Nil {
		return events.MatchUpdated{}, false, nil
	}
	if err != nil {
		return events.MatchUpdated{}, false, err
	}
	var m events.MatchUpdated
	if err := json.Unmarshal(b, &m); err != nil {
		return events.MatchUpdated{}, false, err
	}
	return m, true, nil
}
