package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/cache"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/pubsub"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/repo"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Processor consome match_updates do Kafka, atualiza cache e banco e
// repassa o snapshot para o canal Pub/Sub que alimenta o WS.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Processor struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Repo        *repo.PostgresRepo
	Cache       *cache.RedisCache
	Broadcaster *pubsub.RedisBroadcaster
	Channel     string

	OnConsumed  func()       // métricas (counter++)
	OnCached    func()       // métricas
	OnPersist   func()       // métricas
	OnBroadcast func()       // métricas
	OnError     func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e processamento
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var ev events.MatchUpdated
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.MatchID == "" {
			p.Log.Warn("invalid match update", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		// Cache primeiro: é ele quem congela odds de seleção no ledger
		if err := p.Cache.SetCurrent(ctx, ev); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			// persistência segue mesmo com cache indisponível
		} else if p.OnCached != nil {
			p.OnCached()
		}

		if err := p.Repo.UpsertCurrent(ctx, ev); err != nil {
			p.Log.Warn("db upsert failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_upsert")
			}
			continue
		}
		if err := p.Repo.InsertHistory(ctx, ev); err != nil {
			p.Log.Warn("db insert history failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_history")
			}
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist()
		}

		if p.Broadcaster != nil {
			if err := p.Broadcaster.Publish(ctx, p.Channel, m.Value); err != nil {
				p.Log.Warn("pubsub publish failed", zap.Error(err))
				if p.OnError != nil {
					p.OnError("pubsub")
				}
			} else if p.OnBroadcast != nil {
				p.OnBroadcast()
			}
		}
	}
}
