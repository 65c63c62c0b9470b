package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber escuta o canal Pub/Sub alimentado pelo consumer e
// repassa cada snapshot aos clientes WebSocket inscritos na partida.
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var upd struct {
					MatchID string `json:"match_id"`
				}
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil || upd.MatchID == "" {
					log.Warn("ws subscriber: invalid payload", zap.Error(err))
					continue
				}
				hub.BroadcastRaw(upd.MatchID, []byte(msg.Payload))
			}
		}
	}()
}
