package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/feed-ingest/publisher"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// WSClient consome o feed de partidas do simulador por WebSocket e
// reencaminha cada snapshot para o Kafka.
type WSClient struct {
	URL       string
	Log       *zap.Logger
	Publisher *publisher.KafkaPublisher
}

// Start mantém a conexão viva: em caso de queda, reconecta com backoff
// até o contexto ser cancelado.
func (c *WSClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client")
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.Error(err))
				time.Sleep(3 * time.Second)
			}
		}
	}
}

func (c *WSClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to feed WS", zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.Error(err))
			return err
		}

		var update events.MatchUpdated
		if err := json.Unmarshal(message, &update); err != nil {
			c.Log.Warn("invalid message", zap.Error(err))
			continue
		}
		if update.MatchID == "" {
			c.Log.Warn("match update without id, skipping")
			continue
		}

		if err := c.Publisher.Publish(ctx, update); err != nil {
			c.Log.Error("failed to publish to Kafka", zap.Error(err))
		}
	}
}
