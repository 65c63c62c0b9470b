package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// KafkaPublisher implementa ledger.EventSink. Publicação é best-effort:
// falha de broker vira log, nunca desfaz uma mutação já commitada.
type KafkaPublisher struct {
	log     *zap.Logger
	placed  *kafka.Writer
	settled *kafka.Writer
}

func NewKafkaPublisher(log *zap.Logger, placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{log: log, placed: placed, settled: settled}
}

func (p *KafkaPublisher) BetPlaced(ctx context.Context, e events.BetPlaced) {
	b, _ := json.Marshal(e)
	if err := p.placed.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b}); err != nil {
		p.log.Error("publish bet_placed failed", zap.String("betId", e.BetID), zap.Error(err))
	}
}

func (p *KafkaPublisher) BetSettled(ctx context.Context, e events.BetSettled) {
	b, _ := json.Marshal(e)
	if err := p.settled.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b}); err != nil {
		p.log.Error("publish bet_settled failed", zap.String("betId", e.BetID), zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	if err := p.placed.Close(); err != nil {
		return err
	}
	return p.settled.Close()
}
