package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Source abstrai o reader Kafka para permitir testes sem broker.
type Source interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// DeadLetter recebe as mensagens que esgotaram as tentativas de liquidação.
type DeadLetter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Worker consome bet_placed, espera o atraso de liquidação contado a partir
// do registro da aposta, decide o desfecho e aplica no ledger.
// A garantia de exatamente-uma-liquidação mora no ledger, não aqui: o worker
// pode reprocessar à vontade que o 409 vira no-op.
type Worker struct {
	Log      *zap.Logger
	Reader   Source
	Settler  Settler
	Resolver Resolver
	DLQ      DeadLetter
	Delay    time.Duration

	Retries int // tentativas de Settle por aposta; 0 usa o padrão

	OnConsumed func()       // métricas
	OnSettled  func(string) // métricas por desfecho
	OnError    func(string) // métricas por fase

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

const defaultRetries = 3

// Run inicia o loop principal: lê, espera, resolve, liquida.
func (w *Worker) Run(ctx context.Context) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	if w.Sleep == nil {
		w.Sleep = sleepCtx
	}
	retries := w.Retries
	if retries <= 0 {
		retries = defaultRetries
	}

	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.Log.Warn("kafka read failed", zap.Error(err))
			if w.OnError != nil {
				w.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if w.OnConsumed != nil {
			w.OnConsumed()
		}

		var bet events.BetPlaced
		if err := json.Unmarshal(m.Value, &bet); err != nil || bet.BetID == "" {
			w.Log.Warn("invalid bet_placed message", zap.Error(err))
			if w.OnError != nil {
				w.OnError("decode")
			}
			w.toDLQ(ctx, m)
			continue
		}

		// Atraso conta do registro da aposta, não do consumo: reprocessar
		// uma mensagem antiga liquida na hora
		due := time.UnixMilli(bet.PlacedAtMs).Add(w.Delay)
		if wait := due.Sub(w.Now()); wait > 0 {
			if err := w.Sleep(ctx, wait); err != nil {
				return err
			}
		}

		outcome := w.Resolver.Resolve(bet)
		if err := w.settleWithRetry(ctx, bet.BetID, outcome, retries); err != nil {
			w.Log.Error("settlement failed, sending to DLQ",
				zap.String("betId", bet.BetID), zap.Error(err))
			if w.OnError != nil {
				w.OnError("settle")
			}
			w.toDLQ(ctx, m)
			continue
		}
		w.Log.Info("bet settled",
			zap.String("betId", bet.BetID),
			zap.String("outcome", outcome),
			zap.Int64("payout_cents", bet.PayoutCents))
		if w.OnSettled != nil {
			w.OnSettled(outcome)
		}
	}
}

func (w *Worker) settleWithRetry(ctx context.Context, betID, outcome string, retries int) error {
	var err error
	for attempt := 0; attempt < retries; attempt++ {
		err = w.Settler.Settle(ctx, betID, outcome)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAlreadySettled) {
			// outra instância (ou um reprocessamento) chegou primeiro
			w.Log.Info("bet was already settled", zap.String("betId", betID))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.Log.Warn("settle attempt failed",
			zap.String("betId", betID), zap.Int("attempt", attempt+1), zap.Error(err))
		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
	return err
}

func (w *Worker) toDLQ(ctx context.Context, m kafka.Message) {
	if w.DLQ == nil {
		return
	}
	if err := w.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value}); err != nil {
		w.Log.Error("dlq write failed", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
