package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/settlement-worker/settlement"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/config"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/kafka"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/logger"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Métricas do pipeline de liquidação
var (
	betsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_bets_consumed_total",
		Help: "Apostas lidas do tópico bet_placed",
	})
	betsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_bets_settled_total",
		Help: "Apostas liquidadas, por desfecho",
	}, []string{"outcome"})
	settleErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_errors_total",
		Help: "Erros do worker, por fase",
	}, []string{"stage"})
)

func main() {
	cfg := config.Load()

	log, err := logger.New("settlement-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service",
		zap.String("service", "settlement-worker"),
		zap.Duration("settle_delay", cfg.SettleDelay))

	prometheus.MustRegister(betsConsumed, betsSettled, settleErrors)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "settlement-worker")
	defer reader.Close()

	dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlacedDLQ)
	defer dlq.Close()

	worker := &settlement.Worker{
		Log:      log,
		Reader:   reader,
		Settler:  settlement.NewHTTPSettler(cfg.LedgerURL),
		Resolver: &settlement.CoinFlip{},
		DLQ:      dlq,
		Delay:    cfg.SettleDelay,

		OnConsumed: func() { betsConsumed.Inc() },
		OnSettled:  func(outcome string) { betsSettled.WithLabelValues(outcome).Inc() },
		OnError:    func(stage string) { settleErrors.WithLabelValues(stage).Inc() },
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })
	defer metricsSrv.Shutdown(ctx)
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutdown signal received")
		cancel()
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker stopped", zap.Error(err))
	}
	log.Info("worker stopped")
}
