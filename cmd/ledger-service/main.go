package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	lhttp "github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/http"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/ledger"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/producer"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/repo"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/slip"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/cache"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/config"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/db"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/kafka"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/logger"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("ledger-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", "ledger-service"), zap.String("env", cfg.Env))

	ctx := context.Background()

	// Redis: fonte dos snapshots de partida na hora de montar o slip
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Writers dos eventos de domínio
	placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	sink := producer.NewKafkaPublisher(log, placedWriter, settledWriter)
	defer sink.Close()

	// Backend do ledger: memória por padrão, Postgres via LEDGER_STORE
	var store ledger.Store
	var healthPing func(ctx context.Context) error
	switch strings.ToLower(cfg.LedgerStore) {
	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("postgres connect", zap.Error(err))
		}
		defer pg.Close()
		store = repo.NewPostgres(pg)
		healthPing = pg.PingContext
		log.Info("ledger store: postgres")
	default:
		store = ledger.NewMemoryStore()
		healthPing = func(context.Context) error { return nil }
		log.Info("ledger store: memory")
	}

	engine, err := ledger.NewEngine(ctx, log, store, sink)
	if err != nil {
		log.Fatal("engine init", zap.Error(err))
	}
	seedDemoAccounts(ctx, log, engine)

	slips := slip.NewStore(slip.NewRedisMatches(redisClient))
	api := lhttp.NewServer(log, engine, slips)

	// Servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		return healthPing(ctx)
	})
	defer metricsSrv.Shutdown(ctx)
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}

// seedDemoAccounts registra as contas de demonstração num backend vazio.
// Valores em centavos.
func seedDemoAccounts(ctx context.Context, log *zap.Logger, e *ledger.Engine) {
	existing, err := e.Accounts(ctx)
	if err != nil || len(existing) > 0 {
		return
	}

	demo := []*ledger.Account{
		{
			ID: "USR-928172",
			Profile: ledger.Profile{
				FullName: "Alex Smith", Email: "alex.smith@example.com",
				Phone: "+91 98765 43210", OddsFormat: "Decimal",
				Language: "English", MemberSince: "March 2024", IsAdmin: true,
			},
			BalanceCents:     1_250_000,
			PayoutLimitCents: 5_000_000,
			IsVerified:       true,
			TotalBets:        42,
		},
		{
			ID: "USR-112039",
			Profile: ledger.Profile{
				FullName: "Rajesh Kumar", Email: "rajesh.k@gmail.com",
				Phone: "+91 77228 11092", OddsFormat: "Decimal",
				Language: "Hindi", MemberSince: "January 2024",
			},
			BalanceCents:     4_250_000,
			PayoutLimitCents: 2_500_000,
			TotalBets:        156,
		},
	}
	for _, acc := range demo {
		if _, err := e.CreateAccount(ctx, acc); err != nil {
			log.Warn("seed account failed", zap.String("id", acc.ID), zap.Error(err))
			continue
		}
		log.Info("demo account seeded", zap.String("id", acc.ID), zap.String("name", acc.Profile.FullName))
	}
}
