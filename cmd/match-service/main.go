package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/insight"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/cache"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/consumer"
	mhttp "github.com/vportela/bet-wallet-platform-poc/internal/match-service/http"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/pubsub"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/repo"
	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/ws"
	sharedcache "github.com/vportela/bet-wallet-platform-poc/internal/shared/cache"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/config"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/db"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("match-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	ttl := 60 * time.Second
	rcache := cache.NewRedisCache(redisClient, ttl)
	pgRepo := repo.NewPostgresRepo(pg)

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "match-service",
		Topic:    cfg.TopicMatchUpdates,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// Métricas do pipeline de ingestão
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_db_writes_total", Help: "escritas no banco (upsert+history)"})
	broadcasts := prometheus.NewCounter(prometheus.CounterOpts{Name: "match_proc_broadcasts_total", Help: "snapshots repassados ao pub/sub"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "match_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, persist, broadcasts, errorsBy)

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Repo:        pgRepo,
		Cache:       rcache,
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient),
		Channel:     cfg.RedisPubSubChannel,

		OnConsumed:  func() { consumed.Inc() },
		OnCached:    func() { cached.Inc() },
		OnPersist:   func() { persist.Inc() },
		OnBroadcast: func() { broadcasts.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatal("processor stopped with error", zap.Error(err))
		}
	}()

	// WS hub alimentado pelo canal Pub/Sub do consumer
	hub := ws.NewHub(func(*http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisPubSubChannel, hub)

	api := &mhttp.API{
		Repo:    pgRepo,
		Cache:   rcache,
		Insight: insight.NewClient(cfg.InsightURL),
	}

	root := chi.NewRouter()
	root.Mount("/", api.Router())
	root.Get("/ws", hub.HandleWS)

	// Servidor de métricas e health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			hctx, hcancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer hcancel()
			if err := pg.PingContext(hctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(hctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shCtx, shCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shCancel()
		_ = srv.Shutdown(shCtx)
	}()

	log.Info("match-service listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
	log.Info("match-service stopped")
}
