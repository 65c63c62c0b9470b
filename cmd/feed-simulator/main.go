package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/feed-simulator/sim"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/config"
	"github.com/vportela/bet-wallet-platform-poc/internal/shared/logger"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feed_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	insightRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_insight_requests_total",
		Help: "Requisições ao endpoint de insight",
	})
)

type clientConn struct {
	id   string
	conn *websocket.Conn
}

// hub gerencia os clientes WS e o broadcast do feed
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{clients: make(map[string]*clientConn), log: log}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// feedState guarda a geração corrente do catálogo, compartilhada entre o
// ticker do feed e o endpoint de insight
type feedState struct {
	mu      sync.RWMutex
	matches []events.MatchUpdated
}

func main() {
	cfg := config.Load()
	log, err := logger.New("feed-simulator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, wsMessagesSent, insightRequests)

	h := newHub(log)
	simulator := sim.NewSimulator("feed-simulator")
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	state := &feedState{matches: sim.Catalog()}

	// Evolui o catálogo e faz broadcast a cada intervalo configurado
	go func() {
		ticker := time.NewTicker(cfg.FeedInterval)
		defer ticker.Stop()
		for range ticker.C {
			state.mu.Lock()
			state.matches = simulator.Refresh(state.matches)
			snapshot := state.matches
			state.mu.Unlock()

			for _, m := range snapshot {
				if m.Status != events.StatusLive {
					continue
				}
				h.broadcast(m)
			}
		}
	}()

	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				// lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	// Provedor de insight mockado sobre o snapshot corrente
	appMux.HandleFunc("/insight", func(w http.ResponseWriter, r *http.Request) {
		insightRequests.Inc()
		matchID := r.URL.Query().Get("matchId")

		state.mu.RLock()
		var found bool
		var text string
		for _, m := range state.matches {
			if m.MatchID == matchID {
				text = sim.InsightFor(rnd, m)
				found = true
				break
			}
		}
		state.mu.RUnlock()

		if !found {
			http.Error(w, "unknown match", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"matchId": matchID,
			"text":    text,
		})
	})

	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("feed simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("feed simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/insight"),
		zap.Duration("interval", cfg.FeedInterval),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
