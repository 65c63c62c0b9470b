package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/dto"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// MatchReader é o lado de leitura do banco de partidas
type MatchReader interface {
	ListMatches(ctx context.Context) ([]events.MatchUpdated, error)
	GetMatch(ctx context.Context, matchID string) (events.MatchUpdated, error)
}

// SnapshotCache é o cache de snapshot corrente (Redis)
type SnapshotCache interface {
	GetCurrent(ctx context.Context, matchID string) (events.MatchUpdated, bool, error)
}

// InsightProvider devolve o texto de análise, nunca um erro
type InsightProvider interface {
	Fetch(ctx context.Context, matchID string) string
}

// API expõe os endpoints REST de consulta de partidas.
// Leituras tentam o cache antes do banco.
type API struct {
	Repo    MatchReader
	Cache   SnapshotCache
	Insight InsightProvider
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/matches", a.listMatches)
	r.Get("/v1/matches/{id}", a.getMatch)
	r.Get("/v1/matches/{id}/insight", a.getInsight)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) listMatches(w http.ResponseWriter, r *http.Request) {
	ms, err := a.Repo.ListMatches(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.Match, len(ms))
	for i, m := range ms {
		out[i] = dto.FromEvent(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if a.Cache != nil {
		if m, ok, _ := a.Cache.GetCurrent(r.Context(), id); ok {
			writeJSON(w, http.StatusOK, dto.FromEvent(m))
			return
		}
	}

	m, err := a.Repo.GetMatch(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.FromEvent(m))
}

// getInsight proxia o provedor de análises; a falha já vira fallback
// dentro do client, então aqui é sempre 200.
func (a *API) getInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, dto.Insight{
		MatchID: id,
		Text:    a.Insight.Fetch(r.Context(), id),
	})
}
