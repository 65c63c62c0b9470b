package events

import "time"

// Score é o placar corrente de uma partida ao vivo
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Odds do mercado 1x2 de uma partida. Draw = 0 em esportes sem empate
type Odds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw,omitempty"`
	Away float64 `json:"away"`
}

// Status de partida no feed
const (
	StatusLive     = "LIVE"
	StatusUpcoming = "UPCOMING"
)

// Evento publicado no tópico "match_updates"
type MatchUpdated struct {
	MatchID   string    `json:"match_id"`
	Sport     string    `json:"sport"` // "Soccer" | "Basketball" | "Tennis" | "Esports" | "Cricket" | "UFC"
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Status    string    `json:"status"` // "LIVE" | "UPCOMING"
	Clock     string    `json:"clock"`  // ex: "LIVE 74'" ou "Today, 21:00"
	Score     *Score    `json:"score,omitempty"`
	Odds      Odds      `json:"odds"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`  // "feed-simulator"
	Version   int       `json:"version"` // incrementado a cada atualização
}
