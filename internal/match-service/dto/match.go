package dto

import (
	"time"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Match é a visão REST de uma partida
type Match struct {
	MatchID   string        `json:"matchId"`
	Sport     string        `json:"sport"`
	League    string        `json:"league"`
	HomeTeam  string        `json:"homeTeam"`
	AwayTeam  string        `json:"awayTeam"`
	Status    string        `json:"status"`
	Clock     string        `json:"clock"`
	Score     *events.Score `json:"score,omitempty"`
	Odds      events.Odds   `json:"odds"`
	Version   int           `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func FromEvent(e events.MatchUpdated) Match {
	return Match{
		MatchID:   e.MatchID,
		Sport:     e.Sport,
		League:    e.League,
		HomeTeam:  e.HomeTeam,
		AwayTeam:  e.AwayTeam,
		Status:    e.Status,
		Clock:     e.Clock,
		Score:     e.Score,
		Odds:      e.Odds,
		Version:   e.Version,
		UpdatedAt: e.UpdatedAt,
	}
}

// Insight é a resposta do endpoint de análise
type Insight struct {
	MatchID string `json:"matchId"`
	Text    string `json:"text"`
}
