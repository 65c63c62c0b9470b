package events

// BetSelection é o snapshot de uma seleção no momento da aposta.
// A odd fica congelada aqui e não acompanha o feed.
type BetSelection struct {
	MatchID  string  `json:"match_id"`
	Outcome  string  `json:"outcome"` // "HOME" | "DRAW" | "AWAY"
	Odd      float64 `json:"odd"`
	HomeTeam string  `json:"home_team"`
	AwayTeam string  `json:"away_team"`
}

// BetPlaced é publicado quando o ledger aceita uma aposta.
// Cada mensagem vira uma entrada da fila de liquidação, chaveada pelo bet_id.
type BetPlaced struct {
	BetID       string         `json:"bet_id"`
	AccountID   string         `json:"account_id"`
	Selections  []BetSelection `json:"selections"`
	StakeCents  int64          `json:"stake_cents"`
	TotalOdds   float64        `json:"total_odds"`
	PayoutCents int64          `json:"payout_cents"` // payout potencial congelado no registro
	PlacedAtMs  int64          `json:"placed_at_ms"`
}
