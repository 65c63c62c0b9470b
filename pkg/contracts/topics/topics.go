package topics

const (
	// Feed de partidas
	MatchUpdates = "match_updates"

	// Apostas
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// DLQs
	BetPlacedDLQ = "bet_placed_dlq"
)
