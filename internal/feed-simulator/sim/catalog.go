package sim

import "github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"

// Esportes suportados pelo feed
const (
	SportSoccer     = "Soccer"
	SportBasketball = "Basketball"
	SportEsports    = "Esports"
	SportTennis     = "Tennis"
	SportUFC        = "UFC"
	SportCricket    = "Cricket"
)

// Catalog devolve o estado inicial das partidas simuladas. Os snapshots
// ao vivo evoluem a cada Refresh; os UPCOMING ficam parados.
func Catalog() []events.MatchUpdated {
	return []events.MatchUpdated{
		{
			MatchID: "m1", Sport: SportSoccer, League: "Premier League",
			HomeTeam: "Arsenal", AwayTeam: "Man City",
			Status: events.StatusLive, Clock: "LIVE 74'",
			Score: &events.Score{Home: 1, Away: 1},
			Odds:  events.Odds{Home: 3.20, Draw: 2.10, Away: 1.85},
		},
		{
			MatchID: "m2", Sport: SportSoccer, League: "La Liga",
			HomeTeam: "Real Madrid", AwayTeam: "Barcelona",
			Status: events.StatusUpcoming, Clock: "Today, 21:00",
			Odds: events.Odds{Home: 1.95, Draw: 3.40, Away: 3.10},
		},
		{
			MatchID: "m3", Sport: SportBasketball, League: "NBA",
			HomeTeam: "LA Lakers", AwayTeam: "Golden State Warriors",
			Status: events.StatusLive, Clock: "LIVE Q3 08:12",
			Score: &events.Score{Home: 88, Away: 92},
			Odds:  events.Odds{Home: 2.40, Away: 1.55},
		},
		{
			MatchID: "m4", Sport: SportEsports, League: "LEC Spring",
			HomeTeam: "G2 Esports", AwayTeam: "Fnatic",
			Status: events.StatusUpcoming, Clock: "Tomorrow, 18:00",
			Odds: events.Odds{Home: 1.65, Away: 2.15},
		},
		{
			MatchID: "m5", Sport: SportSoccer, League: "Serie A",
			HomeTeam: "Inter Milan", AwayTeam: "Juventus",
			Status: events.StatusUpcoming, Clock: "Today, 19:30",
			Odds: events.Odds{Home: 2.10, Draw: 3.10, Away: 2.80},
		},
		{
			MatchID: "m6", Sport: SportTennis, League: "Wimbledon",
			HomeTeam: "Carlos Alcaraz", AwayTeam: "Novak Djokovic",
			Status: events.StatusLive, Clock: "LIVE Set 2 4-4",
			Score: &events.Score{Home: 1, Away: 0},
			Odds:  events.Odds{Home: 1.75, Away: 2.05},
		},
	}
}
