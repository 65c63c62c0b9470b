package sim

import (
	"fmt"
	"math/rand"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Frases do "analista" mockado. O texto é decorativo; só precisa parecer
// um palpite de comentarista empolgado.
var insightOpeners = []string{
	"The momentum is shifting fast in this one!",
	"Sharp money is moving on this matchup!",
	"This is shaping up to be a classic!",
	"The market can't make up its mind here!",
}

var insightTips = []string{
	"Smart Tip: ride the favorite while the odds last.",
	"Smart Tip: the underdog value won't stay this high for long.",
	"Smart Tip: wait for one more swing before you commit.",
	"Smart Tip: live odds reward the patient here.",
}

// InsightFor gera o texto de análise de uma partida, no formato que o
// provedor real devolveria.
func InsightFor(rnd *rand.Rand, m events.MatchUpdated) string {
	fav, favOdd := m.HomeTeam, m.Odds.Home
	if m.Odds.Away < favOdd {
		fav, favOdd = m.AwayTeam, m.Odds.Away
	}

	score := "yet to kick off"
	if m.Score != nil {
		score = fmt.Sprintf("%d-%d", m.Score.Home, m.Score.Away)
	}

	return fmt.Sprintf("%s %s vs %s (%s) sits at %s, with %s priced at %.2f. %s",
		insightOpeners[rnd.Intn(len(insightOpeners))],
		m.HomeTeam, m.AwayTeam, m.League,
		score,
		fav, favOdd,
		insightTips[rnd.Intn(len(insightTips))],
	)
}
