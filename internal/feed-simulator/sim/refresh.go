package sim

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// Simulator evolui os snapshots ao vivo a cada ciclo: placar por
// probabilidade do esporte, odds reagindo ao placar e relógio andando.
type Simulator struct {
	Source string
	Rand   *rand.Rand
	Now    func() time.Time

	version int
}

func NewSimulator(source string) *Simulator {
	return &Simulator{
		Source: source,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:    time.Now,
	}
}

// Probabilidade de marcar por ciclo, por esporte. Soccer e UFC usam o padrão.
func scoringProb(sport string) float64 {
	switch sport {
	case SportBasketball:
		return 0.45
	case SportTennis:
		return 0.25
	case SportEsports:
		return 0.15
	case SportCricket:
		return 0.30
	default:
		return 0.02
	}
}

// Refresh produz a próxima geração do catálogo. Partidas UPCOMING passam
// intocadas; as LIVE ganham placar, odds e relógio novos, com Version
// global incrementada por ciclo.
func (s *Simulator) Refresh(matches []events.MatchUpdated) []events.MatchUpdated {
	s.version++
	out := make([]events.MatchUpdated, len(matches))
	for i, m := range matches {
		if m.Status != events.StatusLive {
			out[i] = m
			continue
		}
		out[i] = s.refreshOne(m)
	}
	return out
}

func (s *Simulator) refreshOne(m events.MatchUpdated) events.MatchUpdated {
	scored := "" // "home" | "away" | ""
	if s.Rand.Float64() < scoringProb(m.Sport) {
		score := events.Score{}
		if m.Score != nil {
			score = *m.Score
		}
		scored = "home"
		if s.Rand.Float64() > 0.5 {
			scored = "away"
		}
		pts := s.points(m.Sport)
		if scored == "home" {
			score.Home += pts
		} else {
			score.Away += pts
		}
		m.Score = &score
	}

	m.Odds = events.Odds{
		Home: s.swing(m.Odds.Home, scored == "home", scored == "away"),
		Away: s.swing(m.Odds.Away, scored == "away", scored == "home"),
	}
	if d := m.Odds.Draw; d > 0 {
		// qualquer gol encurta o empate para o lado errado
		m.Odds.Draw = s.swing(d, false, scored != "")
	}

	m.Clock = advanceClock(m.Clock)
	m.UpdatedAt = s.Now().UTC()
	m.Source = s.Source
	m.Version = s.version
	return m
}

// Pontos por evento de placar: basquete e críquete pontuam em blocos.
func (s *Simulator) points(sport string) int {
	switch sport {
	case SportBasketball:
		if s.Rand.Float64() > 0.7 {
			return 3
		}
		return 2
	case SportCricket:
		switch f := s.Rand.Float64(); {
		case f > 0.8:
			return 6
		case f > 0.5:
			return 4
		default:
			return 1
		}
	default:
		return 1
	}
}

// swing move a odd por percentual: deriva normal de ±2%, favorito que
// marca cai 15%, azarão que sofre sobe 25%. Piso em 1.01.
func (s *Simulator) swing(val float64, scorer, conceded bool) float64 {
	mult := 1 + (s.Rand.Float64()*0.04 - 0.02)
	if scorer {
		mult *= 0.85
	}
	if conceded {
		mult *= 1.25
	}
	return math.Max(1.01, math.Round(val*mult*100)/100)
}

var minuteRe = regexp.MustCompile(`\d+`)

// advanceClock avança relógios de futebol ("LIVE 74'"); os demais formatos
// (quarter, set) ficam como estão.
func advanceClock(clock string) string {
	if len(clock) == 0 || clock[len(clock)-1] != '\'' {
		return clock
	}
	min, err := strconv.Atoi(minuteRe.FindString(clock))
	if err != nil {
		return clock
	}
	if min >= 90 {
		return "LIVE 90+'"
	}
	return fmt.Sprintf("LIVE %d'", min+1)
}
