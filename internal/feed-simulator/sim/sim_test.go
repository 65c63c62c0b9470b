package sim

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

func newTestSimulator(seed int64) *Simulator {
	return &Simulator{
		Source: "feed-simulator",
		Rand:   rand.New(rand.NewSource(seed)),
		Now:    func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestUpcomingMatchesUntouched(t *testing.T) {
	s := newTestSimulator(1)
	in := Catalog()
	out := s.Refresh(in)

	for i, m := range out {
		if m.Status != events.StatusUpcoming {
			continue
		}
		if m != in[i] {
			t.Errorf("upcoming match %s changed: %+v", m.MatchID, m)
		}
	}
}

func TestLiveMatchStamped(t *testing.T) {
	s := newTestSimulator(1)
	out := s.Refresh(Catalog())

	for _, m := range out {
		if m.Status != events.StatusLive {
			continue
		}
		if m.Version != 1 {
			t.Errorf("%s version = %d, want 1", m.MatchID, m.Version)
		}
		if m.Source != "feed-simulator" {
			t.Errorf("%s source = %q", m.MatchID, m.Source)
		}
		if m.UpdatedAt.IsZero() {
			t.Errorf("%s updatedAt is zero", m.MatchID)
		}
	}

	out = s.Refresh(out)
	for _, m := range out {
		if m.Status == events.StatusLive && m.Version != 2 {
			t.Errorf("%s version = %d, want 2", m.MatchID, m.Version)
		}
	}
}

func TestOddsFloorAndRounding(t *testing.T) {
	s := newTestSimulator(7)
	matches := Catalog()

	// muitos ciclos: odds nunca abaixo de 1.01 e sempre com 2 casas
	for i := 0; i < 500; i++ {
		matches = s.Refresh(matches)
		for _, m := range matches {
			if m.Status != events.StatusLive {
				continue
			}
			for _, o := range []float64{m.Odds.Home, m.Odds.Away} {
				if o < 1.01 {
					t.Fatalf("odd %f below floor on cycle %d", o, i)
				}
				cents := o * 100
				if diff := cents - float64(int64(cents+0.5)); diff > 1e-6 || diff < -1e-6 {
					t.Fatalf("odd %f not rounded to 2 decimals", o)
				}
			}
		}
	}
}

func TestDrawOddPreservedOnlyWhereItExists(t *testing.T) {
	s := newTestSimulator(3)
	matches := Catalog()
	for i := 0; i < 50; i++ {
		matches = s.Refresh(matches)
	}
	for _, m := range matches {
		hasDraw := m.Odds.Draw > 0
		switch m.MatchID {
		case "m1", "m2", "m5": // futebol tem empate
			if !hasDraw {
				t.Errorf("%s lost its draw odd", m.MatchID)
			}
		default:
			if hasDraw {
				t.Errorf("%s grew a draw odd", m.MatchID)
			}
		}
	}
}

func TestScoreOnlyGrows(t *testing.T) {
	s := newTestSimulator(9)
	matches := Catalog()
	prev := map[string]events.Score{}
	for _, m := range matches {
		if m.Score != nil {
			prev[m.MatchID] = *m.Score
		}
	}

	for i := 0; i < 200; i++ {
		matches = s.Refresh(matches)
		for _, m := range matches {
			if m.Score == nil {
				continue
			}
			p := prev[m.MatchID]
			if m.Score.Home < p.Home || m.Score.Away < p.Away {
				t.Fatalf("%s score went backwards: %+v -> %+v", m.MatchID, p, *m.Score)
			}
			prev[m.MatchID] = *m.Score
		}
	}
}

func TestAdvanceClock(t *testing.T) {
	cases := []struct{ in, want string }{
		{"LIVE 74'", "LIVE 75'"},
		{"LIVE 89'", "LIVE 90'"},
		{"LIVE 90'", "LIVE 90+'"},
		{"LIVE 90+'", "LIVE 90+'"},
		{"LIVE Q3 08:12", "LIVE Q3 08:12"},
		{"LIVE Set 2 4-4", "LIVE Set 2 4-4"},
		{"Today, 21:00", "Today, 21:00"},
	}
	for _, c := range cases {
		if got := advanceClock(c.in); got != c.want {
			t.Errorf("advanceClock(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInsightMentionsMatch(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	m := Catalog()[0]
	text := InsightFor(rnd, m)

	for _, want := range []string{"Arsenal", "Man City", "Premier League", "Smart Tip"} {
		if !strings.Contains(text, want) {
			t.Errorf("insight %q missing %q", text, want)
		}
	}
}
