package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vportela/bet-wallet-platform-poc/internal/match-service/dto"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

type fakeRepo struct {
	matches map[string]events.MatchUpdated
}

func (f *fakeRepo) ListMatches(context.Context) ([]events.MatchUpdated, error) {
	out := make([]events.MatchUpdated, 0, len(f.matches))
	for _, m := range f.matches {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) GetMatch(_ context.Context, id string) (events.MatchUpdated, error) {
	m, ok := f.matches[id]
	if !ok {
		return events.MatchUpdated{}, sql.ErrNoRows
	}
	return m, nil
}

type fakeCache struct {
	matches map[string]events.MatchUpdated
}

func (f *fakeCache) GetCurrent(_ context.Context, id string) (events.MatchUpdated, bool, error) {
	m, ok := f.matches[id]
	return m, ok, nil
}

type fakeInsight struct{ text string }

func (f *fakeInsight) Fetch(context.Context, string) string { return f.text }

func newTestAPI() *API {
	m1 := events.MatchUpdated{
		MatchID: "m1", Sport: "Soccer", League: "Premier League",
		HomeTeam: "Arsenal", AwayTeam: "Man City", Status: events.StatusLive,
		Odds: events.Odds{Home: 3.20, Draw: 2.10, Away: 1.85}, Version: 4,
	}
	return &API{
		Repo:    &fakeRepo{matches: map[string]events.MatchUpdated{"m1": m1}},
		Cache:   &fakeCache{matches: map[string]events.MatchUpdated{}},
		Insight: &fakeInsight{text: "Smart Tip: back the home side."},
	}
}

func TestGetMatchFromRepo(t *testing.T) {
	srv := httptest.NewServer(newTestAPI().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/matches/m1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var m dto.Match
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.HomeTeam != "Arsenal" || m.Odds.Home != 3.20 {
		t.Errorf("match = %+v", m)
	}
}

func TestGetMatchPrefersCache(t *testing.T) {
	api := newTestAPI()
	// cache com versão mais nova que o banco
	api.Cache = &fakeCache{matches: map[string]events.MatchUpdated{
		"m1": {MatchID: "m1", HomeTeam: "Arsenal", AwayTeam: "Man City", Version: 9},
	}}
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/matches/m1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var m dto.Match
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.Version != 9 {
		t.Errorf("version = %d, want cached 9", m.Version)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	srv := httptest.NewServer(newTestAPI().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/matches/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListMatches(t *testing.T) {
	srv := httptest.NewServer(newTestAPI().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/matches")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var ms []dto.Match
	if err := json.NewDecoder(resp.Body).Decode(&ms); err != nil {
		t.Fatal(err)
	}
	if len(ms) != 1 {
		t.Errorf("len = %d, want 1", len(ms))
	}
}

func TestGetInsightAlways200(t *testing.T) {
	srv := httptest.NewServer(newTestAPI().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/matches/m1/insight")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var in dto.Insight
	if err := json.NewDecoder(resp.Body).Decode(&in); err != nil {
		t.Fatal(err)
	}
	if in.MatchID != "m1" || in.Text == "" {
		t.Errorf("insight = %+v", in)
	}
}
