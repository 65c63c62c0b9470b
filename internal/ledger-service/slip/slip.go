package slip

import (
	"context"
	"errors"
	"sync"

	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/ledger"
	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

var (
	ErrMatchUnavailable = errors.New("match unavailable")
	ErrInvalidOutcome   = errors.New("invalid outcome for match")
	ErrEmptySlip        = errors.New("slip has no selections")
)

// Matches fornece o estado corrente de uma partida para congelar a odd
// no momento da seleção. Implementado pelo cache Redis do match-service.
type Matches interface {
	Current(ctx context.Context, matchID string) (events.MatchUpdated, error)
}

// Store guarda os slips por sessão (chaveados pelo id da conta). O slip é
// efêmero: nunca persiste, vira BetRecord só na confirmação.
//
// Regra de merge ao selecionar o resultado O na partida M:
//   - sem seleção para M: adiciona
//   - mesma seleção (M, O): remove (toggle)
//   - outra seleção em M: substitui
//
// No máximo uma seleção por partida, sempre.
type Store struct {
	mu      sync.Mutex
	matches Matches
	slips   map[string][]ledger.Selection
}

func NewStore(m Matches) *Store {
	return &Store{matches: m, slips: make(map[string][]ledger.Selection)}
}

// Select aplica a regra de merge e devolve o slip resultante.
// A odd é congelada aqui, do snapshot corrente do feed.
func (s *Store) Select(ctx context.Context, accountID, matchID, outcome string) ([]ledger.Selection, error) {
	m, err := s.matches.Current(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var odd float64
	switch outcome {
	case ledger.OutcomeHome:
		odd = m.Odds.Home
	case ledger.OutcomeDraw:
		odd = m.Odds.Draw
	case ledger.OutcomeAway:
		odd = m.Odds.Away
	default:
		return nil, ErrInvalidOutcome
	}
	if odd <= 0 {
		// ex: DRAW em esporte sem empate
		return nil, ErrInvalidOutcome
	}

	next := ledger.Selection{
		MatchID:  matchID,
		Outcome:  outcome,
		Odd:      odd,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
		Sport:    m.Sport,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.slips[accountID]
	for i, existing := range cur {
		if existing.MatchID != matchID {
			continue
		}
		if existing.Outcome == outcome {
			// toggle-off
			cur = append(cur[:i], cur[i+1:]...)
		} else {
			cur = append([]ledger.Selection(nil), cur...)
			cur[i] = next
		}
		s.slips[accountID] = cur
		return s.snapshot(accountID), nil
	}
	s.slips[accountID] = append(cur, next)
	return s.snapshot(accountID), nil
}

// Selections devolve uma cópia do slip corrente da sessão.
func (s *Store) Selections(accountID string) []ledger.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(accountID)
}

// Take devolve o slip e o esvazia; falha se não houver seleção.
// Usado na confirmação: um slip vazio não pode virar aposta.
func (s *Store) Take(accountID string) ([]ledger.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.slips[accountID]
	if len(cur) == 0 {
		return nil, ErrEmptySlip
	}
	delete(s.slips, accountID)
	return cur, nil
}

// Restore devolve seleções ao slip (confirmação que falhou no ledger).
func (s *Store) Restore(accountID string, sels []ledger.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sels) > 0 && len(s.slips[accountID]) == 0 {
		s.slips[accountID] = sels
	}
}

// Clear descarta o slip da sessão.
func (s *Store) Clear(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slips, accountID)
}

// TotalOdds é o produto das odds congeladas do slip.
func (s *Store) TotalOdds(accountID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 1.0
	for _, sel := range s.slips[accountID] {
		total *= sel.Odd
	}
	return total
}

func (s *Store) snapshot(accountID string) []ledger.Selection {
	return append([]ledger.Selection(nil), s.slips[accountID]...)
}
