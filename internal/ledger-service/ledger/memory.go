package ledger

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore guarda todo o estado do ledger em memória. É o backend
// padrão da sessão de demonstração e dos testes; o backend Postgres
// equivalente vive em internal/ledger-service/repo.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]*Account
	bets        map[string]*BetRecord
	withdrawals map[string]*WithdrawalRequest
	journal     []JournalEntry
	seq         int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[string]*Account),
		bets:        make(map[string]*BetRecord),
		withdrawals: make(map[string]*WithdrawalRequest),
	}
}

func (m *MemoryStore) CreateAccount(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *MemoryStore) GetAccount(_ context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) SaveAccount(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return ErrAccountNotFound
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *MemoryStore) ListAccounts(_ context.Context) ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CreateBet(_ context.Context, b *BetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bets[b.ID] = copyBet(b)
	return nil
}

func (m *MemoryStore) GetBet(_ context.Context, id string) (*BetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bets[id]
	if !ok {
		return nil, ErrBetNotFound
	}
	return copyBet(b), nil
}

func (m *MemoryStore) SaveBet(_ context.Context, b *BetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bets[b.ID]; !ok {
		return ErrBetNotFound
	}
	m.bets[b.ID] = copyBet(b)
	return nil
}

func (m *MemoryStore) ListBets(_ context.Context, accountID string) ([]*BetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*BetRecord
	for _, b := range m.bets {
		if b.AccountID == accountID {
			out = append(out, copyBet(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.Before(out[j].PlacedAt) })
	return out, nil
}

func (m *MemoryStore) CreateWithdrawal(_ context.Context, w *WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.withdrawals[w.ID] = &cp
	return nil
}

func (m *MemoryStore) GetWithdrawal(_ context.Context, id string) (*WithdrawalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *MemoryStore) SaveWithdrawal(_ context.Context, w *WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.withdrawals[w.ID]; !ok {
		return ErrRequestNotFound
	}
	cp := *w
	m.withdrawals[w.ID] = &cp
	return nil
}

func (m *MemoryStore) ListWithdrawals(_ context.Context, status string) ([]*WithdrawalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*WithdrawalRequest
	for _, w := range m.withdrawals {
		if status == "" || w.Status == status {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (m *MemoryStore) AppendJournal(_ context.Context, e *JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.Seq = m.seq
	m.journal = append(m.journal, *e)
	return nil
}

func (m *MemoryStore) Journal(_ context.Context) ([]JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]JournalEntry, len(m.journal))
	copy(out, m.journal)
	return out, nil
}

func copyBet(b *BetRecord) *BetRecord {
	cp := *b
	cp.Selections = append([]Selection(nil), b.Selections...)
	if b.SettledAt != nil {
		t := *b.SettledAt
		cp.SettledAt = &t
	}
	return &cp
}
