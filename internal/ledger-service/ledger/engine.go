package ledger

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// EventSink recebe os eventos de domínio emitidos pelo Engine.
// Implementado pelo producer Kafka; pode ser nil em testes.
type EventSink interface {
	BetPlaced(ctx context.Context, ev events.BetPlaced)
	BetSettled(ctx context.Context, ev events.BetSettled)
}

// Engine é a única autoridade sobre saldos, apostas, saques e estatísticas.
// Toda mutação financeira passa por aqui: valida, trava a conta, persiste,
// registra no journal e aplica os deltas no agregado — como uma unidade.
type Engine struct {
	log   *zap.Logger
	store Store
	sink  EventSink

	mu    sync.Mutex // protege locks e stats
	locks map[string]*sync.Mutex
	stats Stats

	now func() time.Time
}

// NewEngine reconstrói as estatísticas pelo replay do journal existente,
// garantindo que o agregado nunca nasce dessincronizado do log.
func NewEngine(ctx context.Context, log *zap.Logger, store Store, sink EventSink) (*Engine, error) {
	entries, err := store.Journal(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{
		log:   log,
		store: store,
		sink:  sink,
		locks: make(map[string]*sync.Mutex),
		stats: ReplayStats(entries),
		now:   time.Now,
	}, nil
}

// lockAccount garante um único escritor por conta. Depósitos, apostas,
// liquidações e decisões de saque sobre a mesma conta nunca concorrem.
func (e *Engine) lockAccount(id string) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// commit grava a entrada no journal e aplica os deltas no agregado.
// Chamar sempre com o lock da conta em mãos.
func (e *Engine) commit(ctx context.Context, entry JournalEntry) {
	entry.At = e.now()
	if err := e.store.AppendJournal(ctx, &entry); err != nil {
		e.log.Error("journal append failed", zap.String("op", entry.Op), zap.Error(err))
	}
	e.mu.Lock()
	e.stats.apply(entry)
	e.mu.Unlock()
}

// CreateAccount registra uma conta nova (onboarding). Saldo de abertura
// não entra nas estatísticas financeiras; contas ACTIVE contam em ActiveUsers.
func (e *Engine) CreateAccount(ctx context.Context, a *Account) (*Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AccountActive
	}
	if a.BalanceCents < 0 || a.PayoutLimitCents < 0 {
		return nil, ErrInvalidAmount
	}
	a.CreatedAt = e.now()

	unlock := e.lockAccount(a.ID)
	defer unlock()

	if err := e.store.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	active := 0
	if a.Status == AccountActive {
		active = 1
	}
	e.commit(ctx, JournalEntry{
		Op:           OpAccountCreated,
		AccountID:    a.ID,
		AmountCents:  a.BalanceCents,
		BalanceDelta: a.BalanceCents,
		ActiveDelta:  active,
	})
	return a, nil
}

// Deposit credita a conta. Por decisão explícita, conta suspensa ainda
// pode depositar; a suspensão trava só apostas e saques.
func (e *Engine) Deposit(ctx context.Context, accountID string, amountCents int64) (*Account, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acc.BalanceCents += amountCents
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:           OpDeposit,
		AccountID:    accountID,
		AmountCents:  amountCents,
		BalanceDelta: amountCents,
	})
	return acc, nil
}

// PlaceBet debita a stake, cria o BetRecord PENDING e provisiona a stake
// como receita até a liquidação reverter no caso de vitória.
func (e *Engine) PlaceBet(ctx context.Context, accountID string, sels []Selection, stakeCents int64) (*BetRecord, error) {
	if stakeCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(sels) == 0 {
		return nil, ErrEmptySelections
	}
	seen := make(map[string]struct{}, len(sels))
	for _, s := range sels {
		if s.MatchID == "" || s.Odd <= 0 {
			return nil, ErrInvalidSelection
		}
		if s.Outcome != OutcomeHome && s.Outcome != OutcomeDraw && s.Outcome != OutcomeAway {
			return nil, ErrInvalidSelection
		}
		if _, dup := seen[s.MatchID]; dup {
			return nil, ErrDuplicateMatch
		}
		seen[s.MatchID] = struct{}{}
	}

	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.Status == AccountSuspended {
		return nil, ErrAccountSuspended
	}
	if stakeCents > acc.BalanceCents {
		return nil, ErrInsufficientFunds
	}

	totalOdds := 1.0
	for _, s := range sels {
		totalOdds *= s.Odd
	}
	bet := &BetRecord{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Selections:  append([]Selection(nil), sels...),
		StakeCents:  stakeCents,
		TotalOdds:   totalOdds,
		PayoutCents: int64(math.Round(float64(stakeCents) * totalOdds)),
		Status:      BetPending,
		PlacedAt:    e.now(),
	}
	if err := e.store.CreateBet(ctx, bet); err != nil {
		return nil, err
	}

	acc.BalanceCents -= stakeCents
	acc.TotalBets++
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:              OpBetPlaced,
		AccountID:       accountID,
		RefID:           bet.ID,
		AmountCents:     stakeCents,
		BalanceDelta:    -stakeCents,
		VolumeDelta:     stakeCents,
		NetRevenueDelta: stakeCents,
	})
	e.emitBetPlaced(ctx, bet)
	return bet, nil
}

// SettleBet é o único caminho que tira uma aposta de PENDING. Segunda
// tentativa sobre a mesma aposta devolve ErrAlreadySettled sem tocar em
// saldo nem estatísticas, custe o que custar ao scheduler.
func (e *Engine) SettleBet(ctx context.Context, betID, outcome string) (*BetRecord, error) {
	if outcome != BetWon && outcome != BetLost {
		return nil, ErrInvalidOutcome
	}
	bet, err := e.store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockAccount(bet.AccountID)
	defer unlock()

	// Relê sob o lock: outra liquidação pode ter chegado antes
	bet, err = e.store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet.Status != BetPending {
		return nil, ErrAlreadySettled
	}

	entry := JournalEntry{
		Op:        OpBetSettled,
		AccountID: bet.AccountID,
		RefID:     bet.ID,
	}
	if outcome == BetWon {
		acc, err := e.store.GetAccount(ctx, bet.AccountID)
		if err != nil {
			return nil, err
		}
		acc.BalanceCents += bet.PayoutCents
		if err := e.store.SaveAccount(ctx, acc); err != nil {
			return nil, err
		}
		entry.AmountCents = bet.PayoutCents
		entry.BalanceDelta = bet.PayoutCents
		entry.PayoutsDelta = bet.PayoutCents
		entry.NetRevenueDelta = -bet.PayoutCents
	} else {
		entry.AmountCents = bet.StakeCents
		entry.GrossProfitDelta = bet.StakeCents
	}

	settledAt := e.now()
	bet.Status = outcome
	bet.SettledAt = &settledAt
	if err := e.store.SaveBet(ctx, bet); err != nil {
		return nil, err
	}
	e.commit(ctx, entry)
	e.emitBetSettled(ctx, bet)
	return bet, nil
}

// RequestWithdrawal segura o valor na hora do pedido (debit-on-request):
// o saldo sai já aqui, a rejeição devolve e a aprovação não debita de novo.
func (e *Engine) RequestWithdrawal(ctx context.Context, accountID string, amountCents int64, method, destination string) (*WithdrawalRequest, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.Status == AccountSuspended {
		return nil, ErrAccountSuspended
	}
	if amountCents > acc.PayoutLimitCents {
		return nil, ErrLimitExceeded
	}
	if amountCents > acc.BalanceCents {
		return nil, ErrInsufficientFunds
	}

	req := &WithdrawalRequest{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		AmountCents: amountCents,
		Method:      method,
		Destination: destination,
		RequestedAt: e.now(),
		Status:      WithdrawalPending,
	}
	if err := e.store.CreateWithdrawal(ctx, req); err != nil {
		return nil, err
	}
	acc.BalanceCents -= amountCents
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:           OpWithdrawalRequested,
		AccountID:    accountID,
		RefID:        req.ID,
		AmountCents:  amountCents,
		BalanceDelta: -amountCents,
	})
	return req, nil
}

// ApproveWithdrawal efetiva o pagamento: o valor já estava retido, então
// só o netRevenue se move.
func (e *Engine) ApproveWithdrawal(ctx context.Context, requestID, notes string) (*WithdrawalRequest, error) {
	return e.decideWithdrawal(ctx, requestID, WithdrawalApproved, notes)
}

// RejectWithdrawal devolve o valor retido ao saldo do usuário.
func (e *Engine) RejectWithdrawal(ctx context.Context, requestID, notes string) (*WithdrawalRequest, error) {
	return e.decideWithdrawal(ctx, requestID, WithdrawalRejected, notes)
}

func (e *Engine) decideWithdrawal(ctx context.Context, requestID, decision, notes string) (*WithdrawalRequest, error) {
	req, err := e.store.GetWithdrawal(ctx, requestID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockAccount(req.AccountID)
	defer unlock()

	req, err = e.store.GetWithdrawal(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != WithdrawalPending {
		return nil, ErrAlreadyProcessed
	}

	entry := JournalEntry{
		AccountID:   req.AccountID,
		RefID:       req.ID,
		AmountCents: req.AmountCents,
	}
	if decision == WithdrawalApproved {
		entry.Op = OpWithdrawalApproved
		entry.NetRevenueDelta = -req.AmountCents
	} else {
		acc, err := e.store.GetAccount(ctx, req.AccountID)
		if err != nil {
			return nil, err
		}
		acc.BalanceCents += req.AmountCents
		if err := e.store.SaveAccount(ctx, acc); err != nil {
			return nil, err
		}
		entry.Op = OpWithdrawalRejected
		entry.BalanceDelta = req.AmountCents
	}

	processedAt := e.now()
	req.Status = decision
	req.ProcessedAt = &processedAt
	req.AdminNotes = notes
	if err := e.store.SaveWithdrawal(ctx, req); err != nil {
		return nil, err
	}
	e.commit(ctx, entry)
	return req, nil
}

// AdjustBalance é a intervenção manual do admin: crédito ao usuário é
// débito da casa, e vice-versa.
func (e *Engine) AdjustBalance(ctx context.Context, accountID string, signedCents int64) (*Account, error) {
	if signedCents == 0 {
		return nil, ErrInvalidAmount
	}
	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acc.BalanceCents += signedCents
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:              OpBalanceAdjusted,
		AccountID:       accountID,
		AmountCents:     signedCents,
		BalanceDelta:    signedCents,
		NetRevenueDelta: -signedCents,
	})
	return acc, nil
}

// SetAccountStatus muda o status sem efeito financeiro. ACTIVE<->SUSPENDED
// ajusta o contador de usuários ativos.
func (e *Engine) SetAccountStatus(ctx context.Context, accountID, status string) (*Account, error) {
	if status != AccountActive && status != AccountSuspended {
		return nil, ErrInvalidOutcome
	}
	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.Status == status {
		return acc, nil
	}
	active := -1
	if status == AccountActive {
		active = 1
	}
	acc.Status = status
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:          OpStatusChanged,
		AccountID:   accountID,
		ActiveDelta: active,
	})
	return acc, nil
}

// SetPayoutLimit ajusta o teto de saque único da conta.
func (e *Engine) SetPayoutLimit(ctx context.Context, accountID string, limitCents int64) (*Account, error) {
	if limitCents < 0 {
		return nil, ErrInvalidAmount
	}
	unlock := e.lockAccount(accountID)
	defer unlock()

	acc, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acc.PayoutLimitCents = limitCents
	if err := e.store.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	e.commit(ctx, JournalEntry{
		Op:        OpLimitChanged,
		AccountID: accountID,
	})
	return acc, nil
}

// Consultas

func (e *Engine) Account(ctx context.Context, id string) (*Account, error) {
	return e.store.GetAccount(ctx, id)
}

func (e *Engine) Accounts(ctx context.Context) ([]*Account, error) {
	return e.store.ListAccounts(ctx)
}

func (e *Engine) Bet(ctx context.Context, id string) (*BetRecord, error) {
	return e.store.GetBet(ctx, id)
}

func (e *Engine) Bets(ctx context.Context, accountID string) ([]*BetRecord, error) {
	return e.store.ListBets(ctx, accountID)
}

func (e *Engine) Withdrawals(ctx context.Context, status string) ([]*WithdrawalRequest, error) {
	return e.store.ListWithdrawals(ctx, status)
}

func (e *Engine) Journal(ctx context.Context) ([]JournalEntry, error) {
	return e.store.Journal(ctx)
}

// Stats retorna um snapshot do agregado vivo.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) emitBetPlaced(ctx context.Context, b *BetRecord) {
	if e.sink == nil {
		return
	}
	sels := make([]events.BetSelection, len(b.Selections))
	for i, s := range b.Selections {
		sels[i] = events.BetSelection{
			MatchID:  s.MatchID,
			Outcome:  s.Outcome,
			Odd:      s.Odd,
			HomeTeam: s.HomeTeam,
			AwayTeam: s.AwayTeam,
		}
	}
	e.sink.BetPlaced(ctx, events.BetPlaced{
		BetID:       b.ID,
		AccountID:   b.AccountID,
		Selections:  sels,
		StakeCents:  b.StakeCents,
		TotalOdds:   b.TotalOdds,
		PayoutCents: b.PayoutCents,
		PlacedAtMs:  b.PlacedAt.UnixMilli(),
	})
}

func (e *Engine) emitBetSettled(ctx context.Context, b *BetRecord) {
	if e.sink == nil {
		return
	}
	ev := events.BetSettled{
		BetID:     b.ID,
		AccountID: b.AccountID,
		Outcome:   b.Status,
		Ts:        *b.SettledAt,
	}
	if b.Status == BetWon {
		ev.PayoutCents = b.PayoutCents
	}
	e.sink.BetSettled(ctx, ev)
}
