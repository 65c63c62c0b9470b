package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*Engine, *Account) {
	t.Helper()
	eng, err := NewEngine(context.Background(), zap.NewNop(), NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	acc, err := eng.CreateAccount(context.Background(), &Account{
		Profile:          Profile{FullName: "Alex Smith", Email: "alex.smith@example.com"},
		BalanceCents:     100_000, // 1000.00
		PayoutLimitCents: 50_000,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return eng, acc
}

func sel(matchID string, odd float64) Selection {
	return Selection{MatchID: matchID, Outcome: OutcomeHome, Odd: odd, HomeTeam: "A", AwayTeam: "B"}
}

// Cenário A: stake 100.00 com odd 2.0 -> saldo 900.00, payout 200.00,
// volume +100.00; vitória -> saldo 1100.00, payouts +200.00.
func TestPlaceBetAndSettleWon(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	bet, err := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 2.0)}, 10_000)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if bet.Status != BetPending {
		t.Errorf("status = %s, want PENDING", bet.Status)
	}
	if bet.PayoutCents != 20_000 {
		t.Errorf("payout = %d, want 20000", bet.PayoutCents)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 90_000 {
		t.Errorf("balance = %d, want 90000", got.BalanceCents)
	}
	if got.TotalBets != 1 {
		t.Errorf("totalBets = %d, want 1", got.TotalBets)
	}
	st := eng.Stats()
	if st.TotalVolumeCents != 10_000 || st.NetRevenueCents != 10_000 {
		t.Errorf("stats after place = %+v", st)
	}

	if _, err := eng.SettleBet(ctx, bet.ID, BetWon); err != nil {
		t.Fatalf("settle: %v", err)
	}
	got, _ = eng.Account(ctx, acc.ID)
	if got.BalanceCents != 110_000 {
		t.Errorf("balance after win = %d, want 110000", got.BalanceCents)
	}
	st = eng.Stats()
	if st.TotalPayoutsCents != 20_000 {
		t.Errorf("totalPayouts = %d, want 20000", st.TotalPayoutsCents)
	}
	if st.NetRevenueCents != 10_000-20_000 {
		t.Errorf("netRevenue = %d, want -10000", st.NetRevenueCents)
	}
}

func TestSettleLostBooksGrossProfit(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	bet, _ := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 2.0)}, 10_000)
	if _, err := eng.SettleBet(ctx, bet.ID, BetLost); err != nil {
		t.Fatalf("settle: %v", err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 90_000 {
		t.Errorf("balance = %d, want 90000", got.BalanceCents)
	}
	st := eng.Stats()
	if st.GrossProfitCents != 10_000 {
		t.Errorf("grossProfit = %d, want 10000", st.GrossProfitCents)
	}
}

// Liquidar duas vezes devolve ErrAlreadySettled e não reaplica nada.
func TestSettleBetIdempotent(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	bet, _ := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 2.0)}, 10_000)
	if _, err := eng.SettleBet(ctx, bet.ID, BetWon); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	before, _ := eng.Account(ctx, acc.ID)
	statsBefore := eng.Stats()

	_, err := eng.SettleBet(ctx, bet.ID, BetWon)
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}
	_, err = eng.SettleBet(ctx, bet.ID, BetLost)
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}

	after, _ := eng.Account(ctx, acc.ID)
	if after.BalanceCents != before.BalanceCents {
		t.Errorf("balance moved on duplicate settle: %d -> %d", before.BalanceCents, after.BalanceCents)
	}
	if eng.Stats() != statsBefore {
		t.Errorf("stats moved on duplicate settle: %+v -> %+v", statsBefore, eng.Stats())
	}
}

// Cenário C: conta suspensa não aposta; saldo e stats intactos.
func TestPlaceBetSuspended(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.SetAccountStatus(ctx, acc.ID, AccountSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	statsBefore := eng.Stats()

	_, err := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 2.0)}, 10_000)
	if !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("err = %v, want ErrAccountSuspended", err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000 {
		t.Errorf("balance = %d, want unchanged 100000", got.BalanceCents)
	}
	if eng.Stats() != statsBefore {
		t.Errorf("stats changed: %+v", eng.Stats())
	}

	// Depósito continua permitido mesmo suspensa (decisão explícita)
	if _, err := eng.Deposit(ctx, acc.ID, 5_000); err != nil {
		t.Fatalf("deposit while suspended: %v", err)
	}
}

func TestPlaceBetValidation(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		sels  []Selection
		stake int64
		want  error
	}{
		{"zero stake", []Selection{sel("m1", 2.0)}, 0, ErrInvalidAmount},
		{"no selections", nil, 10_000, ErrEmptySelections},
		{"duplicate match", []Selection{sel("m1", 2.0), sel("m1", 3.0)}, 10_000, ErrDuplicateMatch},
		{"bad odd", []Selection{sel("m1", 0)}, 10_000, ErrInvalidSelection},
		{"over balance", []Selection{sel("m1", 2.0)}, 999_999, ErrInsufficientFunds},
	}
	for _, tc := range cases {
		if _, err := eng.PlaceBet(ctx, acc.ID, tc.sels, tc.stake); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if got, _ := eng.Account(ctx, acc.ID); got.BalanceCents != 100_000 {
		t.Errorf("balance mutated by rejected bets: %d", got.BalanceCents)
	}
}

// Cenário B: pedido acima do payoutLimit falha sem criar solicitação.
func TestRequestWithdrawalLimitExceeded(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.RequestWithdrawal(ctx, acc.ID, 200_000, "UPI", "alex@upi")
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("err = %v, want ErrLimitExceeded", err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000 {
		t.Errorf("balance = %d, want unchanged", got.BalanceCents)
	}
	reqs, _ := eng.Withdrawals(ctx, "")
	if len(reqs) != 0 {
		t.Errorf("withdrawal created on failed request: %d", len(reqs))
	}
}

// Round-trip: depósito + saque aprovado devolvem o saldo exato ao valor
// anterior sob a política debit-on-request.
func TestWithdrawalApproveRoundTrip(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.Deposit(ctx, acc.ID, 10_000); err != nil {
		t.Fatal(err)
	}
	req, err := eng.RequestWithdrawal(ctx, acc.ID, 10_000, "UPI", "alex@upi")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000 {
		t.Errorf("balance after hold = %d, want 100000", got.BalanceCents)
	}

	if _, err := eng.ApproveWithdrawal(ctx, req.ID, "Processed successfully."); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ = eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000 {
		t.Errorf("balance after approve = %d, want 100000 (no second debit)", got.BalanceCents)
	}
	if eng.Stats().NetRevenueCents != -10_000 {
		t.Errorf("netRevenue = %d, want -10000", eng.Stats().NetRevenueCents)
	}
}

func TestWithdrawalRejectRefunds(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	req, _ := eng.RequestWithdrawal(ctx, acc.ID, 10_000, "UPI", "alex@upi")
	if _, err := eng.RejectWithdrawal(ctx, req.ID, "Validation failed."); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000 {
		t.Errorf("balance after reject = %d, want refund to 100000", got.BalanceCents)
	}
	if eng.Stats().NetRevenueCents != 0 {
		t.Errorf("netRevenue = %d, want 0", eng.Stats().NetRevenueCents)
	}

	// Decisão é terminal
	if _, err := eng.ApproveWithdrawal(ctx, req.ID, ""); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("err = %v, want ErrAlreadyProcessed", err)
	}
}

func TestWithdrawalSuspendedBlocked(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	eng.SetAccountStatus(ctx, acc.ID, AccountSuspended)
	if _, err := eng.RequestWithdrawal(ctx, acc.ID, 1_000, "UPI", ""); !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("err = %v, want ErrAccountSuspended", err)
	}
}

func TestAdjustBalanceSymmetricAccounting(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.AdjustBalance(ctx, acc.ID, 5_000); err != nil {
		t.Fatal(err)
	}
	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 105_000 {
		t.Errorf("balance = %d, want 105000", got.BalanceCents)
	}
	if eng.Stats().NetRevenueCents != -5_000 {
		t.Errorf("netRevenue = %d, want -5000", eng.Stats().NetRevenueCents)
	}

	if _, err := eng.AdjustBalance(ctx, acc.ID, -5_000); err != nil {
		t.Fatal(err)
	}
	if eng.Stats().NetRevenueCents != 0 {
		t.Errorf("netRevenue = %d, want 0 after symmetric adjust", eng.Stats().NetRevenueCents)
	}
}

func TestActiveUsersTracksStatus(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if eng.Stats().ActiveUsers != 1 {
		t.Fatalf("activeUsers = %d, want 1", eng.Stats().ActiveUsers)
	}
	eng.SetAccountStatus(ctx, acc.ID, AccountSuspended)
	if eng.Stats().ActiveUsers != 0 {
		t.Errorf("activeUsers = %d, want 0", eng.Stats().ActiveUsers)
	}
	// Idempotente: repetir o mesmo status não move o contador
	eng.SetAccountStatus(ctx, acc.ID, AccountSuspended)
	if eng.Stats().ActiveUsers != 0 {
		t.Errorf("activeUsers = %d, want 0 after repeat", eng.Stats().ActiveUsers)
	}
	eng.SetAccountStatus(ctx, acc.ID, AccountActive)
	if eng.Stats().ActiveUsers != 1 {
		t.Errorf("activeUsers = %d, want 1", eng.Stats().ActiveUsers)
	}
}

func TestSetPayoutLimitValidation(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.SetPayoutLimit(ctx, acc.ID, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := eng.SetPayoutLimit(ctx, acc.ID, 0); err != nil {
		t.Fatalf("zero limit should be valid: %v", err)
	}
}

// Invariante: o replay do journal reproduz exatamente o agregado vivo.
func TestStatsReplayMatchesLive(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	eng.Deposit(ctx, acc.ID, 20_000)
	bet1, _ := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 2.0)}, 10_000)
	bet2, _ := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m2", 1.5), sel("m3", 2.0)}, 4_000)
	eng.SettleBet(ctx, bet1.ID, BetWon)
	eng.SettleBet(ctx, bet2.ID, BetLost)
	req, _ := eng.RequestWithdrawal(ctx, acc.ID, 5_000, "UPI", "x")
	eng.ApproveWithdrawal(ctx, req.ID, "")
	eng.AdjustBalance(ctx, acc.ID, 1_234)
	eng.SetAccountStatus(ctx, acc.ID, AccountSuspended)

	entries, err := eng.Journal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if replayed := ReplayStats(entries); replayed != eng.Stats() {
		t.Errorf("replay = %+v, live = %+v", replayed, eng.Stats())
	}

	// E o saldo também é o fold dos BalanceDelta da conta
	var balance int64
	for _, e := range entries {
		if e.AccountID == acc.ID {
			balance += e.BalanceDelta
		}
	}
	got, _ := eng.Account(ctx, acc.ID)
	if balance != got.BalanceCents {
		t.Errorf("journal balance = %d, account = %d", balance, got.BalanceCents)
	}
}

// Depósitos concorrentes na mesma conta não podem perder atualização.
func TestConcurrentDeposits(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := eng.Deposit(ctx, acc.ID, 100); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := eng.Account(ctx, acc.ID)
	if got.BalanceCents != 100_000+n*100 {
		t.Errorf("balance = %d, want %d", got.BalanceCents, 100_000+n*100)
	}
}

// Payout multi-seleção: produto das odds, arredondado uma única vez.
func TestAccumulatorPayout(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	bet, err := eng.PlaceBet(ctx, acc.ID, []Selection{sel("m1", 1.85), sel("m2", 2.10)}, 10_000)
	if err != nil {
		t.Fatal(err)
	}
	// 1.85 * 2.10 = 3.885 -> 38850 centavos
	if bet.PayoutCents != 38_850 {
		t.Errorf("payout = %d, want 38850", bet.PayoutCents)
	}
}

func TestDepositValidation(t *testing.T) {
	eng, acc := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.Deposit(ctx, acc.ID, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := eng.Deposit(ctx, "nope", 100); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}
