package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/ledger"
)

// Postgres implementa ledger.Store sobre Postgres. O Engine já serializa
// as mutações por conta; o FOR UPDATE aqui é cinto extra para o caso de
// mais de uma instância apontar para o mesmo banco.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) CreateAccount(ctx context.Context, a *ledger.Account) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts
		  (id, full_name, email, phone, odds_format, language, member_since, is_admin,
		   balance_cents, status, payout_limit_cents, is_verified, total_bets, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.Profile.FullName, a.Profile.Email, a.Profile.Phone, a.Profile.OddsFormat,
		a.Profile.Language, a.Profile.MemberSince, a.Profile.IsAdmin,
		a.BalanceCents, a.Status, a.PayoutLimitCents, a.IsVerified, a.TotalBets, a.CreatedAt,
	)
	return err
}

func (p *Postgres) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	a := &ledger.Account{}
	err := p.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, phone, odds_format, language, member_since, is_admin,
		       balance_cents, status, payout_limit_cents, is_verified, total_bets, created_at
		FROM accounts WHERE id=$1`, id).Scan(
		&a.ID, &a.Profile.FullName, &a.Profile.Email, &a.Profile.Phone, &a.Profile.OddsFormat,
		&a.Profile.Language, &a.Profile.MemberSince, &a.Profile.IsAdmin,
		&a.BalanceCents, &a.Status, &a.PayoutLimitCents, &a.IsVerified, &a.TotalBets, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Postgres) SaveAccount(ctx context.Context, a *ledger.Account) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id=$1 FOR UPDATE`, a.ID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return ledger.ErrAccountNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET
		  full_name=$2, email=$3, phone=$4, odds_format=$5, language=$6,
		  balance_cents=$7, status=$8, payout_limit_cents=$9, is_verified=$10, total_bets=$11
		WHERE id=$1`,
		a.ID, a.Profile.FullName, a.Profile.Email, a.Profile.Phone, a.Profile.OddsFormat,
		a.Profile.Language, a.BalanceCents, a.Status, a.PayoutLimitCents, a.IsVerified, a.TotalBets,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, full_name, email, phone, odds_format, language, member_since, is_admin,
		       balance_cents, status, payout_limit_cents, is_verified, total_bets, created_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ledger.Account
	for rows.Next() {
		a := &ledger.Account{}
		if err := rows.Scan(
			&a.ID, &a.Profile.FullName, &a.Profile.Email, &a.Profile.Phone, &a.Profile.OddsFormat,
			&a.Profile.Language, &a.Profile.MemberSince, &a.Profile.IsAdmin,
			&a.BalanceCents, &a.Status, &a.PayoutLimitCents, &a.IsVerified, &a.TotalBets, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateBet(ctx context.Context, b *ledger.BetRecord) error {
	sels, err := json.Marshal(b.Selections)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO bets (id, account_id, selections, stake_cents, total_odds, payout_cents, status, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		b.ID, b.AccountID, sels, b.StakeCents, b.TotalOdds, b.PayoutCents, b.Status, b.PlacedAt,
	)
	return err
}

func (p *Postgres) GetBet(ctx context.Context, id string) (*ledger.BetRecord, error) {
	b := &ledger.BetRecord{}
	var sels []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT id, account_id, selections, stake_cents, total_odds, payout_cents, status, placed_at, settled_at
		FROM bets WHERE id=$1`, id).Scan(
		&b.ID, &b.AccountID, &sels, &b.StakeCents, &b.TotalOdds, &b.PayoutCents, &b.Status, &b.PlacedAt, &b.SettledAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrBetNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sels, &b.Selections); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Postgres) SaveBet(ctx context.Context, b *ledger.BetRecord) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE bets SET status=$2, settled_at=$3 WHERE id=$1`,
		b.ID, b.Status, b.SettledAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrBetNotFound
	}
	return nil
}

func (p *Postgres) ListBets(ctx context.Context, accountID string) ([]*ledger.BetRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, account_id, selections, stake_cents, total_odds, payout_cents, status, placed_at, settled_at
		FROM bets WHERE account_id=$1 ORDER BY placed_at`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ledger.BetRecord
	for rows.Next() {
		b := &ledger.BetRecord{}
		var sels []byte
		if err := rows.Scan(&b.ID, &b.AccountID, &sels, &b.StakeCents, &b.TotalOdds, &b.PayoutCents, &b.Status, &b.PlacedAt, &b.SettledAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sels, &b.Selections); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateWithdrawal(ctx context.Context, w *ledger.WithdrawalRequest) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO withdrawal_requests (id, account_id, amount_cents, method, destination, requested_at, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		w.ID, w.AccountID, w.AmountCents, w.Method, w.Destination, w.RequestedAt, w.Status,
	)
	return err
}

func (p *Postgres) GetWithdrawal(ctx context.Context, id string) (*ledger.WithdrawalRequest, error) {
	w := &ledger.WithdrawalRequest{}
	var notes sql.NullString
	err := p.db.QueryRowContext(ctx, `
		SELECT id, account_id, amount_cents, method, destination, requested_at, status, processed_at, admin_notes
		FROM withdrawal_requests WHERE id=$1`, id).Scan(
		&w.ID, &w.AccountID, &w.AmountCents, &w.Method, &w.Destination, &w.RequestedAt, &w.Status, &w.ProcessedAt, &notes,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	w.AdminNotes = notes.String
	return w, nil
}

func (p *Postgres) SaveWithdrawal(ctx context.Context, w *ledger.WithdrawalRequest) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE withdrawal_requests SET status=$2, processed_at=$3, admin_notes=$4 WHERE id=$1`,
		w.ID, w.Status, w.ProcessedAt, w.AdminNotes,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrRequestNotFound
	}
	return nil
}

func (p *Postgres) ListWithdrawals(ctx context.Context, status string) ([]*ledger.WithdrawalRequest, error) {
	q := `
		SELECT id, account_id, amount_cents, method, destination, requested_at, status, processed_at, admin_notes
		FROM withdrawal_requests`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY requested_at`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ledger.WithdrawalRequest
	for rows.Next() {
		w := &ledger.WithdrawalRequest{}
		var notes sql.NullString
		if err := rows.Scan(&w.ID, &w.AccountID, &w.AmountCents, &w.Method, &w.Destination, &w.RequestedAt, &w.Status, &w.ProcessedAt, &notes); err != nil {
			return nil, err
		}
		w.AdminNotes = notes.String
		out = append(out, w)
	}
	return out, rows.Err()
}

func (p *Postgres) AppendJournal(ctx context.Context, e *ledger.JournalEntry) error {
	return p.db.QueryRowContext(ctx, `
		INSERT INTO ledger_journal
		  (op, account_id, ref_id, amount_cents, balance_delta, volume_delta,
		   gross_profit_delta, payouts_delta, net_revenue_delta, active_delta, at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING seq`,
		e.Op, e.AccountID, e.RefID, e.AmountCents, e.BalanceDelta, e.VolumeDelta,
		e.GrossProfitDelta, e.PayoutsDelta, e.NetRevenueDelta, e.ActiveDelta, e.At,
	).Scan(&e.Seq)
}

func (p *Postgres) Journal(ctx context.Context) ([]ledger.JournalEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT seq, op, account_id, ref_id, amount_cents, balance_delta, volume_delta,
		       gross_profit_delta, payouts_delta, net_revenue_delta, active_delta, at
		FROM ledger_journal ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.JournalEntry
	for rows.Next() {
		var e ledger.JournalEntry
		if err := rows.Scan(&e.Seq, &e.Op, &e.AccountID, &e.RefID, &e.AmountCents, &e.BalanceDelta,
			&e.VolumeDelta, &e.GrossProfitDelta, &e.PayoutsDelta, &e.NetRevenueDelta, &e.ActiveDelta, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
