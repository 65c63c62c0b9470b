package ledger

import "time"

// Operações registradas no journal
const (
	OpAccountCreated      = "ACCOUNT_CREATED"
	OpDeposit             = "DEPOSIT"
	OpBetPlaced           = "BET_PLACED"
	OpBetSettled          = "BET_SETTLED"
	OpWithdrawalRequested = "WITHDRAWAL_REQUESTED"
	OpWithdrawalApproved  = "WITHDRAWAL_APPROVED"
	OpWithdrawalRejected  = "WITHDRAWAL_REJECTED"
	OpBalanceAdjusted     = "BALANCE_ADJUSTED"
	OpStatusChanged       = "STATUS_CHANGED"
	OpLimitChanged        = "LIMIT_CHANGED"
)

// JournalEntry é o registro append-only de uma operação do ledger com os
// deltas financeiros que ela aplicou. As estatísticas da plataforma são
// exatamente o fold dessas entradas (ver ReplayStats).
type JournalEntry struct {
	Seq              int64
	Op               string
	AccountID        string
	RefID            string // id da aposta ou da solicitação de saque
	AmountCents      int64
	BalanceDelta     int64
	VolumeDelta      int64
	GrossProfitDelta int64
	PayoutsDelta     int64
	NetRevenueDelta  int64
	ActiveDelta      int
	At               time.Time
}
