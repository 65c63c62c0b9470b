package ledger

import "context"

// Store define a persistência do ledger. O Engine serializa as mutações
// por conta antes de chamar o Store, então implementações não precisam
// de lock por linha (a versão Postgres usa mesmo assim, ver repo).
type Store interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	SaveAccount(ctx context.Context, a *Account) error
	ListAccounts(ctx context.Context) ([]*Account, error)

	CreateBet(ctx context.Context, b *BetRecord) error
	GetBet(ctx context.Context, id string) (*BetRecord, error)
	SaveBet(ctx context.Context, b *BetRecord) error
	ListBets(ctx context.Context, accountID string) ([]*BetRecord, error)

	CreateWithdrawal(ctx context.Context, w *WithdrawalRequest) error
	GetWithdrawal(ctx context.Context, id string) (*WithdrawalRequest, error)
	SaveWithdrawal(ctx context.Context, w *WithdrawalRequest) error
	ListWithdrawals(ctx context.Context, status string) ([]*WithdrawalRequest, error)

	// AppendJournal preenche e.Seq
	AppendJournal(ctx context.Context, e *JournalEntry) error
	Journal(ctx context.Context) ([]JournalEntry, error)
}
