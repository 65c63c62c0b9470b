package ledger

import "time"

// Status de conta
const (
	AccountActive    = "ACTIVE"
	AccountSuspended = "SUSPENDED"
)

// Status de aposta. PENDING transiciona exatamente uma vez para WON ou LOST
const (
	BetPending = "PENDING"
	BetWon     = "WON"
	BetLost    = "LOST"
)

// Resultados possíveis de uma seleção no mercado 1x2
const (
	OutcomeHome = "HOME"
	OutcomeDraw = "DRAW"
	OutcomeAway = "AWAY"
)

// Status de solicitação de saque
const (
	WithdrawalPending  = "PENDING"
	WithdrawalApproved = "APPROVED"
	WithdrawalRejected = "REJECTED"
)

// Profile reúne os dados cadastrais da conta (sem efeito financeiro)
type Profile struct {
	FullName    string
	Email       string
	Phone       string
	OddsFormat  string // "Decimal" | "Fractional" | "American"
	Language    string
	MemberSince string
	IsAdmin     bool
}

// Account é a conta de um usuário. O saldo só muda através das operações
// do Engine; valores em centavos.
type Account struct {
	ID               string
	Profile          Profile
	BalanceCents     int64
	Status           string // ACTIVE | SUSPENDED
	PayoutLimitCents int64  // teto de um único saque, ajustável só pelo admin
	IsVerified       bool
	TotalBets        int
	CreatedAt        time.Time
}

// Selection é o snapshot de uma escolha do usuário: a odd é congelada no
// momento da seleção e não acompanha o feed ao vivo.
type Selection struct {
	MatchID  string
	Outcome  string // HOME | DRAW | AWAY
	Odd      float64
	HomeTeam string
	AwayTeam string
	Sport    string
}

// BetRecord é criado no registro da aposta e imutável após a liquidação.
// PayoutCents = round(StakeCents * TotalOdds), calculado uma única vez.
type BetRecord struct {
	ID          string
	AccountID   string
	Selections  []Selection
	StakeCents  int64
	TotalOdds   float64
	PayoutCents int64
	Status      string // PENDING | WON | LOST
	PlacedAt    time.Time
	SettledAt   *time.Time
}

// WithdrawalRequest transiciona exatamente uma vez de PENDING para
// APPROVED ou REJECTED, sempre pelo console administrativo.
type WithdrawalRequest struct {
	ID          string
	AccountID   string
	AmountCents int64
	Method      string // ex: "UPI", "PIX"
	Destination string
	RequestedAt time.Time
	Status      string
	ProcessedAt *time.Time
	AdminNotes  string
}
