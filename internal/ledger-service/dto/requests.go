package dto

// DepositRequest credita a conta
type DepositRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// SelectionPayload é o snapshot de uma seleção enviado no registro direto
type SelectionPayload struct {
	MatchID  string  `json:"matchId"`
	Outcome  string  `json:"outcome"` // HOME | DRAW | AWAY
	Odd      float64 `json:"odd"`
	HomeTeam string  `json:"homeTeam"`
	AwayTeam string  `json:"awayTeam"`
	Sport    string  `json:"sport,omitempty"`
}

// PlaceBetRequest registra uma aposta com seleções explícitas
type PlaceBetRequest struct {
	Selections []SelectionPayload `json:"selections"`
	StakeCents int64              `json:"stake_cents"`
}

// SelectRequest adiciona/remove/substitui uma seleção no slip da sessão
type SelectRequest struct {
	MatchID string `json:"matchId"`
	Outcome string `json:"outcome"`
}

// ConfirmSlipRequest converte o slip corrente em aposta
type ConfirmSlipRequest struct {
	StakeCents int64 `json:"stake_cents"`
}

// WithdrawalRequest solicita um saque abaixo do payoutLimit
type WithdrawalRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Destination string `json:"destination,omitempty"` // ex: chave UPI/PIX
}

// StatusRequest muda o status da conta (admin)
type StatusRequest struct {
	Status string `json:"status"` // ACTIVE | SUSPENDED
}

// LimitRequest ajusta o teto de saque da conta (admin)
type LimitRequest struct {
	PayoutLimitCents int64 `json:"payout_limit_cents"`
}

// AdjustRequest aplica um ajuste manual de saldo (admin)
type AdjustRequest struct {
	AmountCents int64 `json:"amount_cents"` // com sinal
}

// DecisionRequest aprova/rejeita uma solicitação de saque (admin)
type DecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// SettleRequest liquida uma aposta (uso interno do settlement-worker)
type SettleRequest struct {
	Outcome string `json:"outcome"` // WON | LOST
}
