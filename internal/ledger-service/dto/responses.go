package dto

import "time"

type AccountResponse struct {
	AccountID        string `json:"accountId"`
	FullName         string `json:"fullName"`
	BalanceCents     int64  `json:"balance_cents"`
	Status           string `json:"status"`
	PayoutLimitCents int64  `json:"payout_limit_cents"`
	IsVerified       bool   `json:"isVerified"`
	TotalBets        int    `json:"totalBets"`
}

type SlipResponse struct {
	Selections []SelectionPayload `json:"selections"`
	TotalOdds  float64            `json:"total_odds"`
}

type BetResponse struct {
	BetID       string             `json:"betId"`
	Selections  []SelectionPayload `json:"selections"`
	StakeCents  int64              `json:"stake_cents"`
	TotalOdds   float64            `json:"total_odds"`
	PayoutCents int64              `json:"payout_cents"`
	Status      string             `json:"status"`
	PlacedAt    time.Time          `json:"placedAt"`
	SettledAt   *time.Time         `json:"settledAt,omitempty"`
}

type WithdrawalResponse struct {
	RequestID   string     `json:"requestId"`
	AccountID   string     `json:"accountId"`
	AmountCents int64      `json:"amount_cents"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	AdminNotes  string     `json:"adminNotes,omitempty"`
}

type StatsResponse struct {
	TotalVolumeCents  int64 `json:"total_volume_cents"`
	GrossProfitCents  int64 `json:"gross_profit_cents"`
	TotalPayoutsCents int64 `json:"total_payouts_cents"`
	NetRevenueCents   int64 `json:"net_revenue_cents"`
	ActiveUsers       int   `json:"active_users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
