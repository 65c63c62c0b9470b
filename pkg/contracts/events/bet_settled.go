package events

import "time"

// Evento emitido pelo ledger após liquidar uma aposta.
type BetSettled struct {
	BetID       string    `json:"betId"`
	AccountID   string    `json:"accountId"`
	Outcome     string    `json:"outcome"` // "WON" | "LOST"
	PayoutCents int64     `json:"payout_cents,omitempty"`
	Ts          time.Time `json:"ts"`
}
