package ledger

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrBetNotFound        = errors.New("bet not found")
	ErrRequestNotFound    = errors.New("withdrawal request not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptySelections    = errors.New("bet needs at least one selection")
	ErrDuplicateMatch     = errors.New("duplicate match in selections")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrInvalidOutcome     = errors.New("invalid outcome")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLimitExceeded      = errors.New("payout limit exceeded")
	ErrAlreadySettled     = errors.New("bet already settled")
	ErrAlreadyProcessed   = errors.New("withdrawal already processed")
)
