package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/dto"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/ledger"
	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/slip"
)

// Server expõe o Engine por HTTP: operações de conta e slip do usuário,
// console administrativo e o endpoint interno de liquidação.
type Server struct {
	log   *zap.Logger
	eng   *ledger.Engine
	slips *slip.Store
}

func NewServer(log *zap.Logger, eng *ledger.Engine, slips *slip.Store) *Server {
	return &Server{log: log, eng: eng, slips: slips}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1/accounts/{id}", func(r chi.Router) {
		r.Get("/", s.getAccount)
		r.Post("/deposit", s.deposit)
		r.Get("/bets", s.listBets)
		r.Post("/bets", s.placeBet)
		r.Post("/withdrawals", s.requestWithdrawal)
		r.Route("/slip", func(r chi.Router) {
			r.Get("/", s.getSlip)
			r.Post("/", s.selectOdd)
			r.Delete("/", s.clearSlip)
			r.Post("/confirm", s.confirmSlip)
		})
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Get("/stats", s.getStats)
		r.Get("/users", s.listUsers)
		r.Put("/users/{id}/status", s.setStatus)
		r.Put("/users/{id}/payout-limit", s.setPayoutLimit)
		r.Post("/users/{id}/adjust", s.adjustBalance)
		r.Get("/withdrawals", s.listWithdrawals)
		r.Post("/withdrawals/{id}/approve", s.approveWithdrawal)
		r.Post("/withdrawals/{id}/reject", s.rejectWithdrawal)
	})

	// Chamado pelo settlement-worker; único caminho que tira uma aposta de PENDING
	r.Post("/internal/bets/{id}/settle", s.settleBet)

	return r
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.eng.Account(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(acc))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	acc, err := s.eng.Deposit(r.Context(), chi.URLParam(r, "id"), req.AmountCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(acc))
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	sels := make([]ledger.Selection, len(req.Selections))
	for i, p := range req.Selections {
		sels[i] = ledger.Selection{
			MatchID: p.MatchID, Outcome: p.Outcome, Odd: p.Odd,
			HomeTeam: p.HomeTeam, AwayTeam: p.AwayTeam, Sport: p.Sport,
		}
	}
	bet, err := s.eng.PlaceBet(r.Context(), chi.URLParam(r, "id"), sels, req.StakeCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, betResponse(bet))
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.eng.Bets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.BetResponse, len(bets))
	for i, b := range bets {
		out[i] = betResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, slipResponse(s.slips.Selections(id), s.slips.TotalOdds(id)))
}

func (s *Server) selectOdd(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	id := chi.URLParam(r, "id")
	sels, err := s.slips.Select(r.Context(), id, req.MatchID, req.Outcome)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slipResponse(sels, s.slips.TotalOdds(id)))
}

func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	s.slips.Clear(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// confirmSlip converte o slip da sessão em aposta. Se o ledger recusar,
// o slip volta intacto para o usuário corrigir.
func (s *Server) confirmSlip(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	id := chi.URLParam(r, "id")
	sels, err := s.slips.Take(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	bet, err := s.eng.PlaceBet(r.Context(), id, sels, req.StakeCents)
	if err != nil {
		s.slips.Restore(id, sels)
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, betResponse(bet))
}

func (s *Server) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	wr, err := s.eng.RequestWithdrawal(r.Context(), chi.URLParam(r, "id"), req.AmountCents, req.Method, req.Destination)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, withdrawalResponse(wr))
}

func (s *Server) settleBet(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	bet, err := s.eng.SettleBet(r.Context(), chi.URLParam(r, "id"), req.Outcome)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betResponse(bet))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
}

// writeErr mapeia os erros tipados do domínio para status HTTP
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrBetNotFound),
		errors.Is(err, ledger.ErrRequestNotFound),
		errors.Is(err, slip.ErrMatchUnavailable):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrEmptySelections),
		errors.Is(err, ledger.ErrDuplicateMatch),
		errors.Is(err, ledger.ErrInvalidSelection),
		errors.Is(err, ledger.ErrInvalidOutcome),
		errors.Is(err, slip.ErrInvalidOutcome),
		errors.Is(err, slip.ErrEmptySlip):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrAccountSuspended):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrLimitExceeded),
		errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, ledger.ErrAlreadyProcessed):
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ErrorResponse{Error: err.Error()})
}

func accountResponse(a *ledger.Account) dto.AccountResponse {
	return dto.AccountResponse{
		AccountID:        a.ID,
		FullName:         a.Profile.FullName,
		BalanceCents:     a.BalanceCents,
		Status:           a.Status,
		PayoutLimitCents: a.PayoutLimitCents,
		IsVerified:       a.IsVerified,
		TotalBets:        a.TotalBets,
	}
}

func selectionPayloads(sels []ledger.Selection) []dto.SelectionPayload {
	out := make([]dto.SelectionPayload, len(sels))
	for i, s := range sels {
		out[i] = dto.SelectionPayload{
			MatchID: s.MatchID, Outcome: s.Outcome, Odd: s.Odd,
			HomeTeam: s.HomeTeam, AwayTeam: s.AwayTeam, Sport: s.Sport,
		}
	}
	return out
}

func slipResponse(sels []ledger.Selection, totalOdds float64) dto.SlipResponse {
	return dto.SlipResponse{Selections: selectionPayloads(sels), TotalOdds: totalOdds}
}

func betResponse(b *ledger.BetRecord) dto.BetResponse {
	return dto.BetResponse{
		BetID:       b.ID,
		Selections:  selectionPayloads(b.Selections),
		StakeCents:  b.StakeCents,
		TotalOdds:   b.TotalOdds,
		PayoutCents: b.PayoutCents,
		Status:      b.Status,
		PlacedAt:    b.PlacedAt,
		SettledAt:   b.SettledAt,
	}
}

func withdrawalResponse(w *ledger.WithdrawalRequest) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		RequestID:   w.ID,
		AccountID:   w.AccountID,
		AmountCents: w.AmountCents,
		Method:      w.Method,
		Status:      w.Status,
		RequestedAt: w.RequestedAt,
		ProcessedAt: w.ProcessedAt,
		AdminNotes:  w.AdminNotes,
	}
}
