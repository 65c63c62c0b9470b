package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vportela/bet-wallet-platform-poc/internal/ledger-service/dto"
)

// Rotas privilegiadas do console administrativo: intervenções fora do
// fluxo normal do usuário. Sem efeito financeiro escondido — tudo passa
// pelas operações do Engine e aparece no journal.

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	st := s.eng.Stats()
	writeJSON(w, http.StatusOK, dto.StatsResponse{
		TotalVolumeCents:  st.TotalVolumeCents,
		GrossProfitCents:  st.GrossProfitCents,
		TotalPayoutsCents: st.TotalPayoutsCents,
		NetRevenueCents:   st.NetRevenueCents,
		ActiveUsers:       st.ActiveUsers,
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	accs, err := s.eng.Accounts(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.AccountResponse, len(accs))
	for i, a := range accs {
		out[i] = accountResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	acc, err := s.eng.SetAccountStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(acc))
}

func (s *Server) setPayoutLimit(w http.ResponseWriter, r *http.Request) {
	var req dto.LimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	acc, err := s.eng.SetPayoutLimit(r.Context(), chi.URLParam(r, "id"), req.PayoutLimitCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(acc))
}

func (s *Server) adjustBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	acc, err := s.eng.AdjustBalance(r.Context(), chi.URLParam(r, "id"), req.AmountCents)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse(acc))
}

func (s *Server) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.eng.Withdrawals(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeErr(w, err)
		return
	}
	out := make([]dto.WithdrawalResponse, len(reqs))
	for i, wr := range reqs {
		out[i] = withdrawalResponse(wr)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) approveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	wr, err := s.eng.ApproveWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawalResponse(wr))
}

func (s *Server) rejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	wr, err := s.eng.RejectWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawalResponse(wr))
}
