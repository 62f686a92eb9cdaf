package http

import (
	"net/http"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
)

func (s *Server) handleListFinances(w http.ResponseWriter, r *http.Request) {
	finances, err := s.ledger.ListFinances(r.Context())
	if err != nil {
		writeError(w, r, "list finances", err)
		return
	}
	writeJSON(w, http.StatusOK, finances)
}

func (s *Server) handleFinanceCharts(w http.ResponseWriter, r *http.Request) {
	finances, err := s.ledger.ListFinances(r.Context())
	if err != nil {
		writeError(w, r, "finance charts", err)
		return
	}
	writeJSON(w, http.StatusOK, core.BuildFinanceCharts(finances, s.loc))
}

func (s *Server) handleCreateFinance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[financeRequest](w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, r, "create finance", err)
		return
	}

	f, err := s.ledger.CreateFinance(r.Context(), req.input())
	if err != nil {
		writeError(w, r, "create finance", err)
		return
	}
	s.metrics.RecordCreated(string(amqp.KindFinance))
	writeJSON(w, http.StatusCreated, f)
}
