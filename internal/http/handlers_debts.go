package http

import (
	"net/http"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
)

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.ledger.ListDebts(r.Context())
	if err != nil {
		writeError(w, r, "list debts", err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleDebtStats(w http.ResponseWriter, r *http.Request) {
	debts, err := s.ledger.ListDebts(r.Context())
	if err != nil {
		writeError(w, r, "debt stats", err)
		return
	}
	writeJSON(w, http.StatusOK, core.BuildDebtStats(debts))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[debtRequest](w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, r, "create debt", err)
		return
	}

	d, err := s.ledger.CreateDebt(r.Context(), req.input())
	if err != nil {
		writeError(w, r, "create debt", err)
		return
	}
	s.metrics.RecordCreated(string(amqp.KindDebt))
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "update debt", err)
		return
	}
	req, err := decodeJSON[debtPatchRequest](w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, r, "update debt", err)
		return
	}

	d, err := s.ledger.UpdateDebt(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, r, "update debt", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleListDebtPayments lists payments with the name of their debt.
func (s *Server) handleListDebtPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payments, err := s.ledger.ListDebtPayments(ctx)
	if err != nil {
		writeError(w, r, "list debt payments", err)
		return
	}
	debts, err := s.ledger.ListDebts(ctx)
	if err != nil {
		writeError(w, r, "list debt payments", err)
		return
	}
	writeJSON(w, http.StatusOK, core.EnrichDebtPayments(payments, debts))
}

func (s *Server) handleCreateDebtPayment(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[debtPaymentRequest](w, r)
	if err != nil {
		writeError(w, r, "create debt payment", err)
		return
	}
	in := req.input(s.clock())
	if err := in.Validate(); err != nil {
		writeError(w, r, "create debt payment", err)
		return
	}

	p, err := s.ledger.CreateDebtPayment(r.Context(), in)
	if err != nil {
		writeError(w, r, "create debt payment", err)
		return
	}
	s.metrics.RecordCreated(string(amqp.KindDebtPayment))
	writeJSON(w, http.StatusCreated, p)
}
