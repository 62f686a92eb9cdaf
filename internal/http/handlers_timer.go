package http

import (
	"net/http"

	"pichacka/internal/amqp"
)

// handleCurrentTimerSession answers JSON null when no timer is active.
func (s *Server) handleCurrentTimerSession(w http.ResponseWriter, r *http.Request) {
	ts, err := s.ledger.CurrentTimerSession(r.Context())
	if err != nil {
		writeError(w, r, "current timer session", err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleCreateTimerSession(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[timerSessionRequest](w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, r, "create timer session", err)
		return
	}

	ts, err := s.ledger.CreateTimerSession(r.Context(), req.input())
	if err != nil {
		writeError(w, r, "create timer session", err)
		return
	}
	s.metrics.RecordCreated(string(amqp.KindTimerSession))
	writeJSON(w, http.StatusCreated, ts)
}

func (s *Server) handleUpdateTimerSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "update timer session", err)
		return
	}
	req, err := decodeJSON[timerSessionPatchRequest](w, r)
	if err != nil {
		writeError(w, r, "update timer session", err)
		return
	}
	p := req.patch()
	if err := p.Validate(); err != nil {
		writeError(w, r, "update timer session", err)
		return
	}

	ts, err := s.ledger.UpdateTimerSession(r.Context(), id, p)
	if err != nil {
		writeError(w, r, "update timer session", err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}
