package http

import (
	"net/http"
	"strings"

	"pichacka/internal/core"
)

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.ledger.ListPersons(r.Context())
	if err != nil {
		writeError(w, r, "list persons", err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[personRequest](w, r)
	if err != nil {
		writeError(w, r, "create person", err)
		return
	}
	p, err := s.ledger.CreatePerson(r.Context(), core.NewPerson{
		Name:          strings.TrimSpace(req.Name),
		HourlyRate:    req.HourlyRate,
		DeductionRate: req.DeductionRate,
	})
	if err != nil {
		writeError(w, r, "create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.ledger.ListActivities(r.Context())
	if err != nil {
		writeError(w, r, "list activities", err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[activityRequest](w, r)
	if err != nil {
		writeError(w, r, "create activity", err)
		return
	}
	a, err := s.ledger.CreateActivity(r.Context(), core.NewActivity{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.TrimSpace(req.Color),
	})
	if err != nil {
		writeError(w, r, "create activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
