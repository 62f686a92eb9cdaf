package http

import (
	"net/http"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
)

type todaySummary struct {
	Date string `json:"date"`
	core.WorkSummary
}

type weekSummary struct {
	Range string `json:"range"`
	core.WorkSummary
}

type monthSummary struct {
	Name string `json:"name"`
	core.WorkSummary
}

type summaryResponse struct {
	Today todaySummary `json:"today"`
	Week  weekSummary  `json:"week"`
	Month monthSummary `json:"month"`
}

func (s *Server) handleListWorkLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.ledger.ListWorkLogs(r.Context())
	if err != nil {
		writeError(w, r, "list work logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleRecentWorkLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.ledger.RecentWorkLogs(r.Context(), recentWorkLogs)
	if err != nil {
		writeError(w, r, "recent work logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleWorkLogSummary totals today, the Sunday-to-Saturday week and the
// calendar month around the current local time.
func (s *Server) handleWorkLogSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.clock()

	today, err := s.ledger.SummarizeDay(ctx, now)
	if err != nil {
		writeError(w, r, "summarize day", err)
		return
	}

	weekStart, weekEnd := core.WeekBounds(now)
	week, err := s.ledger.SummarizeRange(ctx, weekStart, weekEnd)
	if err != nil {
		writeError(w, r, "summarize week", err)
		return
	}

	monthStart, monthEnd := core.MonthBounds(now)
	month, err := s.ledger.SummarizeRange(ctx, monthStart, monthEnd)
	if err != nil {
		writeError(w, r, "summarize month", err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Today: todaySummary{Date: core.FormatCzechDate(today.Date), WorkSummary: today.WorkSummary},
		Week:  weekSummary{Range: core.FormatCzechDate(weekStart) + "-" + core.FormatCzechDate(weekEnd), WorkSummary: week},
		Month: monthSummary{Name: core.CzechMonthName(monthStart.Month()), WorkSummary: month},
	})
}

func (s *Server) handleWorkLogCharts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logs, err := s.ledger.ListWorkLogs(ctx)
	if err != nil {
		writeError(w, r, "work log charts", err)
		return
	}
	activities, err := s.ledger.ListActivities(ctx)
	if err != nil {
		writeError(w, r, "work log charts", err)
		return
	}
	persons, err := s.ledger.ListPersons(ctx)
	if err != nil {
		writeError(w, r, "work log charts", err)
		return
	}
	writeJSON(w, http.StatusOK, core.BuildWorkCharts(logs, activities, persons, s.loc))
}

func (s *Server) handleCreateWorkLog(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[workLogRequest](w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeError(w, r, "create work log", err)
		return
	}

	l, err := s.ledger.CreateWorkLog(r.Context(), req.input())
	if err != nil {
		writeError(w, r, "create work log", err)
		return
	}
	s.metrics.RecordCreated(string(amqp.KindWorkLog))
	writeJSON(w, http.StatusCreated, l)
}
