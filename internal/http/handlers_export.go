package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pichacka/internal/core"
	"pichacka/internal/export"
	applog "pichacka/internal/log"
	"pichacka/internal/metrics"
)

// Messages returned by the export endpoint, in the client's language.
const (
	msgExportMissingTarget = "Chybí potřebné parametry (token, repo, owner)"
	msgExportUpstream      = "Nepodařilo se exportovat data na GitHub"
	msgExportFailed        = "Interní chyba serveru při exportu dat"
	msgExportSuccess       = "Data byla úspěšně exportována na GitHub"
	msgRateLimited         = "Příliš mnoho požadavků, zkuste to později"
)

const (
	targetGitHub = "github"
	targetXLSX   = "xlsx"
)

type exportErrorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

type exportResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	URL     *string `json:"url"`
}

// handleGitHubExport commits a snapshot of the ledger to the repository
// named in the body. GitHub errors are passed through with their status.
func (s *Server) handleGitHubExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.NewStructuredLogger(applog.FromContext(ctx))

	target, err := decodeJSON[export.GitHubTarget](w, r)
	if err != nil {
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeRejected)
		writeError(w, r, "github export", err)
		return
	}

	now := s.now()
	snap, err := export.TakeSnapshot(ctx, s.ledger, now)
	if err != nil {
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeFailed)
		logger.LogError(ctx, "Snapshot failed", err, applog.OpExport, nil)
		writeJSON(w, http.StatusInternalServerError, exportErrorResponse{Error: msgExportFailed})
		return
	}

	url, err := s.exporter.Export(ctx, target, snap, now)
	var upstream *export.UpstreamError
	switch {
	case errors.Is(err, export.ErrMissingTarget):
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeRejected)
		writeJSON(w, http.StatusBadRequest, exportErrorResponse{Error: msgExportMissingTarget})
	case errors.As(err, &upstream):
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeUpstream)
		writeJSON(w, upstream.Status, exportErrorResponse{Error: msgExportUpstream, Details: upstream.Details})
	case err != nil:
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeFailed)
		logger.LogError(ctx, "GitHub export failed", err, applog.OpExport,
			applog.NewFields().WithErrorType(applog.ErrorTypeNetwork))
		writeJSON(w, http.StatusInternalServerError, exportErrorResponse{Error: msgExportFailed})
	default:
		s.metrics.RecordExport(targetGitHub, metrics.OutcomeSuccess)
		writeJSON(w, http.StatusOK, exportResponse{Success: true, Message: msgExportSuccess, URL: url})
	}
}

// handleExportXLSX streams every collection as a workbook download.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		wb  export.Workbook
		err error
	)
	if wb.WorkLogs, err = s.ledger.ListWorkLogs(ctx); err != nil {
		writeError(w, r, "xlsx export", err)
		return
	}
	if wb.Finances, err = s.ledger.ListFinances(ctx); err != nil {
		writeError(w, r, "xlsx export", err)
		return
	}
	if wb.Debts, err = s.ledger.ListDebts(ctx); err != nil {
		writeError(w, r, "xlsx export", err)
		return
	}
	payments, err := s.ledger.ListDebtPayments(ctx)
	if err != nil {
		writeError(w, r, "xlsx export", err)
		return
	}
	wb.Payments = core.EnrichDebtPayments(payments, wb.Debts)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, wb, s.loc); err != nil {
		s.metrics.RecordExport(targetXLSX, metrics.OutcomeFailed)
		writeError(w, r, "xlsx export", err)
		return
	}
	s.metrics.RecordExport(targetXLSX, metrics.OutcomeSuccess)

	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.XLSXFileName(s.clock())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
