package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pichacka/internal/core"
	applog "pichacka/internal/log"
)

const maxBodyBytes = 1 << 20

// Response messages shared with the web client.
const (
	msgInvalidData = "Invalid data"
	msgNotFound    = "Not found"
	msgConflict    = "Conflict"
	msgServerError = "Server error"
)

type messageResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// badRequestError marks a body or path parameter that could not be decoded.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to tell the client.
		return
	}
}

// writeError maps err to a status code and a JSON body. It is the only
// place where ledger errors become HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		verr *core.ValidationError
		berr *badRequestError
	)
	logger := applog.FromContext(r.Context())

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageResponse{
			Message: msgInvalidData,
			Details: []fieldError{{Field: verr.Field, Reason: verr.Reason}},
		})
	case errors.As(err, &berr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidData, Details: berr.Error()})
	case errors.Is(err, core.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidData, Details: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNotFound})
	case errors.Is(err, core.ErrConflict):
		writeJSON(w, http.StatusConflict, messageResponse{Message: msgConflict})
	default:
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldOperation, op,
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeInternal)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msgServerError})
		return
	}

	logger.WarnContext(r.Context(), "Request rejected",
		applog.FieldOperation, op,
		applog.FieldError, err.Error())
}

// decodeJSON reads a single JSON document of at most maxBodyBytes.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		return v, &badRequestError{fmt.Errorf("decode body: %w", err)}
	}
	if dec.More() {
		return v, &badRequestError{errors.New("decode body: trailing data after JSON document")}
	}
	return v, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &badRequestError{fmt.Errorf("invalid id %q", raw)}
	}
	return id, nil
}
