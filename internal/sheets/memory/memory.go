// Package memory is an in-process spreadsheet used when no Google
// spreadsheet is configured and in tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"pichacka/internal/sheets"
)

type Sheets struct {
	mu   sync.Mutex
	rows map[string][][]any
}

var _ sheets.RowAppender = (*Sheets)(nil)

func New() *Sheets {
	return &Sheets{rows: map[string][][]any{}}
}

// AppendRow stores a copy of values under sheet.
func (s *Sheets) AppendRow(_ context.Context, sheet string, values []any) error {
	if len(values) == 0 {
		return errors.New("append row: no values")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sheet] = append(s.rows[sheet], append([]any(nil), values...))
	return nil
}

// Rows returns the rows appended to sheet, oldest first.
func (s *Sheets) Rows(sheet string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.rows[sheet]...)
}
