package sheets

import "context"

// Ports for outbound spreadsheet adapters.
type (
	// RowAppender appends one row of cell values to a named sheet.
	RowAppender interface {
		AppendRow(ctx context.Context, sheet string, values []any) error
	}
)
