// Package export builds ledger snapshots and ships them out: as a JSON file
// committed to a GitHub repository or as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"time"

	"pichacka/internal/core"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Source is the read surface a snapshot is taken from.
type Source interface {
	ListWorkLogs(ctx context.Context) ([]core.WorkLog, error)
	ListFinances(ctx context.Context) ([]core.Finance, error)
	ListDebts(ctx context.Context) ([]core.Debt, error)
}

// Snapshot is the exported document.
type Snapshot struct {
	ExportDate string         `json:"exportDate"`
	WorkLogs   []core.WorkLog `json:"workLogs"`
	Finances   []core.Finance `json:"finances"`
	Debts      []core.Debt    `json:"debts"`
}

// TakeSnapshot reads every collection that is exported.
func TakeSnapshot(ctx context.Context, src Source, now time.Time) (Snapshot, error) {
	logs, err := src.ListWorkLogs(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot work logs: %w", err)
	}
	finances, err := src.ListFinances(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot finances: %w", err)
	}
	debts, err := src.ListDebts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot debts: %w", err)
	}
	return Snapshot{
		ExportDate: now.UTC().Format(isoMillis),
		WorkLogs:   logs,
		Finances:   finances,
		Debts:      debts,
	}, nil
}
