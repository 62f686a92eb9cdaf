package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
	"pichacka/internal/export"
	"pichacka/internal/sheets"
)

// RecordLoader reads the records announced by ledger events.
type RecordLoader interface {
	GetWorkLog(ctx context.Context, id int64) (core.WorkLog, error)
	GetFinance(ctx context.Context, id int64) (core.Finance, error)
	GetDebt(ctx context.Context, id int64) (core.Debt, error)
	GetDebtPayment(ctx context.Context, id int64) (core.DebtPayment, error)
}

// MirrorWorker copies newly created ledger records into a spreadsheet.
type MirrorWorker struct {
	store  RecordLoader
	sheets sheets.RowAppender
	loc    *time.Location
}

func NewMirrorWorker(store RecordLoader, sheets sheets.RowAppender, loc *time.Location) *MirrorWorker {
	if loc == nil {
		loc = time.Local
	}
	return &MirrorWorker{store: store, sheets: sheets, loc: loc}
}

// HandleLedgerEvent appends the announced record as one row.
// Timer sessions and unknown kinds are acknowledged without a row.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event", "kind", ev.Kind, "id", ev.ID)

	var (
		sheet string
		row   []any
	)
	switch ev.Kind {
	case amqp.KindWorkLog:
		l, err := w.store.GetWorkLog(ctx, ev.ID)
		if err != nil {
			return loadError("work log", err)
		}
		sheet, row = export.SheetWorkLogs, export.WorkLogRow(l, w.loc)
	case amqp.KindFinance:
		f, err := w.store.GetFinance(ctx, ev.ID)
		if err != nil {
			return loadError("finance", err)
		}
		sheet, row = export.SheetFinances, export.FinanceRow(f, w.loc)
	case amqp.KindDebt:
		d, err := w.store.GetDebt(ctx, ev.ID)
		if err != nil {
			return loadError("debt", err)
		}
		sheet, row = export.SheetDebts, export.DebtRow(d, w.loc)
	case amqp.KindDebtPayment:
		p, err := w.store.GetDebtPayment(ctx, ev.ID)
		if err != nil {
			return loadError("debt payment", err)
		}
		view := core.DebtPaymentView{DebtPayment: p, DebtName: w.debtName(ctx, p.DebtID)}
		sheet, row = export.SheetDebtPayments, export.DebtPaymentRow(view, w.loc)
	default:
		slog.DebugContext(ctx, "Ledger event not mirrored", "kind", ev.Kind, "id", ev.ID)
		return nil
	}

	if err := w.sheets.AppendRow(ctx, sheet, row); err != nil {
		return fmt.Errorf("mirror %s %d: %w", ev.Kind, ev.ID, err)
	}

	slog.InfoContext(ctx, "Mirrored ledger record", "kind", ev.Kind, "id", ev.ID, "sheet", sheet)
	return nil
}

// loadError marks records missing from storage as unprocessable so the
// event is not redelivered.
func loadError(what string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%w: get %s from storage: %w", amqp.ErrUnprocessable, what, err)
	}
	return fmt.Errorf("get %s from storage: %w", what, err)
}

// debtName resolves a debt's name, falling back to core.UnknownDebtName when
// the debt cannot be read.
func (w *MirrorWorker) debtName(ctx context.Context, id int64) string {
	d, err := w.store.GetDebt(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "Debt name unavailable for payment row", "debt_id", id, "error", err)
		return core.UnknownDebtName
	}
	return d.Name
}
