package export

import (
	"time"

	"pichacka/internal/core"
)

// Sheet names shared by the XLSX workbook and the spreadsheet mirror.
const (
	SheetWorkLogs     = "WorkLogs"
	SheetFinances     = "Finances"
	SheetDebts        = "Debts"
	SheetDebtPayments = "DebtPayments"
)

const cellTimeLayout = "2006-01-02 15:04"

var (
	WorkLogHeader     = []any{"ID", "Person", "Activity", "Start", "End", "Minutes", "Earnings", "Deduction"}
	FinanceHeader     = []any{"ID", "Date", "Type", "Amount", "Currency", "Description", "Category", "Offset by earnings"}
	DebtHeader        = []any{"ID", "Name", "Total", "Paid", "Remaining", "Active", "Created"}
	DebtPaymentHeader = []any{"ID", "Debt", "Date", "Amount"}
)

func WorkLogRow(l core.WorkLog, loc *time.Location) []any {
	return []any{
		l.ID,
		l.PersonID,
		l.ActivityID,
		l.StartTime.In(loc).Format(cellTimeLayout),
		l.EndTime.In(loc).Format(cellTimeLayout),
		l.DurationMinutes,
		l.Earnings.Float64(),
		l.Deduction.Float64(),
	}
}

func FinanceRow(f core.Finance, loc *time.Location) []any {
	category := ""
	if f.Category != nil {
		category = *f.Category
	}
	return []any{
		f.ID,
		f.Date.In(loc).Format(cellTimeLayout),
		string(f.Type),
		f.Amount.Float64(),
		f.Currency,
		f.Description,
		category,
		f.OffsetByEarnings.Float64(),
	}
}

func DebtRow(d core.Debt, loc *time.Location) []any {
	return []any{
		d.ID,
		d.Name,
		d.TotalAmount.Float64(),
		d.PaidAmount.Float64(),
		d.RemainingAmount.Float64(),
		d.Active,
		d.CreatedAt.In(loc).Format(cellTimeLayout),
	}
}

// DebtPaymentRow names the debt rather than its id.
func DebtPaymentRow(p core.DebtPaymentView, loc *time.Location) []any {
	return []any{
		p.ID,
		p.DebtName,
		p.Date.In(loc).Format(cellTimeLayout),
		p.Amount.Float64(),
	}
}
