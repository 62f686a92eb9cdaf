package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"pichacka/internal/core"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook is the data written to the XLSX download.
type Workbook struct {
	WorkLogs []core.WorkLog
	Finances []core.Finance
	Debts    []core.Debt
	Payments []core.DebtPaymentView
}

// XLSXFileName names the download for a workbook generated at t.
func XLSXFileName(t time.Time) string {
	return "pichacka_" + t.Format("20060102") + ".xlsx"
}

// WriteXLSX renders wb, one sheet per collection, to w.
func WriteXLSX(w io.Writer, wb Workbook, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{SheetWorkLogs, WorkLogHeader, mapRows(wb.WorkLogs, func(l core.WorkLog) []any { return WorkLogRow(l, loc) })},
		{SheetFinances, FinanceHeader, mapRows(wb.Finances, func(x core.Finance) []any { return FinanceRow(x, loc) })},
		{SheetDebts, DebtHeader, mapRows(wb.Debts, func(d core.Debt) []any { return DebtRow(d, loc) })},
		{SheetDebtPayments, DebtPaymentHeader, mapRows(wb.Payments, func(p core.DebtPaymentView) []any { return DebtPaymentRow(p, loc) })},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}

		if err := writeRow(f, s.name, 1, s.header); err != nil {
			return err
		}
		for j, row := range s.rows {
			if err := writeRow(f, s.name, j+2, row); err != nil {
				return err
			}
		}

		last, _ := excelize.ColumnNumberToName(len(s.header))
		if err := f.SetColWidth(s.name, "A", last, 16); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func mapRows[T any](items []T, row func(T) []any) [][]any {
	out := make([][]any, 0, len(items))
	for _, it := range items {
		out = append(out, row(it))
	}
	return out
}
