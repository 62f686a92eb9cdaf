package core

import (
	"testing"
	"time"
)

func TestWeekAndMonthBounds(t *testing.T) {
	loc := time.UTC
	// Saturday
	now := time.Date(2026, 10, 17, 15, 4, 0, 0, loc)

	ws, we := WeekBounds(now)
	if ws != time.Date(2026, 10, 11, 0, 0, 0, 0, loc) {
		t.Fatalf("unexpected week start %v", ws)
	}
	if we != time.Date(2026, 10, 17, 23, 59, 59, int(999*time.Millisecond), loc) {
		t.Fatalf("unexpected week end %v", we)
	}
	if got := FormatCzechDate(ws) + "-" + FormatCzechDate(we); got != "11. 10. 2026-17. 10. 2026" {
		t.Fatalf("unexpected range label %q", got)
	}

	ms, me := MonthBounds(now)
	if ms.Day() != 1 || me.Day() != 31 || me.Hour() != 23 {
		t.Fatalf("unexpected month bounds %v - %v", ms, me)
	}
	if CzechMonthName(ms.Month()) != "říjen" {
		t.Fatalf("unexpected month name %q", CzechMonthName(ms.Month()))
	}
	if FormatCzechMonthYear(now) != "říj 2026" {
		t.Fatalf("unexpected month label %q", FormatCzechMonthYear(now))
	}
}

func TestSummarizeWorkLogs(t *testing.T) {
	logs := []WorkLog{
		{DurationMinutes: 135, Earnings: NewMoney(619), Deduction: NewMoney(206)},
		{DurationMinutes: 105, Earnings: NewMoney(481), Deduction: NewMoney(160)},
	}
	s := SummarizeWorkLogs(logs)
	if s.WorkTimeMinutes != 240 || !s.Earnings.Equal(NewMoney(1100)) || !s.Deduction.Equal(NewMoney(366)) {
		t.Fatalf("unexpected summary %+v", s)
	}
	if empty := SummarizeWorkLogs(nil); empty.WorkTimeMinutes != 0 || !empty.Earnings.IsZero() {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestBuildWorkCharts(t *testing.T) {
	loc := time.UTC
	day1 := time.Date(2026, 10, 17, 13, 0, 0, 0, loc)
	day0 := time.Date(2026, 10, 16, 9, 0, 0, 0, loc)
	logs := []WorkLog{
		{PersonID: 1, ActivityID: 2, StartTime: day1, DurationMinutes: 60, Earnings: NewMoney(275)},
		{PersonID: 1, ActivityID: 1, StartTime: day1.Add(-3 * time.Hour), DurationMinutes: 30, Earnings: NewMoney(100)},
		{PersonID: 9, ActivityID: 9, StartTime: day0, DurationMinutes: 15, Earnings: NewMoney(50)},
	}
	acts := []Activity{{ID: 1, Name: "Programování", Color: "#B39DDB"}, {ID: 2, Name: "Schůzky", Color: "#FFCC80"}}
	persons := []Person{{ID: 1, Name: "Marie Nováková"}}

	c := BuildWorkCharts(logs, acts, persons, loc)
	if len(c.ByDay) != 2 || c.ByDay[0].Name != "17. 10. 2026" || c.ByDay[0].Minutes != 90 {
		t.Fatalf("unexpected byDay %+v", c.ByDay)
	}
	if len(c.ByActivity) != 2 || c.ByActivity[0].Name != "Schůzky" || c.ByActivity[0].Color != "#FFCC80" {
		t.Fatalf("unexpected byActivity %+v", c.ByActivity)
	}
	if len(c.ByPerson) != 1 || c.ByPerson[0].Minutes != 90 || !c.ByPerson[0].Earnings.Equal(NewMoney(375)) {
		t.Fatalf("unexpected byPerson %+v", c.ByPerson)
	}
}

func TestBuildFinanceChartsExpenseNeverDeducts(t *testing.T) {
	loc := time.UTC
	d := time.Date(2026, 10, 5, 10, 0, 0, 0, loc)
	finances := []Finance{
		{Amount: NewMoney(5000), Currency: "CZK", Type: FinanceIncome, Date: d, OffsetByEarnings: NewMoney(1200)},
		{Amount: NewMoney(1500), Currency: "CZK", Type: FinanceExpense, Date: d, OffsetByEarnings: NewMoney(999)},
		{Amount: NewMoney(200), Currency: "EUR", Type: FinanceIncome, Date: d},
		{Amount: NewMoney(10), Currency: "GBP", Type: FinanceIncome, Date: d},
	}
	c := BuildFinanceCharts(finances, loc)
	if len(c.Monthly) != 1 {
		t.Fatalf("expected one month, got %+v", c.Monthly)
	}
	m := c.Monthly[0]
	if m.Name != "říj 2026" || !m.Deduction.Equal(NewMoney(1200)) || !m.Expenses.Equal(NewMoney(1500)) || !m.Income.Equal(NewMoney(5210)) {
		t.Fatalf("unexpected month %+v", m)
	}
	if len(c.Currencies) != 1 || !c.Currencies[0].CZK.Equal(NewMoney(3500)) || !c.Currencies[0].EUR.Equal(NewMoney(200)) || !c.Currencies[0].USD.IsZero() {
		t.Fatalf("unexpected currencies %+v", c.Currencies)
	}
}

func TestBuildDebtStatsAndEnrich(t *testing.T) {
	now := time.Now()
	var debts []Debt
	for i := int64(1); i <= 6; i++ {
		debts = append(debts, NewDebtFrom(NewDebt{Name: "d", TotalAmount: NewMoney(100), PaidAmount: NewMoney(40)}, i, now))
	}
	stats := BuildDebtStats(debts)
	if !stats.TotalDebt.Equal(NewMoney(600)) || !stats.TotalPaid.Equal(NewMoney(240)) {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.Debts[5].Color != "#B39DDB" || !stats.Debts[0].Amount.Equal(NewMoney(60)) {
		t.Fatalf("unexpected slices %+v", stats.Debts)
	}

	views := EnrichDebtPayments([]DebtPayment{{ID: 1, DebtID: 1}, {ID: 2, DebtID: 42}}, debts[:1])
	if views[0].DebtName != "d" || views[1].DebtName != UnknownDebtName {
		t.Fatalf("unexpected views %+v", views)
	}
}
