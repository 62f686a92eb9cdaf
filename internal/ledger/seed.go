package ledger

import (
	"context"
	"fmt"
	"time"

	"pichacka/internal/core"
)

// Seeder is the write surface SeedDemo needs.
type Seeder interface {
	UserStore
	DirectoryStore
	WorkLogStore
	FinanceStore
	DebtStore
}

const (
	DemoUsername = "demo@example.com"
	demoPassword = "password"
)

// DemoPersons and DemoActivities are the directory entries of a fresh install.
var (
	DemoPersons = []core.NewPerson{
		{Name: "Marie Nováková", HourlyRate: 275, DeductionRate: 0.333},
	}
	DemoActivities = []core.NewActivity{
		{Name: "Programování", Color: "#B39DDB"},
		{Name: "Konzultace", Color: "#FFCC80"},
		{Name: "Administrativa", Color: "#FFF59D"},
	}
)

// SeedDemo fills an empty store with demo records relative to now.
// A store that already holds work logs is left untouched and false is returned.
//
// Seeded payments go through CreateDebtPayment, so debts start with the
// balance before those payments and end at the published demo figures.
func SeedDemo(ctx context.Context, s Seeder, now time.Time) (bool, error) {
	existing, err := s.RecentWorkLogs(ctx, 1)
	if err != nil {
		return false, fmt.Errorf("check existing work logs: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	if _, err := RegisterUser(ctx, s, DemoUsername, demoPassword, "Marie Nováková"); err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}

	for _, p := range DemoPersons {
		if _, err := s.CreatePerson(ctx, p); err != nil {
			return false, fmt.Errorf("seed person %q: %w", p.Name, err)
		}
	}
	for _, a := range DemoActivities {
		if _, err := s.CreateActivity(ctx, a); err != nil {
			return false, fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}

	today := core.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	at := func(day time.Time, h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	logs := []core.NewWorkLog{
		{PersonID: 1, ActivityID: 1, StartTime: at(today, 9, 0), EndTime: at(today, 11, 15), DurationMinutes: 135, Earnings: core.NewMoney(619), Deduction: core.NewMoney(206)},
		{PersonID: 1, ActivityID: 2, StartTime: at(today, 13, 0), EndTime: at(today, 14, 45), DurationMinutes: 105, Earnings: core.NewMoney(481), Deduction: core.NewMoney(160)},
		{PersonID: 1, ActivityID: 3, StartTime: at(yesterday, 10, 0), EndTime: at(yesterday, 11, 0), DurationMinutes: 60, Earnings: core.NewMoney(275), Deduction: core.NewMoney(92)},
		{PersonID: 1, ActivityID: 1, StartTime: at(yesterday, 14, 0), EndTime: at(yesterday, 17, 30), DurationMinutes: 210, Earnings: core.NewMoney(963), Deduction: core.NewMoney(321)},
	}
	for _, l := range logs {
		if _, err := s.CreateWorkLog(ctx, l); err != nil {
			return false, fmt.Errorf("seed work log: %w", err)
		}
	}

	work, food := "Práce", "Jídlo"
	finances := []core.NewFinance{
		{Amount: core.NewMoney(5000), Currency: "CZK", Description: "Faktura za projekt", Type: core.FinanceIncome, Category: &work, Date: at(today.AddDate(0, 0, -2), 9, 0), OffsetByEarnings: core.NewMoney(1200)},
		{Amount: core.NewMoney(1500), Currency: "CZK", Description: "Nákup potravin", Type: core.FinanceExpense, Category: &food, Date: at(today.AddDate(0, 0, -3), 9, 0)},
		{Amount: core.NewMoney(200), Currency: "EUR", Description: "Platba za služby", Type: core.FinanceIncome, Category: &work, Date: at(today.AddDate(0, 0, -6), 9, 0)},
	}
	for _, f := range finances {
		if _, err := s.CreateFinance(ctx, f); err != nil {
			return false, fmt.Errorf("seed finance %q: %w", f.Description, err)
		}
	}

	debts := []core.NewDebt{
		{Name: "Půjčka na auto", TotalAmount: core.NewMoney(78500), PaidAmount: core.NewMoney(32300)},
		{Name: "Kreditní karta", TotalAmount: core.NewMoney(22400), PaidAmount: core.NewMoney(12560)},
		{Name: "Půjčka od rodičů", TotalAmount: core.NewMoney(30000), PaidAmount: core.NewMoney(6000)},
	}
	for _, d := range debts {
		if _, err := s.CreateDebt(ctx, d); err != nil {
			return false, fmt.Errorf("seed debt %q: %w", d.Name, err)
		}
	}

	payments := []core.NewDebtPayment{
		{DebtID: 1, Amount: core.NewMoney(5000), Date: today.AddDate(0, 0, -36)},
		{DebtID: 1, Amount: core.NewMoney(5000), Date: today.AddDate(0, 0, -96)},
		{DebtID: 2, Amount: core.NewMoney(2000), Date: today.AddDate(0, 0, -111)},
	}
	for _, p := range payments {
		if _, err := s.CreateDebtPayment(ctx, p); err != nil {
			return false, fmt.Errorf("seed debt payment: %w", err)
		}
	}
	return true, nil
}
