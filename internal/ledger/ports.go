// Package ledger defines the storage ports for the ledger entities and the
// demo data used to populate a fresh store.
package ledger

import (
	"context"
	"time"

	"pichacka/internal/core"
)

// Ports implemented by the memory and SQL stores.
type (
	UserStore interface {
		GetUser(ctx context.Context, id int64) (core.User, error)
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
		// CreateUser fails with core.ErrConflict when the username is taken.
		CreateUser(ctx context.Context, in core.NewUser) (core.User, error)
	}

	DirectoryStore interface {
		ListPersons(ctx context.Context) ([]core.Person, error)
		CreatePerson(ctx context.Context, in core.NewPerson) (core.Person, error)
		ListActivities(ctx context.Context) ([]core.Activity, error)
		CreateActivity(ctx context.Context, in core.NewActivity) (core.Activity, error)
	}

	WorkLogStore interface {
		// ListWorkLogs returns every log, newest start time first.
		ListWorkLogs(ctx context.Context) ([]core.WorkLog, error)
		RecentWorkLogs(ctx context.Context, n int) ([]core.WorkLog, error)
		WorkLogsByPerson(ctx context.Context, personID int64) ([]core.WorkLog, error)
		WorkLogsByActivity(ctx context.Context, activityID int64) ([]core.WorkLog, error)
		// WorkLogsBetween returns logs starting within [from, to] inclusive.
		WorkLogsBetween(ctx context.Context, from, to time.Time) ([]core.WorkLog, error)
		GetWorkLog(ctx context.Context, id int64) (core.WorkLog, error)
		CreateWorkLog(ctx context.Context, in core.NewWorkLog) (core.WorkLog, error)
		// SummarizeDay totals the calendar day of day, in day's location.
		SummarizeDay(ctx context.Context, day time.Time) (core.DaySummary, error)
		SummarizeRange(ctx context.Context, from, to time.Time) (core.WorkSummary, error)
	}

	FinanceStore interface {
		// ListFinances returns every entry, newest date first.
		ListFinances(ctx context.Context) ([]core.Finance, error)
		FinancesByType(ctx context.Context, t core.FinanceType) ([]core.Finance, error)
		FinancesByCurrency(ctx context.Context, currency string) ([]core.Finance, error)
		GetFinance(ctx context.Context, id int64) (core.Finance, error)
		CreateFinance(ctx context.Context, in core.NewFinance) (core.Finance, error)
	}

	DebtStore interface {
		// ListDebts returns debts in creation order.
		ListDebts(ctx context.Context) ([]core.Debt, error)
		GetDebt(ctx context.Context, id int64) (core.Debt, error)
		CreateDebt(ctx context.Context, in core.NewDebt) (core.Debt, error)
		UpdateDebt(ctx context.Context, id int64, p core.DebtPatch) (core.Debt, error)

		// ListDebtPayments returns every payment, newest date first.
		ListDebtPayments(ctx context.Context) ([]core.DebtPayment, error)
		DebtPaymentsByDebt(ctx context.Context, debtID int64) ([]core.DebtPayment, error)
		GetDebtPayment(ctx context.Context, id int64) (core.DebtPayment, error)
		// CreateDebtPayment records the payment and settles it against the
		// owning debt atomically. Unknown debts yield core.ErrNotFound.
		CreateDebtPayment(ctx context.Context, in core.NewDebtPayment) (core.DebtPayment, error)
	}

	TimerStore interface {
		// CurrentTimerSession returns the oldest session that is not stopped, or nil.
		CurrentTimerSession(ctx context.Context) (*core.TimerSession, error)
		CreateTimerSession(ctx context.Context, in core.NewTimerSession) (core.TimerSession, error)
		UpdateTimerSession(ctx context.Context, id int64, p core.TimerSessionPatch) (core.TimerSession, error)
	}

	// Store is the full persistence surface used by the HTTP server.
	Store interface {
		UserStore
		DirectoryStore
		WorkLogStore
		FinanceStore
		DebtStore
		TimerStore

		// Ping reports whether the store can serve requests.
		Ping(ctx context.Context) error
		Close() error
	}
)
