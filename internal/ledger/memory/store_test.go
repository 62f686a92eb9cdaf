package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pichacka/internal/core"
)

func fixedClock() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

func TestStore_WorkLogOrderingAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewWithClock(fixedClock)
	base := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		if _, err := s.CreateWorkLog(ctx, core.NewWorkLog{
			PersonID: 1, ActivityID: 1, StartTime: start, EndTime: start.Add(30 * time.Minute),
			DurationMinutes: 30, Earnings: core.NewMoney(100), Deduction: core.NewMoney(33),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, err := s.RecentWorkLogs(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 logs, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].StartTime.After(recent[i-1].StartTime) {
			t.Fatalf("logs not in descending start order: %v then %v", recent[i-1].StartTime, recent[i].StartTime)
		}
	}
	if recent[0].ID != 7 || !recent[0].CreatedAt.Equal(fixedClock()) {
		t.Fatalf("unexpected newest log %+v", recent[0])
	}

	all, _ := s.RecentWorkLogs(ctx, 50)
	if len(all) != 7 {
		t.Fatalf("expected all 7 logs, got %d", len(all))
	}
}

func TestStore_SummarizeRangeInclusive(t *testing.T) {
	ctx := context.Background()
	s := New()
	from := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	starts := []time.Time{from, to, from.Add(-time.Second), to.Add(time.Second), from.Add(72 * time.Hour)}
	for _, st := range starts {
		_, err := s.CreateWorkLog(ctx, core.NewWorkLog{
			PersonID: 1, ActivityID: 1, StartTime: st, EndTime: st.Add(time.Hour),
			DurationMinutes: 60, Earnings: core.NewMoney(275), Deduction: core.NewMoney(92),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	sum, err := s.SummarizeRange(ctx, from, to)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.WorkTimeMinutes != 180 || !sum.Earnings.Equal(core.NewMoney(825)) || !sum.Deduction.Equal(core.NewMoney(276)) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestStore_SummarizeDay(t *testing.T) {
	ctx := context.Background()
	s := New()
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	_, _ = s.CreateWorkLog(ctx, core.NewWorkLog{
		PersonID: 1, ActivityID: 1, StartTime: start, EndTime: start.Add(135 * time.Minute),
		DurationMinutes: 135, Earnings: core.NewMoney(619), Deduction: core.NewMoney(206),
	})
	day, err := s.SummarizeDay(ctx, start.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("summarize day: %v", err)
	}
	if day.WorkTimeMinutes != 135 || !day.Earnings.Equal(core.NewMoney(619)) || !day.Deduction.Equal(core.NewMoney(206)) {
		t.Fatalf("unexpected day summary %+v", day)
	}
	other, _ := s.SummarizeDay(ctx, start.AddDate(0, 0, 1))
	if other.WorkTimeMinutes != 0 {
		t.Fatalf("expected empty next day, got %+v", other)
	}
}

func TestStore_DebtPaymentKeepsBalance(t *testing.T) {
	ctx := context.Background()
	s := New()
	d, err := s.CreateDebt(ctx, core.NewDebt{Name: "Půjčka na auto", TotalAmount: core.NewMoney(78500), PaidAmount: core.NewMoney(42300)})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	for _, amt := range []int64{5000, 5000, 26200, 100} {
		if _, err := s.CreateDebtPayment(ctx, core.NewDebtPayment{DebtID: d.ID, Amount: core.NewMoney(amt), Date: time.Now()}); err != nil {
			t.Fatalf("payment: %v", err)
		}
		got, _ := s.GetDebt(ctx, d.ID)
		if !got.RemainingAmount.Equal(got.TotalAmount.Sub(got.PaidAmount)) {
			t.Fatalf("remaining != total - paid: %+v", got)
		}
		if got.Active != got.RemainingAmount.IsPositive() {
			t.Fatalf("active flag out of sync: %+v", got)
		}
	}
	final, _ := s.GetDebt(ctx, d.ID)
	if final.Active {
		t.Fatalf("expected settled debt to be inactive: %+v", final)
	}

	payments, _ := s.DebtPaymentsByDebt(ctx, d.ID)
	if len(payments) != 4 {
		t.Fatalf("expected 4 payments, got %d", len(payments))
	}
}

func TestStore_PaymentForUnknownDebt(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateDebtPayment(ctx, core.NewDebtPayment{DebtID: 99, Amount: core.NewMoney(10), Date: time.Now()})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if all, _ := s.ListDebtPayments(ctx); len(all) != 0 {
		t.Fatalf("payment must not be recorded, got %d", len(all))
	}
}

func TestStore_UpdateDebtShallowMerge(t *testing.T) {
	ctx := context.Background()
	s := New()
	d, _ := s.CreateDebt(ctx, core.NewDebt{Name: "Kreditní karta", TotalAmount: core.NewMoney(22400), PaidAmount: core.NewMoney(14560)})
	name := "Karta"
	got, err := s.UpdateDebt(ctx, d.ID, core.DebtPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Karta" || !got.TotalAmount.Equal(core.NewMoney(22400)) {
		t.Fatalf("unexpected merge result %+v", got)
	}
	if _, err := s.UpdateDebt(ctx, 42, core.DebtPatch{Name: &name}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_TimerSessions(t *testing.T) {
	ctx := context.Background()
	s := New()
	if cur, err := s.CurrentTimerSession(ctx); err != nil || cur != nil {
		t.Fatalf("expected no current session, got %+v (err=%v)", cur, err)
	}

	first, _ := s.CreateTimerSession(ctx, core.NewTimerSession{PersonID: 1, ActivityID: 1, StartTime: time.Now(), Status: core.TimerRunning})
	second, _ := s.CreateTimerSession(ctx, core.NewTimerSession{
		PersonID: 1, ActivityID: 2, StartTime: time.Now(), Status: core.TimerPaused,
		SerializedState: json.RawMessage(`{"laps":[1,2]}`),
	})

	cur, _ := s.CurrentTimerSession(ctx)
	if cur == nil || cur.ID != first.ID {
		t.Fatalf("expected first session current, got %+v", cur)
	}

	stopped := core.TimerStopped
	if _, err := s.UpdateTimerSession(ctx, first.ID, core.TimerSessionPatch{Status: &stopped}); err != nil {
		t.Fatalf("update: %v", err)
	}
	cur, _ = s.CurrentTimerSession(ctx)
	if cur == nil || cur.ID != second.ID || string(cur.SerializedState) != `{"laps":[1,2]}` {
		t.Fatalf("expected second session current, got %+v", cur)
	}

	if _, err := s.UpdateTimerSession(ctx, 77, core.TimerSessionPatch{Status: &stopped}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := New()
	in := core.NewUser{Username: "demo@example.com", Password: "x", DisplayName: "Demo"}
	if _, err := s.CreateUser(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser(ctx, in); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	u, err := s.GetUserByUsername(ctx, "demo@example.com")
	if err != nil || u.ID != 1 {
		t.Fatalf("lookup failed: %+v (err=%v)", u, err)
	}

	if _, err := s.GetUserByUsername(ctx, "Demo@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("lookup must match exactly, got %v", err)
	}
	other, err := s.CreateUser(ctx, core.NewUser{Username: "Demo@example.com", Password: "x", DisplayName: "Demo"})
	if err != nil || other.ID == u.ID {
		t.Fatalf("differently cased username must be a new user: %+v (err=%v)", other, err)
	}
}

func TestStore_ConcurrentCreatesIssueUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateFinance(ctx, core.NewFinance{
				Amount: core.NewMoney(1), Currency: "CZK", Description: "x",
				Type: core.FinanceIncome, Date: time.Now(),
			})
		}()
	}
	wg.Wait()
	all, _ := s.ListFinances(ctx)
	seen := map[int64]bool{}
	for _, f := range all {
		if seen[f.ID] {
			t.Fatalf("duplicate id %d", f.ID)
		}
		seen[f.ID] = true
	}
	if len(seen) != 50 {
		t.Fatalf("expected 50 finances, got %d", len(seen))
	}
}
