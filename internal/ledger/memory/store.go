// Package memory is an in-process ledger store used for development, tests
// and the default single-user setup.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"pichacka/internal/core"
)

// table keeps one collection: records in insertion order plus an id index.
type table[T any] struct {
	rows   []T
	index  map[int64]int
	nextID int64
}

func newTable[T any]() table[T] {
	return table[T]{index: map[int64]int{}, nextID: 1}
}

func (t *table[T]) issue() int64 {
	id := t.nextID
	t.nextID++
	return id
}

func (t *table[T]) insert(id int64, v T) {
	t.index[id] = len(t.rows)
	t.rows = append(t.rows, v)
}

func (t *table[T]) get(id int64) (T, bool) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[i], true
}

func (t *table[T]) set(id int64, v T) {
	t.rows[t.index[id]] = v
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Store holds every collection behind one RWMutex.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users      table[core.User]
	persons    table[core.Person]
	activities table[core.Activity]
	workLogs   table[core.WorkLog]
	finances   table[core.Finance]
	debts      table[core.Debt]
	payments   table[core.DebtPayment]
	sessions   table[core.TimerSession]
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock uses now for createdAt stamps.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:        now,
		users:      newTable[core.User](),
		persons:    newTable[core.Person](),
		activities: newTable[core.Activity](),
		workLogs:   newTable[core.WorkLog](),
		finances:   newTable[core.Finance](),
		debts:      newTable[core.Debt](),
		payments:   newTable[core.DebtPayment](),
		sessions:   newTable[core.TimerSession](),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// Users

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, in core.NewUser) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users.rows {
		if u.Username == in.Username {
			return core.User{}, core.ErrConflict
		}
	}
	u := core.User{
		ID:             s.users.issue(),
		Username:       in.Username,
		Password:       in.Password,
		DisplayName:    in.DisplayName,
		AvatarInitials: in.AvatarInitials,
	}
	s.users.insert(u.ID, u)
	return u, nil
}

// Directory

func (s *Store) ListPersons(context.Context) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persons.filter(nil), nil
}

func (s *Store) CreatePerson(_ context.Context, in core.NewPerson) (core.Person, error) {
	if err := in.Validate(); err != nil {
		return core.Person{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Person{ID: s.persons.issue(), Name: in.Name, HourlyRate: in.HourlyRate, DeductionRate: in.DeductionRate}
	s.persons.insert(p.ID, p)
	return p, nil
}

func (s *Store) ListActivities(context.Context) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities.filter(nil), nil
}

func (s *Store) CreateActivity(_ context.Context, in core.NewActivity) (core.Activity, error) {
	if err := in.Validate(); err != nil {
		return core.Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := core.Activity{ID: s.activities.issue(), Name: in.Name, Color: in.Color}
	s.activities.insert(a.ID, a)
	return a, nil
}

// Work logs

func byStartDesc(a, b core.WorkLog) int {
	if c := b.StartTime.Compare(a.StartTime); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *Store) workLogsWhere(keep func(core.WorkLog) bool) []core.WorkLog {
	s.mu.RLock()
	out := s.workLogs.filter(keep)
	s.mu.RUnlock()
	slices.SortStableFunc(out, byStartDesc)
	return out
}

func (s *Store) ListWorkLogs(context.Context) ([]core.WorkLog, error) {
	return s.workLogsWhere(nil), nil
}

func (s *Store) RecentWorkLogs(_ context.Context, n int) ([]core.WorkLog, error) {
	logs := s.workLogsWhere(nil)
	if n < 0 {
		n = 0
	}
	if len(logs) > n {
		logs = logs[:n]
	}
	return logs, nil
}

func (s *Store) WorkLogsByPerson(_ context.Context, personID int64) ([]core.WorkLog, error) {
	return s.workLogsWhere(func(l core.WorkLog) bool { return l.PersonID == personID }), nil
}

func (s *Store) WorkLogsByActivity(_ context.Context, activityID int64) ([]core.WorkLog, error) {
	return s.workLogsWhere(func(l core.WorkLog) bool { return l.ActivityID == activityID }), nil
}

func (s *Store) WorkLogsBetween(_ context.Context, from, to time.Time) ([]core.WorkLog, error) {
	return s.workLogsWhere(func(l core.WorkLog) bool { return core.InRange(l.StartTime, from, to) }), nil
}

func (s *Store) GetWorkLog(_ context.Context, id int64) (core.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.workLogs.get(id)
	if !ok {
		return core.WorkLog{}, core.ErrNotFound
	}
	return l, nil
}

func (s *Store) CreateWorkLog(_ context.Context, in core.NewWorkLog) (core.WorkLog, error) {
	if err := in.Validate(); err != nil {
		return core.WorkLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := core.WorkLog{
		ID:              s.workLogs.issue(),
		PersonID:        in.PersonID,
		ActivityID:      in.ActivityID,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: in.DurationMinutes,
		Earnings:        in.Earnings,
		Deduction:       in.Deduction,
		CreatedAt:       s.now(),
	}
	s.workLogs.insert(l.ID, l)
	return l, nil
}

func (s *Store) SummarizeDay(ctx context.Context, day time.Time) (core.DaySummary, error) {
	sum, err := s.SummarizeRange(ctx, core.StartOfDay(day), core.EndOfDay(day))
	if err != nil {
		return core.DaySummary{}, err
	}
	return core.DaySummary{Date: core.StartOfDay(day), WorkSummary: sum}, nil
}

func (s *Store) SummarizeRange(ctx context.Context, from, to time.Time) (core.WorkSummary, error) {
	logs, err := s.WorkLogsBetween(ctx, from, to)
	if err != nil {
		return core.WorkSummary{}, err
	}
	return core.SummarizeWorkLogs(logs), nil
}

// Finances

func (s *Store) financesWhere(keep func(core.Finance) bool) []core.Finance {
	s.mu.RLock()
	out := s.finances.filter(keep)
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b core.Finance) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Store) ListFinances(context.Context) ([]core.Finance, error) {
	return s.financesWhere(nil), nil
}

func (s *Store) FinancesByType(_ context.Context, t core.FinanceType) ([]core.Finance, error) {
	return s.financesWhere(func(f core.Finance) bool { return f.Type == t }), nil
}

func (s *Store) FinancesByCurrency(_ context.Context, currency string) ([]core.Finance, error) {
	return s.financesWhere(func(f core.Finance) bool { return f.Currency == currency }), nil
}

func (s *Store) GetFinance(_ context.Context, id int64) (core.Finance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.finances.get(id)
	if !ok {
		return core.Finance{}, core.ErrNotFound
	}
	return f, nil
}

func (s *Store) CreateFinance(_ context.Context, in core.NewFinance) (core.Finance, error) {
	if err := in.Validate(); err != nil {
		return core.Finance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := core.Finance{
		ID:               s.finances.issue(),
		Amount:           in.Amount,
		Currency:         in.Currency,
		Description:      in.Description,
		Type:             in.Type,
		Category:         in.Category,
		Date:             in.Date,
		OffsetByEarnings: in.OffsetByEarnings,
	}
	s.finances.insert(f.ID, f)
	return f, nil
}

// Debts

func (s *Store) ListDebts(context.Context) ([]core.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debts.filter(nil), nil
}

func (s *Store) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.debts.get(id)
	if !ok {
		return core.Debt{}, core.ErrNotFound
	}
	return d, nil
}

func (s *Store) CreateDebt(_ context.Context, in core.NewDebt) (core.Debt, error) {
	if err := in.Validate(); err != nil {
		return core.Debt{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := core.NewDebtFrom(in, s.debts.issue(), s.now())
	s.debts.insert(d.ID, d)
	return d, nil
}

func (s *Store) UpdateDebt(_ context.Context, id int64, p core.DebtPatch) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts.get(id)
	if !ok {
		return core.Debt{}, core.ErrNotFound
	}
	d = d.Apply(p)
	s.debts.set(id, d)
	return d, nil
}

func (s *Store) paymentsWhere(keep func(core.DebtPayment) bool) []core.DebtPayment {
	s.mu.RLock()
	out := s.payments.filter(keep)
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b core.DebtPayment) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Store) ListDebtPayments(context.Context) ([]core.DebtPayment, error) {
	return s.paymentsWhere(nil), nil
}

func (s *Store) DebtPaymentsByDebt(_ context.Context, debtID int64) ([]core.DebtPayment, error) {
	return s.paymentsWhere(func(p core.DebtPayment) bool { return p.DebtID == debtID }), nil
}

func (s *Store) GetDebtPayment(_ context.Context, id int64) (core.DebtPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments.get(id)
	if !ok {
		return core.DebtPayment{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateDebtPayment(_ context.Context, in core.NewDebtPayment) (core.DebtPayment, error) {
	if err := in.Validate(); err != nil {
		return core.DebtPayment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts.get(in.DebtID)
	if !ok {
		return core.DebtPayment{}, core.ErrNotFound
	}
	p := core.DebtPayment{ID: s.payments.issue(), DebtID: in.DebtID, Amount: in.Amount, Date: in.Date}
	s.payments.insert(p.ID, p)
	s.debts.set(d.ID, d.Apply(d.PaymentPatch(in.Amount)))
	return p, nil
}

// Timer sessions

func (s *Store) CurrentTimerSession(context.Context) (*core.TimerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ts := range s.sessions.rows {
		if ts.Status != core.TimerStopped {
			out := ts
			out.SerializedState = core.CloneRaw(ts.SerializedState)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateTimerSession(_ context.Context, in core.NewTimerSession) (core.TimerSession, error) {
	if err := in.Validate(); err != nil {
		return core.TimerSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := core.TimerSession{
		ID:                    s.sessions.issue(),
		PersonID:              in.PersonID,
		ActivityID:            in.ActivityID,
		StartTime:             in.StartTime,
		Status:                in.Status,
		PausedDurationSeconds: in.PausedDurationSeconds,
		SerializedState:       core.CloneRaw(in.SerializedState),
	}
	s.sessions.insert(ts.ID, ts)
	return ts, nil
}

func (s *Store) UpdateTimerSession(_ context.Context, id int64, p core.TimerSessionPatch) (core.TimerSession, error) {
	if err := p.Validate(); err != nil {
		return core.TimerSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.sessions.get(id)
	if !ok {
		return core.TimerSession{}, core.ErrNotFound
	}
	ts = ts.Apply(p)
	s.sessions.set(id, ts)
	return ts, nil
}
