package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
	"pichacka/internal/ledger/memory"
)

type publishedEvent struct {
	kind amqp.EventKind
	id   int64
}

type fakePublisher struct {
	events []publishedEvent
	err    error
	closed bool
}

func (f *fakePublisher) PublishLedgerEvent(_ context.Context, kind amqp.EventKind, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{kind, id})
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestLedgerService_PublishesAfterCreate(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	d, err := svc.CreateDebt(ctx, core.NewDebt{Name: "Kreditní karta", TotalAmount: core.NewMoney(22400), PaidAmount: core.NewMoney(14560)})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	if _, err := svc.CreateDebtPayment(ctx, core.NewDebtPayment{DebtID: d.ID, Amount: core.NewMoney(2000), Date: time.Now()}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	start := time.Now()
	if _, err := svc.CreateWorkLog(ctx, core.NewWorkLog{PersonID: 1, ActivityID: 1, StartTime: start, EndTime: start, Earnings: core.NewMoney(1)}); err != nil {
		t.Fatalf("create work log: %v", err)
	}

	want := []publishedEvent{{amqp.KindDebt, 1}, {amqp.KindDebtPayment, 1}, {amqp.KindWorkLog, 1}}
	if len(pub.events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), pub.events)
	}
	for i := range want {
		if pub.events[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, pub.events[i], want[i])
		}
	}

	// failed stores publish nothing
	if _, err := svc.CreateDebtPayment(ctx, core.NewDebtPayment{DebtID: 99, Amount: core.NewMoney(1), Date: time.Now()}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 3 {
		t.Fatalf("unexpected event after failed create: %+v", pub.events)
	}
}

func TestLedgerService_PublishFailureIsNotReturned(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), &fakePublisher{err: errors.New("broker down")})
	f, err := svc.CreateFinance(ctx, core.NewFinance{Amount: core.NewMoney(200), Currency: "EUR", Description: "Platba za služby", Type: core.FinanceIncome, Date: time.Now()})
	if err != nil || f.ID != 1 {
		t.Fatalf("expected stored finance despite publish failure, got %+v (err=%v)", f, err)
	}

	nilPub := NewLedgerService(memory.New(), nil)
	if _, err := nilPub.CreateTimerSession(ctx, core.NewTimerSession{PersonID: 1, ActivityID: 1, StartTime: time.Now(), Status: core.TimerRunning}); err != nil {
		t.Fatalf("nil publisher must not fail creates: %v", err)
	}
}

func TestLedgerService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), nil)

	u, err := svc.RegisterUser(ctx, "marie@example.com", "tajne-heslo", "Marie Nováková")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("tajne-heslo")) != nil {
		t.Fatalf("password must be stored as bcrypt hash")
	}
	stored, err := svc.GetUserByUsername(ctx, "marie@example.com")
	if err != nil || stored.ID != u.ID || stored.AvatarInitials != "MN" {
		t.Fatalf("stored user %+v (err=%v)", stored, err)
	}
	if _, err := svc.RegisterUser(ctx, "marie@example.com", "x", "Marie"); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLedgerService_Close(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatal("publisher was not closed")
	}
}
