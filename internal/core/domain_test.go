package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewFinanceValidate(t *testing.T) {
	base := NewFinance{
		Amount:      NewMoney(1500),
		Currency:    "CZK",
		Description: "Nákup potravin",
		Type:        FinanceExpense,
		Date:        time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid finance, got %v", err)
	}

	cases := map[string]func(f *NewFinance){
		"amount":      func(f *NewFinance) { f.Amount = NewMoney(0) },
		"currency":    func(f *NewFinance) { f.Currency = "XXXX" },
		"description": func(f *NewFinance) { f.Description = " " },
		"type":        func(f *NewFinance) { f.Type = "transfer" },
		"date":        func(f *NewFinance) { f.Date = time.Time{} },
	}
	for field, mutate := range cases {
		f := base
		mutate(&f)
		err := f.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != field {
			t.Fatalf("%s: expected validation error on field, got %v", field, err)
		}
	}
}

func TestNewDebtFromDerivesBalance(t *testing.T) {
	now := time.Now()
	d := NewDebtFrom(NewDebt{Name: "Kreditní karta", TotalAmount: NewMoney(22400), PaidAmount: NewMoney(14560)}, 2, now)
	if !d.RemainingAmount.Equal(NewMoney(7840)) || !d.Active {
		t.Fatalf("unexpected debt %+v", d)
	}

	paidOff := NewDebtFrom(NewDebt{Name: "x", TotalAmount: NewMoney(100), PaidAmount: NewMoney(100)}, 3, now)
	if paidOff.Active || !paidOff.RemainingAmount.IsZero() {
		t.Fatalf("fully paid debt must be inactive: %+v", paidOff)
	}
}

func TestDebtPaymentPatch(t *testing.T) {
	d := NewDebtFrom(NewDebt{Name: "Půjčka", TotalAmount: NewMoney(1000), PaidAmount: NewMoney(400)}, 1, time.Now())

	d = d.Apply(d.PaymentPatch(NewMoney(250)))
	if !d.PaidAmount.Equal(NewMoney(650)) || !d.RemainingAmount.Equal(NewMoney(350)) || !d.Active {
		t.Fatalf("unexpected debt after partial payment %+v", d)
	}

	d = d.Apply(d.PaymentPatch(NewMoney(400)))
	if !d.RemainingAmount.Equal(d.TotalAmount.Sub(d.PaidAmount)) {
		t.Fatalf("remaining must equal total - paid: %+v", d)
	}
	if d.Active {
		t.Fatalf("overpaid debt must be inactive: %+v", d)
	}
}

func TestDebtApplyRebalance(t *testing.T) {
	d := NewDebtFrom(NewDebt{Name: "Půjčka", TotalAmount: NewMoney(1000)}, 1, time.Now())
	paid := NewMoney(1000)
	stale := NewMoney(1000)
	active := true

	shallow := d.Apply(DebtPatch{PaidAmount: &paid})
	if !shallow.RemainingAmount.Equal(NewMoney(1000)) || !shallow.Active {
		t.Fatalf("plain merge must leave other fields alone: %+v", shallow)
	}

	got := d.Apply(DebtPatch{PaidAmount: &paid, RemainingAmount: &stale, Active: &active, Rebalance: true})
	if !got.RemainingAmount.IsZero() || got.Active {
		t.Fatalf("rebalanced debt %+v", got)
	}

	total := NewMoney(1500)
	got = got.Apply(DebtPatch{TotalAmount: &total, Rebalance: true})
	if !got.RemainingAmount.Equal(NewMoney(500)) || !got.Active {
		t.Fatalf("raised total must reopen the debt: %+v", got)
	}
}

func TestTimerSessionApply(t *testing.T) {
	s := TimerSession{ID: 1, PersonID: 1, ActivityID: 2, Status: TimerRunning}
	paused := TimerPaused
	secs := int64(90)
	state := json.RawMessage(`{"elapsed":90}`)

	got := s.Apply(TimerSessionPatch{Status: &paused, PausedDurationSeconds: &secs, SerializedState: &state})
	if got.Status != TimerPaused || got.PausedDurationSeconds != 90 || got.ActivityID != 2 {
		t.Fatalf("unexpected session %+v", got)
	}
	state[0] = 'x'
	if string(got.SerializedState) != `{"elapsed":90}` {
		t.Fatalf("serialized state aliases caller buffer: %s", got.SerializedState)
	}

	bad := TimerStatus("done")
	if err := (TimerSessionPatch{Status: &bad}).Validate(); err == nil {
		t.Fatalf("expected invalid status error")
	}
}
