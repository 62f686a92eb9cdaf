package http

import (
	"encoding/json"
	"strings"
	"time"

	"pichacka/internal/core"
)

// Request bodies. Each converts to the ledger insert type, whose Validate
// holds the rules.

type workLogRequest struct {
	PersonID        int64       `json:"personId"`
	ActivityID      int64       `json:"activityId"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	DurationMinutes *float64    `json:"durationMinutes"`
	Earnings        *core.Money `json:"earnings"`
	Deduction       *core.Money `json:"deduction"`
}

func (r workLogRequest) input() core.NewWorkLog {
	in := core.NewWorkLog{
		PersonID:   r.PersonID,
		ActivityID: r.ActivityID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
	if r.DurationMinutes != nil {
		in.DurationMinutes = *r.DurationMinutes
	}
	if r.Earnings != nil {
		in.Earnings = *r.Earnings
	}
	if r.Deduction != nil {
		in.Deduction = *r.Deduction
	}
	return in
}

func (r workLogRequest) Validate() error {
	if err := r.input().Validate(); err != nil {
		return err
	}
	switch {
	case r.DurationMinutes == nil:
		return required("durationMinutes")
	case r.Earnings == nil:
		return required("earnings")
	case r.Deduction == nil:
		return required("deduction")
	}
	return nil
}

func required(field string) error {
	return &core.ValidationError{Field: field, Reason: "required"}
}

type financeRequest struct {
	Amount           core.Money  `json:"amount"`
	Currency         string      `json:"currency"`
	Description      string      `json:"description"`
	Type             string      `json:"type"`
	Category         *string     `json:"category"`
	Date             time.Time   `json:"date"`
	OffsetByEarnings *core.Money `json:"offsetByEarnings"`
}

func (r financeRequest) input() core.NewFinance {
	in := core.NewFinance{
		Amount:      r.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(r.Currency)),
		Description: strings.TrimSpace(r.Description),
		Type:        core.FinanceType(r.Type),
		Date:        r.Date,
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) != "" {
		c := strings.TrimSpace(*r.Category)
		in.Category = &c
	}
	if r.OffsetByEarnings != nil {
		in.OffsetByEarnings = *r.OffsetByEarnings
	}
	return in
}

func (r financeRequest) Validate() error { return r.input().Validate() }

// debtRequest accepts remainingAmount for compatibility with older clients;
// it is always derived from total and paid.
type debtRequest struct {
	Name            string      `json:"name"`
	TotalAmount     core.Money  `json:"totalAmount"`
	PaidAmount      *core.Money `json:"paidAmount"`
	RemainingAmount *core.Money `json:"remainingAmount"`
}

func (r debtRequest) input() core.NewDebt {
	in := core.NewDebt{Name: strings.TrimSpace(r.Name), TotalAmount: r.TotalAmount}
	if r.PaidAmount != nil {
		in.PaidAmount = *r.PaidAmount
	}
	return in
}

func (r debtRequest) Validate() error {
	if err := r.input().Validate(); err != nil {
		return err
	}
	if r.PaidAmount == nil {
		return required("paidAmount")
	}
	return nil
}

// debtPatchRequest edits name, total or paid. Remaining and active always
// follow from total and paid, so those fields are not accepted here.
type debtPatchRequest struct {
	Name        *string     `json:"name"`
	TotalAmount *core.Money `json:"totalAmount"`
	PaidAmount  *core.Money `json:"paidAmount"`
}

func (r debtPatchRequest) patch() core.DebtPatch {
	return core.DebtPatch{
		Name:        r.Name,
		TotalAmount: r.TotalAmount,
		PaidAmount:  r.PaidAmount,
		Rebalance:   true,
	}
}

func (r debtPatchRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return &core.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if r.TotalAmount != nil && !r.TotalAmount.IsPositive() {
		return &core.ValidationError{Field: "totalAmount", Reason: core.ErrInvalidAmount.Error()}
	}
	if r.PaidAmount != nil && r.PaidAmount.IsNegative() {
		return &core.ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	return nil
}

// debtPaymentRequest defaults date to the time the request arrives.
type debtPaymentRequest struct {
	DebtID int64      `json:"debtId"`
	Amount core.Money `json:"amount"`
	Date   *time.Time `json:"date"`
}

func (r debtPaymentRequest) input(now time.Time) core.NewDebtPayment {
	in := core.NewDebtPayment{DebtID: r.DebtID, Amount: r.Amount, Date: now}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

type timerSessionRequest struct {
	PersonID              int64           `json:"personId"`
	ActivityID            int64           `json:"activityId"`
	StartTime             time.Time       `json:"startTime"`
	Status                string          `json:"status"`
	PausedDurationSeconds int64           `json:"pausedDurationSeconds"`
	SerializedState       json.RawMessage `json:"serializedState"`
}

func (r timerSessionRequest) input() core.NewTimerSession {
	return core.NewTimerSession{
		PersonID:              r.PersonID,
		ActivityID:            r.ActivityID,
		StartTime:             r.StartTime,
		Status:                core.TimerStatus(r.Status),
		PausedDurationSeconds: r.PausedDurationSeconds,
		SerializedState:       r.SerializedState,
	}
}

func (r timerSessionRequest) Validate() error { return r.input().Validate() }

// timerSessionPatchRequest keeps serializedState raw so an explicit null
// (clear the state) is told apart from an absent field.
type timerSessionPatchRequest struct {
	PersonID              *int64            `json:"personId"`
	ActivityID            *int64            `json:"activityId"`
	StartTime             *time.Time        `json:"startTime"`
	Status                *core.TimerStatus `json:"status"`
	PausedDurationSeconds *int64            `json:"pausedDurationSeconds"`
	SerializedState       json.RawMessage   `json:"serializedState"`
}

func (r timerSessionPatchRequest) patch() core.TimerSessionPatch {
	p := core.TimerSessionPatch{
		PersonID:              r.PersonID,
		ActivityID:            r.ActivityID,
		StartTime:             r.StartTime,
		Status:                r.Status,
		PausedDurationSeconds: r.PausedDurationSeconds,
	}
	if r.SerializedState != nil {
		state := r.SerializedState
		p.SerializedState = &state
	}
	return p
}

type personRequest struct {
	Name          string  `json:"name"`
	HourlyRate    float64 `json:"hourlyRate"`
	DeductionRate float64 `json:"deductionRate"`
}

type activityRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
