package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

const (
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
	TimerStopped TimerStatus = "stopped"
)

type (
	FinanceType string
	TimerStatus string

	User struct {
		ID             int64  `json:"id"`
		Username       string `json:"username"`
		Password       string `json:"-"` // bcrypt hash
		DisplayName    string `json:"displayName"`
		AvatarInitials string `json:"avatarInitials"`
	}

	Person struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		HourlyRate    float64 `json:"hourlyRate"`
		DeductionRate float64 `json:"deductionRate"`
	}

	Activity struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	WorkLog struct {
		ID              int64     `json:"id"`
		PersonID        int64     `json:"personId"`
		ActivityID      int64     `json:"activityId"`
		StartTime       time.Time `json:"startTime"`
		EndTime         time.Time `json:"endTime"`
		DurationMinutes float64   `json:"durationMinutes"`
		Earnings        Money     `json:"earnings"`
		Deduction       Money     `json:"deduction"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	Finance struct {
		ID               int64       `json:"id"`
		Amount           Money       `json:"amount"`
		Currency         string      `json:"currency"`
		Description      string      `json:"description"`
		Type             FinanceType `json:"type"`
		Category         *string     `json:"category"`
		Date             time.Time   `json:"date"`
		OffsetByEarnings Money       `json:"offsetByEarnings"`
	}

	Debt struct {
		ID              int64     `json:"id"`
		Name            string    `json:"name"`
		TotalAmount     Money     `json:"totalAmount"`
		RemainingAmount Money     `json:"remainingAmount"`
		PaidAmount      Money     `json:"paidAmount"`
		Active          bool      `json:"active"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	DebtPayment struct {
		ID     int64     `json:"id"`
		DebtID int64     `json:"debtId"`
		Amount Money     `json:"amount"`
		Date   time.Time `json:"date"`
	}

	TimerSession struct {
		ID                    int64           `json:"id"`
		PersonID              int64           `json:"personId"`
		ActivityID            int64           `json:"activityId"`
		StartTime             time.Time       `json:"startTime"`
		Status                TimerStatus     `json:"status"`
		PausedDurationSeconds int64           `json:"pausedDurationSeconds"`
		SerializedState       json.RawMessage `json:"serializedState"`
	}
)

// Insert inputs. The owning store assigns ids and timestamps.
type (
	NewUser struct {
		Username       string
		Password       string
		DisplayName    string
		AvatarInitials string
	}

	NewPerson struct {
		Name          string
		HourlyRate    float64
		DeductionRate float64
	}

	NewActivity struct {
		Name  string
		Color string
	}

	NewWorkLog struct {
		PersonID        int64
		ActivityID      int64
		StartTime       time.Time
		EndTime         time.Time
		DurationMinutes float64
		Earnings        Money
		Deduction       Money
	}

	NewFinance struct {
		Amount           Money
		Currency         string
		Description      string
		Type             FinanceType
		Category         *string
		Date             time.Time
		OffsetByEarnings Money
	}

	// NewDebt carries total and paid amounts; remaining and active are derived.
	NewDebt struct {
		Name        string
		TotalAmount Money
		PaidAmount  Money
	}

	NewDebtPayment struct {
		DebtID int64
		Amount Money
		Date   time.Time
	}

	NewTimerSession struct {
		PersonID              int64
		ActivityID            int64
		StartTime             time.Time
		Status                TimerStatus
		PausedDurationSeconds int64
		SerializedState       json.RawMessage
	}
)

// Partial updates: nil fields are left untouched.
type (
	DebtPatch struct {
		Name            *string
		TotalAmount     *Money
		RemainingAmount *Money
		PaidAmount      *Money
		Active          *bool

		// Rebalance derives remaining and active from total and paid
		// after the other fields are merged.
		Rebalance bool
	}

	TimerSessionPatch struct {
		PersonID              *int64
		ActivityID            *int64
		StartTime             *time.Time
		Status                *TimerStatus
		PausedDurationSeconds *int64
		SerializedState       *json.RawMessage
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

const maxDescriptionLen = 200

func (t FinanceType) Valid() bool {
	return t == FinanceIncome || t == FinanceExpense
}

func (s TimerStatus) Valid() bool {
	switch s {
	case TimerRunning, TimerPaused, TimerStopped:
		return true
	}
	return false
}

func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return invalid("username", "required")
	}
	if u.Password == "" {
		return invalid("password", "required")
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		return invalid("displayName", "required")
	}
	return nil
}

func (p NewPerson) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "required")
	}
	if p.HourlyRate < 0 {
		return invalid("hourlyRate", "must not be negative")
	}
	if p.DeductionRate < 0 || p.DeductionRate > 1 {
		return invalid("deductionRate", "must be between 0 and 1")
	}
	return nil
}

func (a NewActivity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("name", "required")
	}
	if strings.TrimSpace(a.Color) == "" {
		return invalid("color", "required")
	}
	return nil
}

func (w NewWorkLog) Validate() error {
	if w.PersonID <= 0 {
		return invalid("personId", "must be positive")
	}
	if w.ActivityID <= 0 {
		return invalid("activityId", "must be positive")
	}
	if w.StartTime.IsZero() {
		return invalid("startTime", "required")
	}
	if w.EndTime.IsZero() {
		return invalid("endTime", "required")
	}
	if w.EndTime.Before(w.StartTime) {
		return invalid("endTime", "must not be before startTime")
	}
	if w.DurationMinutes < 0 {
		return invalid("durationMinutes", "must not be negative")
	}
	if w.Earnings.IsNegative() {
		return invalid("earnings", "must not be negative")
	}
	if w.Deduction.IsNegative() {
		return invalid("deduction", "must not be negative")
	}
	return nil
}

func (f NewFinance) Validate() error {
	if !f.Amount.IsPositive() {
		return invalid("amount", ErrInvalidAmount.Error())
	}
	if _, err := currency.ParseISO(f.Currency); err != nil {
		return invalid("currency", "not an ISO 4217 code")
	}
	if strings.TrimSpace(f.Description) == "" {
		return invalid("description", "required")
	}
	if len(f.Description) > maxDescriptionLen {
		return invalid("description", "too long (max 200 characters)")
	}
	if !f.Type.Valid() {
		return invalid("type", "must be income or expense")
	}
	if f.Date.IsZero() {
		return invalid("date", "required")
	}
	if f.OffsetByEarnings.IsNegative() {
		return invalid("offsetByEarnings", "must not be negative")
	}
	return nil
}

func (d NewDebt) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "required")
	}
	if !d.TotalAmount.IsPositive() {
		return invalid("totalAmount", ErrInvalidAmount.Error())
	}
	if d.PaidAmount.IsNegative() {
		return invalid("paidAmount", "must not be negative")
	}
	if d.PaidAmount.Cmp(d.TotalAmount) > 0 {
		return invalid("paidAmount", "exceeds totalAmount")
	}
	return nil
}

func (p NewDebtPayment) Validate() error {
	if p.DebtID <= 0 {
		return invalid("debtId", "must be positive")
	}
	if !p.Amount.IsPositive() {
		return invalid("amount", ErrInvalidAmount.Error())
	}
	if p.Date.IsZero() {
		return invalid("date", "required")
	}
	return nil
}

func (s NewTimerSession) Validate() error {
	if s.PersonID <= 0 {
		return invalid("personId", "must be positive")
	}
	if s.ActivityID <= 0 {
		return invalid("activityId", "must be positive")
	}
	if s.StartTime.IsZero() {
		return invalid("startTime", "required")
	}
	if !s.Status.Valid() {
		return invalid("status", "must be running, paused or stopped")
	}
	if s.PausedDurationSeconds < 0 {
		return invalid("pausedDurationSeconds", "must not be negative")
	}
	return nil
}

func (p TimerSessionPatch) Validate() error {
	if p.PersonID != nil && *p.PersonID <= 0 {
		return invalid("personId", "must be positive")
	}
	if p.ActivityID != nil && *p.ActivityID <= 0 {
		return invalid("activityId", "must be positive")
	}
	if p.StartTime != nil && p.StartTime.IsZero() {
		return invalid("startTime", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "must be running, paused or stopped")
	}
	if p.PausedDurationSeconds != nil && *p.PausedDurationSeconds < 0 {
		return invalid("pausedDurationSeconds", "must not be negative")
	}
	return nil
}

// NewDebtFrom builds the stored debt for an insert, deriving remaining and active.
func NewDebtFrom(in NewDebt, id int64, createdAt time.Time) Debt {
	remaining := in.TotalAmount.Sub(in.PaidAmount)
	return Debt{
		ID:              id,
		Name:            in.Name,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: remaining,
		PaidAmount:      in.PaidAmount,
		Active:          remaining.IsPositive(),
		CreatedAt:       createdAt,
	}
}

// Apply returns d with the non-nil patch fields merged in.
func (d Debt) Apply(p DebtPatch) Debt {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.TotalAmount != nil {
		d.TotalAmount = *p.TotalAmount
	}
	if p.RemainingAmount != nil {
		d.RemainingAmount = *p.RemainingAmount
	}
	if p.PaidAmount != nil {
		d.PaidAmount = *p.PaidAmount
	}
	if p.Active != nil {
		d.Active = *p.Active
	}
	if p.Rebalance {
		d.RemainingAmount = d.TotalAmount.Sub(d.PaidAmount)
		d.Active = d.RemainingAmount.IsPositive()
	}
	return d
}

// PaymentPatch is the update recorded against a debt when amount is paid.
// Remaining is always recomputed from total and the new paid amount.
func (d Debt) PaymentPatch(amount Money) DebtPatch {
	paid := d.PaidAmount.Add(amount)
	remaining := d.TotalAmount.Sub(paid)
	active := remaining.IsPositive()
	return DebtPatch{
		PaidAmount:      &paid,
		RemainingAmount: &remaining,
		Active:          &active,
	}
}

// Apply returns s with the non-nil patch fields merged in.
func (s TimerSession) Apply(p TimerSessionPatch) TimerSession {
	if p.PersonID != nil {
		s.PersonID = *p.PersonID
	}
	if p.ActivityID != nil {
		s.ActivityID = *p.ActivityID
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.PausedDurationSeconds != nil {
		s.PausedDurationSeconds = *p.PausedDurationSeconds
	}
	if p.SerializedState != nil {
		s.SerializedState = CloneRaw(*p.SerializedState)
	}
	return s
}

// CloneRaw copies opaque JSON so stored sessions never alias caller buffers.
// JSON null collapses to nil.
func CloneRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
