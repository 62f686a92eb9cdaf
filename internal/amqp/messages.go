package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names the ledger collection a created record belongs to.
type EventKind string

const (
	KindWorkLog      EventKind = "work_log"
	KindFinance      EventKind = "finance"
	KindDebt         EventKind = "debt"
	KindDebtPayment  EventKind = "debt_payment"
	KindTimerSession EventKind = "timer_session"
)

// LedgerEvent announces a newly created record.
// Only the kind and id travel; consumers load the record from the database.
type LedgerEvent struct {
	Kind      EventKind `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind EventKind, id int64) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event and rejects payloads without kind or id.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Kind == "" || ev.ID <= 0 {
		return nil, fmt.Errorf("incomplete ledger event: kind=%q id=%d", ev.Kind, ev.ID)
	}
	return &ev, nil
}
