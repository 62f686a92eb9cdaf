package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pichacka/internal/amqp"
	"pichacka/internal/core"
	"pichacka/internal/ledger"
	applog "pichacka/internal/log"
)

// Publisher announces created ledger records.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, kind amqp.EventKind, id int64) error
	Close() error
}

// LedgerService stores records and publishes an event for every create.
// Reads pass straight through to the embedded store.
type LedgerService struct {
	ledger.Store
	publisher Publisher
	logger    *applog.Logger
	records   *applog.StructuredLogger
}

// NewLedgerService wraps store. publisher may be nil, which disables events.
func NewLedgerService(store ledger.Store, publisher Publisher) *LedgerService {
	logger := applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentLedger})
	return &LedgerService{
		Store:     store,
		publisher: publisher,
		logger:    logger,
		records:   applog.NewStructuredLogger(logger),
	}
}

func (s *LedgerService) CreateWorkLog(ctx context.Context, in core.NewWorkLog) (core.WorkLog, error) {
	l, err := s.Store.CreateWorkLog(ctx, in)
	if err != nil {
		return core.WorkLog{}, fmt.Errorf("save work log: %w", err)
	}
	s.publish(ctx, amqp.KindWorkLog, l.ID)
	return l, nil
}

func (s *LedgerService) CreateFinance(ctx context.Context, in core.NewFinance) (core.Finance, error) {
	f, err := s.Store.CreateFinance(ctx, in)
	if err != nil {
		return core.Finance{}, fmt.Errorf("save finance: %w", err)
	}
	s.publish(ctx, amqp.KindFinance, f.ID)
	return f, nil
}

func (s *LedgerService) CreateDebt(ctx context.Context, in core.NewDebt) (core.Debt, error) {
	d, err := s.Store.CreateDebt(ctx, in)
	if err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}
	s.publish(ctx, amqp.KindDebt, d.ID)
	return d, nil
}

func (s *LedgerService) CreateDebtPayment(ctx context.Context, in core.NewDebtPayment) (core.DebtPayment, error) {
	p, err := s.Store.CreateDebtPayment(ctx, in)
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("save debt payment: %w", err)
	}
	s.publish(ctx, amqp.KindDebtPayment, p.ID)
	return p, nil
}

func (s *LedgerService) CreateTimerSession(ctx context.Context, in core.NewTimerSession) (core.TimerSession, error) {
	ts, err := s.Store.CreateTimerSession(ctx, in)
	if err != nil {
		return core.TimerSession{}, fmt.Errorf("save timer session: %w", err)
	}
	s.publish(ctx, amqp.KindTimerSession, ts.ID)
	return ts, nil
}

// RegisterUser creates a user with a bcrypt-hashed password.
func (s *LedgerService) RegisterUser(ctx context.Context, username, password, displayName string) (core.User, error) {
	return ledger.RegisterUser(ctx, s.Store, username, password, displayName)
}

func (s *LedgerService) publish(ctx context.Context, kind amqp.EventKind, id int64) {
	s.records.LogRecordCreated(ctx, string(kind), id)
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP publisher not available, skipping ledger event",
			applog.FieldKind, kind,
			applog.FieldRecordID, id)
		return
	}
	// The record is already stored; a lost event only delays the mirror.
	if err := s.publisher.PublishLedgerEvent(ctx, kind, id); err != nil {
		s.records.LogError(ctx, "Failed to publish ledger event", err, applog.OpCreate,
			applog.NewFields().WithRecord(string(kind), id).WithErrorType(applog.ErrorTypeNetwork))
	}
}

// Close closes both the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}
