package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pichacka/internal/core"
)

const debtColumns = "id, name, total_amount, remaining_amount, paid_amount, active, created_at"

func scanDebt(s rowScanner) (core.Debt, error) {
	var (
		d         core.Debt
		createdAt string
	)
	if err := s.Scan(&d.ID, &d.Name, &d.TotalAmount, &d.RemainingAmount, &d.PaidAmount, &d.Active, &createdAt); err != nil {
		return core.Debt{}, err
	}
	t, err := decodeTime(createdAt)
	if err != nil {
		return core.Debt{}, err
	}
	d.CreatedAt = t
	return d, nil
}

func (r *SQLRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	out, err := list(ctx, r, "SELECT "+debtColumns+" FROM debts ORDER BY id", scanDebt)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return out, nil
}

const selectDebt = "SELECT " + debtColumns + " FROM debts WHERE id = ?"

func (r *SQLRepository) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	return r.getDebt(ctx, r.db, selectDebt, id)
}

// lockDebt reads a debt inside tx and holds it until commit, so concurrent
// payments apply one after the other.
func (r *SQLRepository) lockDebt(ctx context.Context, tx *sql.Tx, id int64) (core.Debt, error) {
	return r.getDebt(ctx, tx, r.lockRow(selectDebt), id)
}

func (r *SQLRepository) getDebt(ctx context.Context, q queryer, query string, id int64) (core.Debt, error) {
	d, err := scanDebt(q.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt %d: %w", id, notFound(err))
	}
	return d, nil
}

func (r *SQLRepository) CreateDebt(ctx context.Context, in core.NewDebt) (core.Debt, error) {
	if err := in.Validate(); err != nil {
		return core.Debt{}, err
	}
	d := core.NewDebtFrom(in, 0, r.now().UTC())
	id, err := r.insert(ctx, r.db,
		`INSERT INTO debts (name, total_amount, remaining_amount, paid_amount, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, d.TotalAmount, d.RemainingAmount, d.PaidAmount, d.Active, encodeTime(d.CreatedAt))
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	d.ID = id
	return d, nil
}

func (r *SQLRepository) UpdateDebt(ctx context.Context, id int64, p core.DebtPatch) (core.Debt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Debt{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	d, err := r.lockDebt(ctx, tx, id)
	if err != nil {
		return core.Debt{}, err
	}
	d = d.Apply(p)
	if err := r.saveDebt(ctx, tx, d); err != nil {
		return core.Debt{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.Debt{}, fmt.Errorf("commit debt update: %w", err)
	}
	return d, nil
}

func (r *SQLRepository) saveDebt(ctx context.Context, q queryer, d core.Debt) error {
	_, err := q.ExecContext(ctx, r.rebind(
		`UPDATE debts SET name = ?, total_amount = ?, remaining_amount = ?, paid_amount = ?, active = ? WHERE id = ?`),
		d.Name, d.TotalAmount, d.RemainingAmount, d.PaidAmount, d.Active, d.ID)
	if err != nil {
		return fmt.Errorf("update debt %d: %w", d.ID, err)
	}
	return nil
}

// Debt payments

const paymentColumns = "id, debt_id, amount, date"

func scanPayment(s rowScanner) (core.DebtPayment, error) {
	var (
		p    core.DebtPayment
		date string
	)
	if err := s.Scan(&p.ID, &p.DebtID, &p.Amount, &date); err != nil {
		return core.DebtPayment{}, err
	}
	t, err := decodeTime(date)
	if err != nil {
		return core.DebtPayment{}, err
	}
	p.Date = t
	return p, nil
}

func (r *SQLRepository) ListDebtPayments(ctx context.Context) ([]core.DebtPayment, error) {
	out, err := list(ctx, r, "SELECT "+paymentColumns+" FROM debt_payments ORDER BY date DESC, id ASC", scanPayment)
	if err != nil {
		return nil, fmt.Errorf("list debt payments: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) DebtPaymentsByDebt(ctx context.Context, debtID int64) ([]core.DebtPayment, error) {
	out, err := list(ctx, r, "SELECT "+paymentColumns+" FROM debt_payments WHERE debt_id = ? ORDER BY date DESC, id ASC", scanPayment, debtID)
	if err != nil {
		return nil, fmt.Errorf("list payments for debt %d: %w", debtID, err)
	}
	return out, nil
}

func (r *SQLRepository) GetDebtPayment(ctx context.Context, id int64) (core.DebtPayment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, r.rebind("SELECT "+paymentColumns+" FROM debt_payments WHERE id = ?"), id))
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("get debt payment %d: %w", id, notFound(err))
	}
	return p, nil
}

// CreateDebtPayment inserts the payment and settles the debt in one transaction.
func (r *SQLRepository) CreateDebtPayment(ctx context.Context, in core.NewDebtPayment) (core.DebtPayment, error) {
	if err := in.Validate(); err != nil {
		return core.DebtPayment{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	d, err := r.lockDebt(ctx, tx, in.DebtID)
	if err != nil {
		return core.DebtPayment{}, err
	}

	id, err := r.insert(ctx, tx, "INSERT INTO debt_payments (debt_id, amount, date) VALUES (?, ?, ?)",
		in.DebtID, in.Amount, encodeTime(in.Date))
	if err != nil {
		return core.DebtPayment{}, fmt.Errorf("create debt payment: %w", err)
	}

	d = d.Apply(d.PaymentPatch(in.Amount))
	if err := r.saveDebt(ctx, tx, d); err != nil {
		return core.DebtPayment{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.DebtPayment{}, fmt.Errorf("commit debt payment: %w", err)
	}

	slog.InfoContext(ctx, "Debt payment recorded",
		"id", id,
		"debt_id", d.ID,
		"amount", in.Amount.String(),
		"remaining", d.RemainingAmount.String(),
		"active", d.Active)

	return core.DebtPayment{ID: id, DebtID: in.DebtID, Amount: in.Amount, Date: in.Date}, nil
}
