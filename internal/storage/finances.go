package storage

import (
	"context"
	"database/sql"
	"fmt"

	"pichacka/internal/core"
)

const financeColumns = "id, amount, currency, description, type, category, date, offset_by_earnings"

func scanFinance(s rowScanner) (core.Finance, error) {
	var (
		f        core.Finance
		typ      string
		category sql.NullString
		date     string
	)
	if err := s.Scan(&f.ID, &f.Amount, &f.Currency, &f.Description, &typ, &category, &date, &f.OffsetByEarnings); err != nil {
		return core.Finance{}, err
	}
	f.Type = core.FinanceType(typ)
	if category.Valid {
		c := category.String
		f.Category = &c
	}
	t, err := decodeTime(date)
	if err != nil {
		return core.Finance{}, err
	}
	f.Date = t
	return f, nil
}

func (r *SQLRepository) finances(ctx context.Context, where string, args ...any) ([]core.Finance, error) {
	out, err := list(ctx, r, "SELECT "+financeColumns+" FROM finances"+where+" ORDER BY date DESC, id ASC", scanFinance, args...)
	if err != nil {
		return nil, fmt.Errorf("list finances: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListFinances(ctx context.Context) ([]core.Finance, error) {
	return r.finances(ctx, "")
}

func (r *SQLRepository) FinancesByType(ctx context.Context, t core.FinanceType) ([]core.Finance, error) {
	return r.finances(ctx, " WHERE type = ?", string(t))
}

func (r *SQLRepository) FinancesByCurrency(ctx context.Context, currency string) ([]core.Finance, error) {
	return r.finances(ctx, " WHERE currency = ?", currency)
}

func (r *SQLRepository) GetFinance(ctx context.Context, id int64) (core.Finance, error) {
	f, err := scanFinance(r.db.QueryRowContext(ctx, r.rebind("SELECT "+financeColumns+" FROM finances WHERE id = ?"), id))
	if err != nil {
		return core.Finance{}, fmt.Errorf("get finance %d: %w", id, notFound(err))
	}
	return f, nil
}

func (r *SQLRepository) CreateFinance(ctx context.Context, in core.NewFinance) (core.Finance, error) {
	if err := in.Validate(); err != nil {
		return core.Finance{}, err
	}
	var category sql.NullString
	if in.Category != nil {
		category = sql.NullString{String: *in.Category, Valid: true}
	}
	id, err := r.insert(ctx, r.db,
		`INSERT INTO finances (amount, currency, description, type, category, date, offset_by_earnings)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Amount, in.Currency, in.Description, string(in.Type), category, encodeTime(in.Date), in.OffsetByEarnings)
	if err != nil {
		return core.Finance{}, fmt.Errorf("create finance: %w", err)
	}
	return core.Finance{
		ID:               id,
		Amount:           in.Amount,
		Currency:         in.Currency,
		Description:      in.Description,
		Type:             in.Type,
		Category:         in.Category,
		Date:             in.Date,
		OffsetByEarnings: in.OffsetByEarnings,
	}, nil
}
