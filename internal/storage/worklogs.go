package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pichacka/internal/core"
)

const workLogColumns = "id, person_id, activity_id, start_time, end_time, duration_minutes, earnings, deduction, created_at"

const workLogOrder = " ORDER BY start_time DESC, id ASC"

func scanWorkLog(s rowScanner) (core.WorkLog, error) {
	var (
		l                     core.WorkLog
		start, end, createdAt string
	)
	if err := s.Scan(&l.ID, &l.PersonID, &l.ActivityID, &start, &end, &l.DurationMinutes, &l.Earnings, &l.Deduction, &createdAt); err != nil {
		return core.WorkLog{}, err
	}
	var err error
	if l.StartTime, err = decodeTime(start); err != nil {
		return core.WorkLog{}, err
	}
	if l.EndTime, err = decodeTime(end); err != nil {
		return core.WorkLog{}, err
	}
	if l.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.WorkLog{}, err
	}
	return l, nil
}

func (r *SQLRepository) workLogs(ctx context.Context, where string, args ...any) ([]core.WorkLog, error) {
	out, err := list(ctx, r, "SELECT "+workLogColumns+" FROM work_logs"+where+workLogOrder, scanWorkLog, args...)
	if err != nil {
		return nil, fmt.Errorf("list work logs: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ListWorkLogs(ctx context.Context) ([]core.WorkLog, error) {
	return r.workLogs(ctx, "")
}

func (r *SQLRepository) RecentWorkLogs(ctx context.Context, n int) ([]core.WorkLog, error) {
	if n < 0 {
		n = 0
	}
	out, err := list(ctx, r, "SELECT "+workLogColumns+" FROM work_logs"+workLogOrder+" LIMIT ?", scanWorkLog, n)
	if err != nil {
		return nil, fmt.Errorf("recent work logs: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) WorkLogsByPerson(ctx context.Context, personID int64) ([]core.WorkLog, error) {
	return r.workLogs(ctx, " WHERE person_id = ?", personID)
}

func (r *SQLRepository) WorkLogsByActivity(ctx context.Context, activityID int64) ([]core.WorkLog, error) {
	return r.workLogs(ctx, " WHERE activity_id = ?", activityID)
}

func (r *SQLRepository) WorkLogsBetween(ctx context.Context, from, to time.Time) ([]core.WorkLog, error) {
	return r.workLogs(ctx, " WHERE start_time >= ? AND start_time <= ?", encodeTime(from), encodeTime(to))
}

func (r *SQLRepository) GetWorkLog(ctx context.Context, id int64) (core.WorkLog, error) {
	l, err := scanWorkLog(r.db.QueryRowContext(ctx, r.rebind("SELECT "+workLogColumns+" FROM work_logs WHERE id = ?"), id))
	if err != nil {
		return core.WorkLog{}, fmt.Errorf("get work log %d: %w", id, notFound(err))
	}
	return l, nil
}

func (r *SQLRepository) CreateWorkLog(ctx context.Context, in core.NewWorkLog) (core.WorkLog, error) {
	if err := in.Validate(); err != nil {
		return core.WorkLog{}, err
	}
	createdAt := r.now().UTC()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO work_logs (person_id, activity_id, start_time, end_time, duration_minutes, earnings, deduction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.PersonID, in.ActivityID, encodeTime(in.StartTime), encodeTime(in.EndTime),
		in.DurationMinutes, in.Earnings, in.Deduction, encodeTime(createdAt))
	if err != nil {
		return core.WorkLog{}, fmt.Errorf("create work log: %w", err)
	}

	slog.InfoContext(ctx, "Work log saved",
		"id", id,
		"person_id", in.PersonID,
		"activity_id", in.ActivityID,
		"duration_minutes", in.DurationMinutes)

	return core.WorkLog{
		ID:              id,
		PersonID:        in.PersonID,
		ActivityID:      in.ActivityID,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: in.DurationMinutes,
		Earnings:        in.Earnings,
		Deduction:       in.Deduction,
		CreatedAt:       createdAt,
	}, nil
}

func (r *SQLRepository) SummarizeDay(ctx context.Context, day time.Time) (core.DaySummary, error) {
	sum, err := r.SummarizeRange(ctx, core.StartOfDay(day), core.EndOfDay(day))
	if err != nil {
		return core.DaySummary{}, err
	}
	return core.DaySummary{Date: core.StartOfDay(day), WorkSummary: sum}, nil
}

// SummarizeRange sums in Go: amounts are decimal text, which SQL SUM would
// coerce to floating point.
func (r *SQLRepository) SummarizeRange(ctx context.Context, from, to time.Time) (core.WorkSummary, error) {
	logs, err := r.WorkLogsBetween(ctx, from, to)
	if err != nil {
		return core.WorkSummary{}, err
	}
	return core.SummarizeWorkLogs(logs), nil
}
