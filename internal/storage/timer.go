package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pichacka/internal/core"
)

const sessionColumns = "id, person_id, activity_id, start_time, status, paused_duration_seconds, serialized_state"

func scanSession(s rowScanner) (core.TimerSession, error) {
	var (
		ts     core.TimerSession
		start  string
		status string
		state  sql.NullString
	)
	if err := s.Scan(&ts.ID, &ts.PersonID, &ts.ActivityID, &start, &status, &ts.PausedDurationSeconds, &state); err != nil {
		return core.TimerSession{}, err
	}
	t, err := decodeTime(start)
	if err != nil {
		return core.TimerSession{}, err
	}
	ts.StartTime = t
	ts.Status = core.TimerStatus(status)
	if state.Valid {
		ts.SerializedState = json.RawMessage(state.String)
	}
	return ts, nil
}

func stateParam(raw json.RawMessage) sql.NullString {
	raw = core.CloneRaw(raw)
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func (r *SQLRepository) CurrentTimerSession(ctx context.Context) (*core.TimerSession, error) {
	ts, err := scanSession(r.db.QueryRowContext(ctx, r.rebind(
		"SELECT "+sessionColumns+" FROM timer_sessions WHERE status <> ? ORDER BY id LIMIT 1"), string(core.TimerStopped)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current timer session: %w", err)
	}
	return &ts, nil
}

func (r *SQLRepository) CreateTimerSession(ctx context.Context, in core.NewTimerSession) (core.TimerSession, error) {
	if err := in.Validate(); err != nil {
		return core.TimerSession{}, err
	}
	id, err := r.insert(ctx, r.db,
		`INSERT INTO timer_sessions (person_id, activity_id, start_time, status, paused_duration_seconds, serialized_state)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.PersonID, in.ActivityID, encodeTime(in.StartTime), string(in.Status), in.PausedDurationSeconds, stateParam(in.SerializedState))
	if err != nil {
		return core.TimerSession{}, fmt.Errorf("create timer session: %w", err)
	}
	return core.TimerSession{
		ID:                    id,
		PersonID:              in.PersonID,
		ActivityID:            in.ActivityID,
		StartTime:             in.StartTime,
		Status:                in.Status,
		PausedDurationSeconds: in.PausedDurationSeconds,
		SerializedState:       core.CloneRaw(in.SerializedState),
	}, nil
}

func (r *SQLRepository) UpdateTimerSession(ctx context.Context, id int64, p core.TimerSessionPatch) (core.TimerSession, error) {
	if err := p.Validate(); err != nil {
		return core.TimerSession{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.TimerSession{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts, err := scanSession(tx.QueryRowContext(ctx, r.rebind(r.lockRow("SELECT "+sessionColumns+" FROM timer_sessions WHERE id = ?")), id))
	if err != nil {
		return core.TimerSession{}, fmt.Errorf("get timer session %d: %w", id, notFound(err))
	}
	ts = ts.Apply(p)

	_, err = tx.ExecContext(ctx, r.rebind(
		`UPDATE timer_sessions SET person_id = ?, activity_id = ?, start_time = ?, status = ?,
		paused_duration_seconds = ?, serialized_state = ? WHERE id = ?`),
		ts.PersonID, ts.ActivityID, encodeTime(ts.StartTime), string(ts.Status),
		ts.PausedDurationSeconds, stateParam(ts.SerializedState), ts.ID)
	if err != nil {
		return core.TimerSession{}, fmt.Errorf("update timer session %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.TimerSession{}, fmt.Errorf("commit timer session: %w", err)
	}
	return ts, nil
}
