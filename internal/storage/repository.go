// Package storage is the database/sql implementation of the ledger store,
// backed by SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pichacka/internal/core"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	return string(d)
}

// timeLayout is fixed width in UTC so text order equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLiteRepository opens (creating if needed) the database file at dbPath
// and migrates it.
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	repo, err := open(DialectSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// A single writer connection avoids SQLITE_BUSY between transactions.
	repo.db.SetMaxOpenConns(1)
	return repo, nil
}

// NewPostgresRepository connects with dsn and migrates the schema.
func NewPostgresRepository(dsn string) (*SQLRepository, error) {
	return open(DialectPostgres, dsn)
}

func open(dialect Dialect, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, dialect: dialect, now: time.Now}, nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// lockRow appends a row lock for PostgreSQL, where transactions run at READ
// COMMITTED. SQLite needs none: it serialises writers on its one connection.
func (r *SQLRepository) lockRow(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	return query + " FOR UPDATE"
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// insert runs an INSERT ... RETURNING id and returns the new id.
func (r *SQLRepository) insert(ctx context.Context, q queryer, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowContext(ctx, r.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// list runs query and decodes every row with scan.
func list[T any](ctx context.Context, r *SQLRepository, query string, scan func(rowScanner) (T, error), args ...any) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Users

const userColumns = "id, username, password, display_name, avatar_initials"

func scanUser(s rowScanner) (core.User, error) {
	var u core.User
	err := s.Scan(&u.ID, &u.Username, &u.Password, &u.DisplayName, &u.AvatarInitials)
	return u, err
}

func (r *SQLRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id))
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, notFound(err))
	}
	return u, nil
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.rebind("SELECT "+userColumns+" FROM users WHERE username = ?"), username))
	if err != nil {
		return core.User{}, fmt.Errorf("get user %q: %w", username, notFound(err))
	}
	return u, nil
}

func (r *SQLRepository) CreateUser(ctx context.Context, in core.NewUser) (core.User, error) {
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.User{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, r.rebind("SELECT COUNT(*) FROM users WHERE username = ?"), in.Username).Scan(&exists)
	if err != nil {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return core.User{}, core.ErrConflict
	}

	id, err := r.insert(ctx, tx,
		"INSERT INTO users (username, password, display_name, avatar_initials) VALUES (?, ?, ?, ?)",
		in.Username, in.Password, in.DisplayName, in.AvatarInitials)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.User{}, fmt.Errorf("commit user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", in.Username)
	return core.User{ID: id, Username: in.Username, Password: in.Password, DisplayName: in.DisplayName, AvatarInitials: in.AvatarInitials}, nil
}

// Directory

func (r *SQLRepository) ListPersons(ctx context.Context) ([]core.Person, error) {
	out, err := list(ctx, r, "SELECT id, name, hourly_rate, deduction_rate FROM persons ORDER BY id",
		func(s rowScanner) (core.Person, error) {
			var p core.Person
			err := s.Scan(&p.ID, &p.Name, &p.HourlyRate, &p.DeductionRate)
			return p, err
		})
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) CreatePerson(ctx context.Context, in core.NewPerson) (core.Person, error) {
	if err := in.Validate(); err != nil {
		return core.Person{}, err
	}
	id, err := r.insert(ctx, r.db, "INSERT INTO persons (name, hourly_rate, deduction_rate) VALUES (?, ?, ?)",
		in.Name, in.HourlyRate, in.DeductionRate)
	if err != nil {
		return core.Person{}, fmt.Errorf("create person: %w", err)
	}
	return core.Person{ID: id, Name: in.Name, HourlyRate: in.HourlyRate, DeductionRate: in.DeductionRate}, nil
}

func (r *SQLRepository) ListActivities(ctx context.Context) ([]core.Activity, error) {
	out, err := list(ctx, r, "SELECT id, name, color FROM activities ORDER BY id",
		func(s rowScanner) (core.Activity, error) {
			var a core.Activity
			err := s.Scan(&a.ID, &a.Name, &a.Color)
			return a, err
		})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) CreateActivity(ctx context.Context, in core.NewActivity) (core.Activity, error) {
	if err := in.Validate(); err != nil {
		return core.Activity{}, err
	}
	id, err := r.insert(ctx, r.db, "INSERT INTO activities (name, color) VALUES (?, ?)", in.Name, in.Color)
	if err != nil {
		return core.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return core.Activity{ID: id, Name: in.Name, Color: in.Color}, nil
}
