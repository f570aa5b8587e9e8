package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"northstar-hq/relay/pkg/normalize"
)

// SQLiteStore implements Store with SQLite persistence. It is suitable for
// single-instance deployments that need race history across restarts.
// WAL mode balances write performance with durability.
type SQLiteStore struct {
	db *sql.DB

	saveStmt    *sql.Stmt
	getStmt     *sql.Stmt
	latestStmt  *sql.Stmt
	listStmt    *sql.Stmt
	cleanupStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS race_records (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		status TEXT NOT NULL,
		winner TEXT,
		race_time_ms REAL NOT NULL,
		participants INTEGER NOT NULL,
		report TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_race_records_created_at ON race_records(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO race_records (id, prompt, status, winner, race_time_ms, participants, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			prompt = excluded.prompt,
			status = excluded.status,
			winner = excluded.winner,
			race_time_ms = excluded.race_time_ms,
			participants = excluded.participants,
			report = excluded.report,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	const selectCols = `SELECT id, prompt, status, winner, race_time_ms, participants, report, created_at FROM race_records`

	s.getStmt, err = s.db.Prepare(selectCols + ` WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.latestStmt, err = s.db.Prepare(selectCols + ` ORDER BY created_at DESC, id DESC LIMIT 1`)
	if err != nil {
		return fmt.Errorf("failed to prepare latest statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(selectCols + ` ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`DELETE FROM race_records WHERE created_at < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// Save persists a record, replacing any existing record with the same ID.
func (s *SQLiteStore) Save(ctx context.Context, rec *RaceRecord) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var reportJSON []byte
	if rec.Report != nil {
		var err error
		reportJSON, err = json.Marshal(rec.Report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
	}

	_, err := s.saveStmt.ExecContext(ctx,
		rec.ID, rec.Prompt, rec.Status, rec.Winner,
		rec.RaceTimeMs, rec.Participants, nullableString(reportJSON), createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Get retrieves a record by race ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*RaceRecord, error) {
	return scanRecord(s.getStmt.QueryRowContext(ctx, id))
}

// Latest returns the most recently stored record.
func (s *SQLiteStore) Latest(ctx context.Context) (*RaceRecord, error) {
	return scanRecord(s.latestStmt.QueryRowContext(ctx))
}

// List returns up to limit records, most recent first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*RaceRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []*RaceRecord
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Cleanup removes records created before the cutoff.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := s.cleanupStmt.ExecContext(ctx, olderThan.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup records: %w", err)
	}
	deleted, err := result.RowsAffected()
	return int(deleted), err
}

// Close closes prepared statements and the database.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.latestStmt, s.listStmt, s.cleanupStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*RaceRecord, error) {
	rec, err := scanRecordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func scanRecordRow(row rowScanner) (*RaceRecord, error) {
	var rec RaceRecord
	var winner sql.NullString
	var reportJSON sql.NullString
	var createdAt int64

	if err := row.Scan(&rec.ID, &rec.Prompt, &rec.Status, &winner,
		&rec.RaceTimeMs, &rec.Participants, &reportJSON, &createdAt); err != nil {
		return nil, err
	}

	rec.Winner = winner.String
	rec.CreatedAt = time.UnixMilli(createdAt)

	if reportJSON.Valid && reportJSON.String != "" {
		var report normalize.Report
		if err := json.Unmarshal([]byte(reportJSON.String), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		rec.Report = &report
	}

	return &rec, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
