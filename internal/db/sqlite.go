// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/dayslot/internal/event"
)

// timestampLayout sorts lexically, so range queries can compare strings.
const timestampLayout = "2006-01-02T15:04:05Z"

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ event.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const upsertQuery = `
	INSERT INTO events (title, start_at, end_at, all_day, source, uid, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(source, uid) DO UPDATE SET
		title = excluded.title,
		start_at = excluded.start_at,
		end_at = excluded.end_at,
		all_day = excluded.all_day
	RETURNING id
`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateEvent adds a new event and sets its ID.
func (s *SQLite) CreateEvent(ctx context.Context, e *event.Event) error {
	return insertEvent(ctx, s.db, e)
}

// CreateEvents adds or updates events in a single transaction.
// Events sharing a source and UID with a stored event replace it.
func (s *SQLite) CreateEvents(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range events {
		if err := insertEvent(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertEvent(ctx context.Context, q queryer, e *event.Event) error {
	if e.Source == "" {
		e.Source = event.SourceLocal
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var uid sql.NullString
	if e.UID != "" {
		uid = sql.NullString{String: e.UID, Valid: true}
	}

	err := q.QueryRowContext(ctx, upsertQuery,
		e.Title,
		formatTimestamp(e.Start),
		formatTimestamp(e.End),
		e.AllDay,
		e.Source,
		uid,
		e.CreatedAt.Format(time.RFC3339),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("inserting event %q: %w", e.Title, err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLite) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	query := `
		SELECT id, title, start_at, end_at, all_day, source, uid, created_at
		FROM events
		WHERE id = ?
	`

	e, err := scanEvent(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", event.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	return e, nil
}

// DeleteEvent removes an event by ID.
func (s *SQLite) DeleteEvent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: #%d", event.ErrEventNotFound, id)
	}

	return nil
}

// ListEventsBetween returns events overlapping [from, to), ordered by start.
// Two ranges overlap if: start1 < end2 AND start2 < end1
func (s *SQLite) ListEventsBetween(ctx context.Context, from, to time.Time) ([]*event.Event, error) {
	query := `
		SELECT id, title, start_at, end_at, all_day, source, uid, created_at
		FROM events
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at, end_at DESC, id
	`

	rows, err := s.db.QueryContext(ctx, query, formatTimestamp(to), formatTimestamp(from))
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*event.Event, error) {
	var (
		e         event.Event
		startAt   string
		endAt     string
		uid       sql.NullString
		createdAt string
	)

	if err := row.Scan(&e.ID, &e.Title, &startAt, &endAt, &e.AllDay, &e.Source, &uid, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if e.Start, err = parseTimestamp(startAt); err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	if e.End, err = parseTimestamp(endAt); err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	e.UID = uid.String

	return &e, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp parses the formats SQLite might return and converts to local time.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		timestampLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
