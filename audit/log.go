// Package audit persists a durable, queryable projection of control-plane
// lifecycle events, independent of the in-memory core that produces them.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Geekthedev/korra/domain"
	"github.com/Geekthedev/korra/obslog"
)

var log = obslog.For("audit")

// Log is a SQLite-backed append-only event store.
type Log struct {
	db *sql.DB
}

// Open opens (creating if necessary) the audit database at dsn and runs
// migrations.
func Open(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit database: %w", err)
	}
	return l, nil
}

func (l *Log) migrate() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS audit_events (
		event_id    TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		subject_id  TEXT NOT NULL,
		detail      TEXT,
		occurred_at DATETIME NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_events(subject_id, occurred_at)`)
	return err
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends an event. Failures are the caller's to log; audit writes
// never block or fail a routing decision, so callers typically discard the
// error after logging it.
func (l *Log) Record(ctx context.Context, evt domain.AuditEvent) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_events (event_id, kind, subject_id, detail, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		evt.EventID, string(evt.Kind), evt.SubjectID, evt.Detail, evt.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert audit event: %v", domain.ErrTransientIO, err)
	}
	return nil
}

// RecordBestEffort calls Record and logs, but never returns, any error.
func (l *Log) RecordBestEffort(evt domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Record(ctx, evt); err != nil {
		log.Warn().Err(err).Str("kind", string(evt.Kind)).Msg("audit write failed")
	}
}

// Filter selects a subset of audit history.
type Filter struct {
	SubjectID string
	Kind      string
	Limit     int
}

// Query returns events matching filter, most recent first.
func (l *Log) Query(ctx context.Context, f Filter) ([]domain.AuditEvent, error) {
	q := `SELECT event_id, kind, subject_id, detail, occurred_at FROM audit_events WHERE 1=1`
	args := []interface{}{}
	if f.SubjectID != "" {
		q += ` AND subject_id = ?`
		args = append(args, f.SubjectID)
	}
	if f.Kind != "" {
		q += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	q += ` ORDER BY occurred_at DESC`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q += ` LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query audit events: %v", domain.ErrTransientIO, err)
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var evt domain.AuditEvent
		var kind, detail string
		if err := rows.Scan(&evt.EventID, &kind, &evt.SubjectID, &detail, &evt.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: scan audit event: %v", domain.ErrTransientIO, err)
		}
		evt.Kind = domain.AuditEventKind(kind)
		evt.Detail = detail
		out = append(out, evt)
	}
	return out, rows.Err()
}
