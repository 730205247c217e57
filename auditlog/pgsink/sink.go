// Package pgsink persists audit events to Postgres.
//
// The sink sits behind the engine's background dispatcher, so a write
// failure must never surface to the request that triggered the event: Emit
// swallows errors and only counts them. The table is append-only; nothing
// in this package updates or deletes rows.
package pgsink

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/testware-io/authgate/auditlog"
)

const insertEventSQL = `
INSERT INTO audit_events
	(id, actor_id, actor_email, actor_name, action, entity_type, entity_id, entity_name, project_id, metadata, created_at)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Sink writes audit events through a database/sql handle.
type Sink struct {
	db       *sql.DB
	timeout  time.Duration
	failures atomic.Uint64
}

// New wraps an existing database handle.
func New(db *sql.DB) *Sink {
	return &Sink{db: db, timeout: 5 * time.Second}
}

// Open connects to Postgres via the pgx stdlib driver and returns a ready
// sink.
func Open(dsn string) (*Sink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Emit appends one event. Failures are counted, never returned; the
// mutation this event mirrors has already succeeded and must not be
// affected by audit storage trouble.
func (s *Sink) Emit(ctx context.Context, event auditlog.Event) {
	if s == nil || s.db == nil {
		return
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		s.failures.Add(1)
		return
	}

	var projectID sql.NullInt64
	if event.ProjectID != nil {
		projectID = sql.NullInt64{Int64: *event.ProjectID, Valid: true}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	_, err = s.db.ExecContext(writeCtx, insertEventSQL,
		event.ID,
		event.Actor.ID,
		nullString(event.Actor.Email),
		nullString(event.Actor.Name),
		string(event.Action),
		event.EntityType,
		event.EntityID,
		nullString(event.EntityName),
		projectID,
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		s.failures.Add(1)
	}
}

// Failures returns how many writes have been dropped so far.
func (s *Sink) Failures() uint64 {
	if s == nil {
		return 0
	}
	return s.failures.Load()
}

// Close releases the database handle.
func (s *Sink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
