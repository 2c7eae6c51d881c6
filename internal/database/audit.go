// Package database provides the PostgreSQL audit trail for edit sessions.
//
// Only audit entries are stored here. Table data lives in session memory
// and is never persisted.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/TableEdit/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS edit_audit_log (
    id            UUID PRIMARY KEY,
    session_id    UUID NOT NULL,
    action        TEXT NOT NULL,
    severity      TEXT NOT NULL,
    column_name   TEXT,
    changes       JSONB,
    rows_affected INTEGER NOT NULL DEFAULT 0,
    ip_address    TEXT,
    user_agent    TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS edit_audit_log_session_idx ON edit_audit_log (session_id, created_at DESC);
`

const insertAuditSQL = `
INSERT INTO edit_audit_log
    (id, session_id, action, severity, column_name, changes, rows_affected, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const recentAuditSQL = `
SELECT id, session_id, action, severity, column_name, changes, rows_affected, ip_address, user_agent, created_at
FROM edit_audit_log
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`

// AuditStore writes audit entries to PostgreSQL.
type AuditStore struct {
	db DBTX
}

// NewAuditStore creates a store on top of a pool or transaction.
func NewAuditStore(db DBTX) *AuditStore {
	return &AuditStore{db: db}
}

// Migrate creates the audit table and index if they do not exist.
func (s *AuditStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// Record inserts one audit entry.
func (s *AuditStore) Record(ctx context.Context, e core.AuditEntry) error {
	id, err := toPgUUID(e.ID)
	if err != nil {
		return fmt.Errorf("audit id: %w", err)
	}
	sessionID, err := toPgUUID(e.SessionID)
	if err != nil {
		return fmt.Errorf("audit session id: %w", err)
	}

	var changes []byte
	if len(e.Changes) > 0 {
		if changes, err = json.Marshal(e.Changes); err != nil {
			return fmt.Errorf("encode changes: %w", err)
		}
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(ctx, insertAuditSQL,
		id,
		sessionID,
		string(e.Action),
		string(e.Severity),
		toPgText(e.Column),
		changes,
		int32(e.RowsAffected),
		toPgText(e.IPAddress),
		toPgText(e.UserAgent),
		pgtype.Timestamptz{Time: createdAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for sessionID, newest first.
func (s *AuditStore) Recent(ctx context.Context, sessionID string, limit int) ([]core.AuditEntry, error) {
	sid, err := toPgUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("audit session id: %w", err)
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, recentAuditSQL, sid, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanAuditEntry)
	if err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return entries, nil
}

func scanAuditEntry(row pgx.CollectableRow) (core.AuditEntry, error) {
	var (
		id, sessionID    pgtype.UUID
		action, severity string
		column, ip, ua   pgtype.Text
		changes          []byte
		rowsAffected     int32
		createdAt        pgtype.Timestamptz
	)
	if err := row.Scan(&id, &sessionID, &action, &severity, &column, &changes, &rowsAffected, &ip, &ua, &createdAt); err != nil {
		return core.AuditEntry{}, err
	}

	entry := core.AuditEntry{
		ID:           uuid.UUID(id.Bytes).String(),
		SessionID:    uuid.UUID(sessionID.Bytes).String(),
		Action:       core.AuditAction(action),
		Severity:     core.AuditSeverity(severity),
		Column:       column.String,
		RowsAffected: int(rowsAffected),
		IPAddress:    ip.String,
		UserAgent:    ua.String,
		CreatedAt:    createdAt.Time,
	}
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &entry.Changes); err != nil {
			return core.AuditEntry{}, fmt.Errorf("decode changes: %w", err)
		}
	}
	return entry, nil
}

func toPgUUID(s string) (pgtype.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
