package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionSessionStart AuditAction = "session_start"
	ActionCellEdit     AuditAction = "cell_edit"
	ActionBulkApply    AuditAction = "bulk_apply"
	ActionSave         AuditAction = "save"
	ActionDiscard      AuditAction = "discard"
	ActionSessionEnd   AuditAction = "session_end"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry is a single audit log entry.
type AuditEntry struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"sessionId"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	Column       string        `json:"column,omitempty"`
	Changes      []CellChange  `json:"changes,omitempty"`
	RowsAffected int           `json:"rowsAffected"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// AuditStore persists audit entries.
type AuditStore interface {
	Record(ctx context.Context, entry AuditEntry) error
	Recent(ctx context.Context, sessionID string, limit int) ([]AuditEntry, error)
}

// determineSeverity returns the severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionBulkApply, ActionSave:
		return SeverityHigh
	case ActionCellEdit, ActionDiscard:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// NewAuditEntry builds an entry with a fresh ID, severity and the request
// metadata found in ctx.
func NewAuditEntry(ctx context.Context, sessionID string, action AuditAction, changes []CellChange) AuditEntry {
	meta := RequestMetaFromContext(ctx)

	entry := AuditEntry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Action:    action,
		Severity:  determineSeverity(action),
		Changes:   changes,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}

	rows := make(map[int]struct{})
	for _, c := range changes {
		rows[c.Row] = struct{}{}
		entry.Column = c.Column
	}
	entry.RowsAffected = len(rows)

	// Column is only meaningful when every change touches the same one.
	for _, c := range changes {
		if c.Column != entry.Column {
			entry.Column = ""
			break
		}
	}

	return entry
}

// MemoryAuditStore keeps the most recent entries in memory.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries []AuditEntry
	limit   int
}

// NewMemoryAuditStore creates a store retaining at most limit entries.
func NewMemoryAuditStore(limit int) *MemoryAuditStore {
	if limit <= 0 {
		limit = 500
	}
	return &MemoryAuditStore{limit: limit}
}

// Record appends an entry, evicting the oldest once the limit is reached.
func (m *MemoryAuditStore) Record(_ context.Context, entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	return nil
}

// Recent returns up to limit entries for sessionID, newest first.
// An empty sessionID matches every session.
func (m *MemoryAuditStore) Recent(_ context.Context, sessionID string, limit int) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AuditEntry
	for i := len(m.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if sessionID == "" || m.entries[i].SessionID == sessionID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}
