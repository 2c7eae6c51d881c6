package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/TableEdit/internal/logging"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for an unknown, expired or closed session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned by Create when the session cap is reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// ManagerConfig configures session lifetime and seeding.
type ManagerConfig struct {
	IdleTimeout time.Duration // Sessions untouched for longer are swept
	MaxSessions int           // Upper bound on live sessions
	Specs       []FieldSpec   // Column constraints for every session
	Seed        func() Table  // Initial rows for a new session
}

// Manager owns the live edit sessions. Each session belongs to one user;
// the manager serializes commands per session so concurrent requests for the
// same session cannot interleave a transition.
type Manager struct {
	cfg   ManagerConfig
	audit AuditStore
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *TableEditSession
	lastSeen time.Time
}

// NewManager creates a manager. A nil audit store falls back to an in-memory one.
func NewManager(cfg ManagerConfig, audit AuditStore) *Manager {
	if cfg.Specs == nil {
		cfg.Specs = EquipmentSpecs
	}
	if cfg.Seed == nil {
		cfg.Seed = SampleRows
	}
	if audit == nil {
		audit = NewMemoryAuditStore(0)
	}
	return &Manager{
		cfg:      cfg,
		audit:    audit,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create starts a new session seeded with fresh rows and returns its state.
func (m *Manager) Create(ctx context.Context) (State, error) {
	id := uuid.NewString()

	sess, err := NewSession(id, m.cfg.Specs, m.cfg.Seed())
	if err != nil {
		return State{}, fmt.Errorf("create session: %w", err)
	}
	sess.now = m.now

	m.mu.Lock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return State{}, ErrTooManySessions
	}
	m.sessions[id] = &sessionEntry{session: sess, lastSeen: m.now()}
	m.mu.Unlock()

	logging.WithFields(ctx, "session_id", id).Info("session created", "rows", len(sess.working))
	m.record(ctx, NewAuditEntry(ctx, id, ActionSessionStart, nil))

	return sess.State(), nil
}

// State returns the current state of a session.
func (m *Manager) State(id string) (State, error) {
	entry, err := m.touch(id)
	if err != nil {
		return State{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.State(), nil
}

// Dispatch applies cmd to the session and records an audit entry for
// commands that changed cells. On failure the returned state carries the
// warning notice and the error is returned alongside it.
func (m *Manager) Dispatch(ctx context.Context, id string, cmd Command) (State, error) {
	entry, err := m.touch(id)
	if err != nil {
		return State{}, err
	}

	entry.mu.Lock()
	res, err := entry.session.Dispatch(cmd)
	entry.mu.Unlock()

	logger := logging.WithFields(ctx, "session_id", id, "command", cmd.Kind)
	if err != nil {
		logger.Info("command rejected", "column", cmd.Column, "error", err)
		return res.State, err
	}
	logger.Debug("command applied", "affected", len(res.Affected), "dirty", res.State.Dirty)

	if action, ok := auditActionFor(cmd.Kind); ok && len(res.Affected) > 0 {
		m.record(ctx, NewAuditEntry(ctx, id, action, res.Affected))
	}

	return res.State, nil
}

// Close ends a session and releases it.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	logging.WithFields(ctx, "session_id", id).Info("session closed")
	m.record(ctx, NewAuditEntry(ctx, id, ActionSessionEnd, nil))
	return nil
}

// Sweep removes sessions idle for longer than the configured timeout and
// returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var expired []string
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.record(ctx, NewAuditEntry(ctx, id, ActionSessionEnd, nil))
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Specs returns the column constraints sessions are created with.
func (m *Manager) Specs() []FieldSpec {
	return m.cfg.Specs
}

// RecentAudit returns recent audit entries for a live session, newest first.
func (m *Manager) RecentAudit(ctx context.Context, id string, limit int) ([]AuditEntry, error) {
	if _, err := m.touch(id); err != nil {
		return nil, err
	}
	return m.audit.Recent(ctx, id, limit)
}

func (m *Manager) touch(id string) (*sessionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = m.now()
	return entry, nil
}

// record writes an audit entry. Failures are logged and never surface to
// the user action that triggered them.
func (m *Manager) record(ctx context.Context, entry AuditEntry) {
	if err := m.audit.Record(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn("audit record failed",
			"session_id", entry.SessionID,
			"action", entry.Action,
			"error", err,
		)
	}
}

func auditActionFor(kind CommandKind) (AuditAction, bool) {
	switch kind {
	case CmdEditCell:
		return ActionCellEdit, true
	case CmdApplyBulk:
		return ActionBulkApply, true
	case CmdSave:
		return ActionSave, true
	case CmdDiscard:
		return ActionDiscard, true
	default:
		return "", false
	}
}
