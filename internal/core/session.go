package core

// session.go implements TableEditSession, the edit/bulk-apply/save state
// machine for one user's table.
//
// Mode:        ReadOnly <-> Editing (toggle, data untouched)
// Data:        Clean -> (cell edit | bulk apply) -> Dirty -> (save) -> Clean
// Bulk panel:  Closed -> (open) -> Open -> (apply ok) -> Closed
//                                  Open -> (apply fails) -> Open
//
// A session is owned by a single user and is not safe for concurrent use;
// Manager serializes access.

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrReadOnly is returned by edit operations while the session is in read-only mode.
	ErrReadOnly = errors.New("table is in read-only mode")

	// ErrRowOutOfRange is returned when a row index does not exist.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrUnknownColumn is returned when a column name is not part of the table.
	ErrUnknownColumn = errors.New("unknown column")
)

// TableEditSession tracks a baseline table, its working copy, the dirty flag
// and the per-column bulk panels.
type TableEditSession struct {
	id      string
	specs   []FieldSpec
	columns []string

	mode     Mode
	baseline Table
	working  Table
	dirty    bool
	panels   map[string]*BulkPanelState

	notice  *Notice
	savedAt time.Time
	now     func() time.Time
}

// NewSession creates a session in read-only mode whose baseline and working
// copy both equal rows. Every row must satisfy specs.
func NewSession(id string, specs []FieldSpec, rows Table) (*TableEditSession, error) {
	columns := ColumnNames(specs)

	for i, row := range rows {
		for _, spec := range specs {
			if err := ValidateCell(row[spec.Name], spec); err != nil {
				return nil, fmt.Errorf("seed row %d: %w", i, err)
			}
		}
	}

	s := &TableEditSession{
		id:       id,
		specs:    specs,
		columns:  columns,
		mode:     ModeReadOnly,
		baseline: rows.Clone(),
		working:  rows.Clone(),
		panels:   make(map[string]*BulkPanelState, len(specs)),
		now:      time.Now,
	}
	for _, col := range columns {
		s.panels[col] = &BulkPanelState{Column: col}
	}

	return s, nil
}

// ID returns the session identifier.
func (s *TableEditSession) ID() string { return s.id }

// Mode returns the current display mode.
func (s *TableEditSession) Mode() Mode { return s.mode }

// Dirty reports whether the working copy differs from the baseline.
func (s *TableEditSession) Dirty() bool { return s.dirty }

// ToggleEditMode flips between read-only and edit mode. Unsaved edits are kept.
func (s *TableEditSession) ToggleEditMode() Mode {
	if s.mode == ModeEditing {
		s.mode = ModeReadOnly
	} else {
		s.mode = ModeEditing
	}
	return s.mode
}

// EditCell validates value against the column constraint and, on success,
// writes it into the working copy.
func (s *TableEditSession) EditCell(row int, column, value string) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	spec, err := s.spec(column)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(s.working) {
		return fmt.Errorf("%w: %d (table has %d rows)", ErrRowOutOfRange, row, len(s.working))
	}
	if err := ValidateCell(value, spec); err != nil {
		return err
	}

	s.working[row][column] = value
	s.refreshDirty()
	return nil
}

// OpenBulkPanel toggles the "set all" editor for column.
func (s *TableEditSession) OpenBulkPanel(column string) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	if _, err := s.spec(column); err != nil {
		return err
	}

	p := s.panels[column]
	p.Open = !p.Open
	return nil
}

// SetBulkPendingValue stages a candidate bulk value for column.
func (s *TableEditSession) SetBulkPendingValue(column, value string) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	spec, err := s.spec(column)
	if err != nil {
		return err
	}
	if err := ValidatePending(value, spec); err != nil {
		return err
	}

	s.panels[column].PendingValue = value
	return nil
}

// ApplyBulk writes the staged value for column into every row of the working
// copy and closes the panel. A value failing the column constraint returns a
// ValidationError and leaves the table and the panel untouched.
func (s *TableEditSession) ApplyBulk(column string) error {
	if err := s.requireEditing(); err != nil {
		return err
	}
	spec, err := s.spec(column)
	if err != nil {
		return err
	}

	p := s.panels[column]
	if err := ValidateCell(p.PendingValue, spec); err != nil {
		return err
	}

	for _, row := range s.working {
		row[column] = p.PendingValue
	}
	p.Open = false
	s.refreshDirty()
	return nil
}

// Save copies the working copy into the baseline and returns the committed
// changes. It does nothing and returns nil when the session is clean.
func (s *TableEditSession) Save() []CellChange {
	if !s.dirty {
		return nil
	}

	changes := s.Changes()
	s.baseline = s.working.Clone()
	s.dirty = false
	s.savedAt = s.now()
	return changes
}

// Discard resets the working copy to the baseline and closes all bulk panels.
func (s *TableEditSession) Discard() ([]CellChange, error) {
	if err := s.requireEditing(); err != nil {
		return nil, err
	}

	dropped := s.Changes()
	s.working = s.baseline.Clone()
	s.dirty = false
	for _, p := range s.panels {
		p.Open = false
		p.PendingValue = ""
	}
	return dropped, nil
}

// Changes returns the cells where the working copy differs from the baseline.
func (s *TableEditSession) Changes() []CellChange {
	return Diff(s.baseline, s.working, s.columns)
}

// Working returns a copy of the working table.
func (s *TableEditSession) Working() Table { return s.working.Clone() }

// Baseline returns a copy of the last saved table.
func (s *TableEditSession) Baseline() Table { return s.baseline.Clone() }

// BulkPanel returns the bulk panel state for column.
func (s *TableEditSession) BulkPanel(column string) (BulkPanelState, bool) {
	p, ok := s.panels[column]
	if !ok {
		return BulkPanelState{}, false
	}
	return *p, true
}

// State returns a snapshot of the session for rendering.
func (s *TableEditSession) State() State {
	panels := make([]BulkPanelState, len(s.columns))
	for i, col := range s.columns {
		panels[i] = *s.panels[col]
	}

	var notice *Notice
	if s.notice != nil {
		n := *s.notice
		notice = &n
	}

	var savedAt *time.Time
	if !s.savedAt.IsZero() {
		t := s.savedAt
		savedAt = &t
	}

	return State{
		SessionID:  s.id,
		Mode:       s.mode,
		Dirty:      s.dirty,
		Columns:    BuildColumnMeta(s.specs),
		Rows:       s.working.Clone(),
		Changes:    s.Changes(),
		BulkPanels: panels,
		Notice:     notice,
		SavedAt:    savedAt,
	}
}

func (s *TableEditSession) requireEditing() error {
	if s.mode != ModeEditing {
		return ErrReadOnly
	}
	return nil
}

func (s *TableEditSession) spec(column string) (FieldSpec, error) {
	spec, ok := LookupSpec(s.specs, column)
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return spec, nil
}

func (s *TableEditSession) refreshDirty() {
	s.dirty = !Equal(s.baseline, s.working, s.columns)
}
