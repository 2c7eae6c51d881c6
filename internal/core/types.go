package core

import "time"

// FieldType represents the kind of values a column accepts.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
)

// String returns the name used for the field type in JSON and templates.
func (ft FieldType) String() string {
	switch ft {
	case FieldEnum:
		return "enum"
	default:
		return "text"
	}
}

// FieldSpec defines the constraint for a single table column.
// The same spec is applied to single-cell edits and bulk values.
type FieldSpec struct {
	Name       string    // Column name as displayed
	Type       FieldType // Free text or enumerated
	Required   bool      // Blank values are rejected
	MaxLength  int       // Maximum length in characters for FieldText (0 = unbounded)
	EnumValues []string  // Valid values for FieldEnum
}

// Row maps column name to cell value.
type Row map[string]string

// Table is an ordered sequence of rows. Its length never changes during a session.
type Table []Row

// Mode is the display mode of a session.
type Mode string

const (
	ModeReadOnly Mode = "read_only"
	ModeEditing  Mode = "editing"
)

// BulkPanelState is the "set all" editor state for one column.
type BulkPanelState struct {
	Column       string `json:"column"`
	Open         bool   `json:"open"`
	PendingValue string `json:"pendingValue"`
}

// NoticeLevel classifies a notice shown after a command.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a one-shot message produced by the last command.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

// ColumnMeta describes a column for rendering input controls.
type ColumnMeta struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Required   bool     `json:"required"`
	MaxLength  int      `json:"maxLength,omitempty"`
	EnumValues []string `json:"enumValues,omitempty"`
}

// State is a snapshot of a session, suitable for rendering or JSON encoding.
type State struct {
	SessionID  string           `json:"sessionId"`
	Mode       Mode             `json:"mode"`
	Dirty      bool             `json:"dirty"`
	Columns    []ColumnMeta     `json:"columns"`
	Rows       Table            `json:"rows"`
	Changes    []CellChange     `json:"changes"`
	BulkPanels []BulkPanelState `json:"bulkPanels"`
	Notice     *Notice          `json:"notice,omitempty"`
	SavedAt    *time.Time       `json:"savedAt,omitempty"`
}

// Editing reports whether the snapshot was taken in edit mode.
func (s State) Editing() bool {
	return s.Mode == ModeEditing
}

// Panel returns the bulk panel state for column.
func (s State) Panel(column string) BulkPanelState {
	for _, p := range s.BulkPanels {
		if p.Column == column {
			return p
		}
	}
	return BulkPanelState{Column: column}
}
