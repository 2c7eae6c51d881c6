package core

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Dispatch for an unrecognized command kind.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind names a user action.
type CommandKind string

const (
	CmdToggleMode    CommandKind = "toggle_mode"
	CmdEditCell      CommandKind = "edit_cell"
	CmdOpenBulkPanel CommandKind = "open_bulk_panel"
	CmdSetBulkValue  CommandKind = "set_bulk_value"
	CmdApplyBulk     CommandKind = "apply_bulk"
	CmdSave          CommandKind = "save"
	CmdDiscard       CommandKind = "discard"
)

// Command is one discrete user action dispatched to a session.
// Row is only used by CmdEditCell; Value by CmdEditCell and CmdSetBulkValue.
// Row is always encoded since 0 is a valid row.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Row    int         `json:"row"`
	Column string      `json:"column,omitempty"`
	Value  string      `json:"value,omitempty"`
}

// Result is the outcome of a dispatched command.
type Result struct {
	State State

	// Affected lists the cells touched by the command: written cells for
	// edits and bulk applies, committed cells for a save, dropped cells for
	// a discard.
	Affected []CellChange
}

// Dispatch applies exactly one command and returns the new state.
//
// The previous notice is cleared first. When the command fails the session
// data is unchanged and a warning notice describing the problem is set, so
// the returned State is always renderable alongside the error.
func (s *TableEditSession) Dispatch(cmd Command) (Result, error) {
	s.notice = nil

	affected, err := s.apply(cmd)
	if err != nil {
		msg := MapError(err)
		text := msg.Message
		var ve ValidationError
		if errors.As(err, &ve) {
			text = ve.Error()
		}
		s.notice = &Notice{Level: NoticeWarning, Message: text, Code: msg.Code}
		return Result{State: s.State()}, err
	}

	return Result{State: s.State(), Affected: affected}, nil
}

func (s *TableEditSession) apply(cmd Command) ([]CellChange, error) {
	switch cmd.Kind {
	case CmdToggleMode:
		s.ToggleEditMode()
		return nil, nil

	case CmdEditCell:
		before := s.working.Clone()
		if err := s.EditCell(cmd.Row, cmd.Column, cmd.Value); err != nil {
			return nil, err
		}
		return Diff(before, s.working, []string{cmd.Column}), nil

	case CmdOpenBulkPanel:
		return nil, s.OpenBulkPanel(cmd.Column)

	case CmdSetBulkValue:
		return nil, s.SetBulkPendingValue(cmd.Column, cmd.Value)

	case CmdApplyBulk:
		before := s.working.Clone()
		if err := s.ApplyBulk(cmd.Column); err != nil {
			return nil, err
		}
		p := s.panels[cmd.Column]
		s.notice = &Notice{
			Level:   NoticeSuccess,
			Message: fmt.Sprintf("%s set to %q for all %d rows", cmd.Column, p.PendingValue, len(s.working)),
		}
		return Diff(before, s.working, []string{cmd.Column}), nil

	case CmdSave:
		committed := s.Save()
		if committed == nil {
			s.notice = &Notice{Level: NoticeInfo, Message: "No changes to save"}
			return nil, nil
		}
		s.notice = &Notice{Level: NoticeSuccess, Message: "Changes saved"}
		return committed, nil

	case CmdDiscard:
		dropped, err := s.Discard()
		if err != nil {
			return nil, err
		}
		s.notice = &Notice{Level: NoticeInfo, Message: "Changes discarded"}
		return dropped, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}
