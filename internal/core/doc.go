// Package core provides the table edit session logic, independent of any
// transport or rendering layer.
//
// # Sessions
//
// A [TableEditSession] holds a baseline table (last saved), a working copy,
// a dirty flag and one "set all" bulk panel per column. Every user action is
// a [Command] passed to [TableEditSession.Dispatch], which performs exactly
// one transition and returns the new [State]:
//
//	res, err := sess.Dispatch(core.Command{Kind: core.CmdToggleMode})
//	res, err = sess.Dispatch(core.Command{
//	    Kind:   core.CmdEditCell,
//	    Row:    0,
//	    Column: core.ColManufacturer,
//	    Value:  "ABB",
//	})
//	res, err = sess.Dispatch(core.Command{Kind: core.CmdSave})
//
// The dirty flag always equals "working copy differs from baseline". Rejected
// commands leave the data untouched and return a [ValidationError] (or a
// sentinel such as [ErrReadOnly]) together with a state carrying a warning
// [Notice].
//
// # Columns
//
// [EquipmentSpecs] lists the equipment columns. Enumerated columns accept
// only their option set; free-text columns are required and length-bounded.
// The same constraints apply to single-cell edits and bulk values.
//
// # Lifetime
//
// [Manager] owns live sessions keyed by UUID, expires idle ones through
// [Manager.StartSweeper], and records cell edits, bulk applies, saves and
// discards to an [AuditStore].
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with support codes
// by [MapError] (VAL, SES, TBL, REQ, DB, RATE and the ERR000 fallback).
package core
