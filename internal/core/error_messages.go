package core

// error_messages.go maps technical errors to user-facing messages with a code
// that can be quoted to support.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: a required column was left blank
//	VAL002 - Too long: text exceeds the column's maximum length
//	VAL003 - Not an option: value is outside the column's option set
//	VAL004 - Unknown column: the column is not part of the table
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Read-only: an edit was attempted outside edit mode
//	SES002 - Session not found: the session expired or was closed
//	SES003 - Too many sessions: the server is at its session limit
//	SES004 - Unknown command: the client sent an unsupported action
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Row out of range: the row index does not exist
//
// # Request Errors (REQ001-REQ099), Database (DB001-DB099), Rate (RATE001)
//
//	REQ001 - Request was cancelled
//	REQ002 - Request timed out
//	REQ003 - Malformed request body or form
//	DB001  - Audit database unreachable
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Errors produced by this package are matched by type: a ValidationError by
// its Kind, everything else with errors.Is against the package sentinels.
// Error text is only inspected for errors from outside the package (driver,
// network, transport), where patterns are matched case-insensitively and the
// first match wins.

import (
	"context"
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgRequired = UserMessage{
		Message: "Required field is empty",
		Action:  "Enter a value before applying",
		Code:    "VAL001",
	}
	msgTooLong = UserMessage{
		Message: "Value is too long for this column",
		Action:  "Shorten the text and try again",
		Code:    "VAL002",
	}
	msgNotAnOption = UserMessage{
		Message: "Value is not in the allowed list",
		Action:  "Pick one of the listed options",
		Code:    "VAL003",
	}
	msgUnknownColumn = UserMessage{
		Message: "Column does not exist",
		Action:  "Reload the page to get the current columns",
		Code:    "VAL004",
	}
	msgReadOnly = UserMessage{
		Message: "The table is in read-only mode",
		Action:  "Switch to edit mode first",
		Code:    "SES001",
	}
	msgSessionNotFound = UserMessage{
		Message: "Edit session not found",
		Action:  "The session may have expired. Start a new one",
		Code:    "SES002",
	}
	msgTooManySessions = UserMessage{
		Message: "The server is handling too many sessions",
		Action:  "Please wait a moment and try again",
		Code:    "SES003",
	}
	msgUnknownCommand = UserMessage{
		Message: "Unsupported action",
		Action:  "Reload the page and try again",
		Code:    "SES004",
	}
	msgRowOutOfRange = UserMessage{
		Message: "Row does not exist",
		Action:  "Reload the page to get the current rows",
		Code:    "TBL001",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
	}
	msgBadRequest = UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the request body and parameters",
		Code:    "REQ003",
	}
	msgDatabase = UserMessage{
		Message: "Unable to connect to the audit database",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}
	msgRateLimit = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

var validationMessages = map[ValidationKind]UserMessage{
	ValidationRequired:    msgRequired,
	ValidationTooLong:     msgTooLong,
	ValidationNotAnOption: msgNotAnOption,
}

var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrReadOnly, msgReadOnly},
	{ErrSessionNotFound, msgSessionNotFound},
	{ErrTooManySessions, msgTooManySessions},
	{ErrUnknownCommand, msgUnknownCommand},
	{ErrUnknownColumn, msgUnknownColumn},
	{ErrRowOutOfRange, msgRowOutOfRange},
	{context.Canceled, msgCanceled},
	{context.DeadlineExceeded, msgTimeout},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns only sees errors that matched no type or sentinel above.
var errorPatterns = []errorPattern{
	{pattern: "invalid request", msg: msgBadRequest},
	{pattern: "context canceled", msg: msgCanceled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "connection refused", msg: msgDatabase},
	{pattern: "rate limit", msg: msgRateLimit},
}

// MapError converts a technical error to a user-friendly message, or ERR000
// when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		if msg, ok := validationMessages[ve.Kind]; ok {
			return msg
		}
		return defaultMessage
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err maps to a known message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
