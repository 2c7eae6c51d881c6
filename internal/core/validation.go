package core

// validation.go checks cell values against a column's FieldSpec.
//
// Two levels are used:
//  1. ValidateCell: the full constraint (required, length, option set). Applied
//     to single-cell edits and to bulk values at apply time.
//  2. ValidatePending: the staging check for a bulk value. Free text is only
//     length-checked here so a user can clear the input; the required check
//     happens in ApplyBulk.

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// ValidationKind names the constraint a value failed.
type ValidationKind int

const (
	ValidationRequired ValidationKind = iota + 1
	ValidationTooLong
	ValidationNotAnOption
)

// ValidationError represents a value rejected by a column constraint.
type ValidationError struct {
	Kind    ValidationKind // Which constraint failed
	Field   string         // Column name
	Value   string         // The rejected value
	Message string         // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateCell validates a value against the complete column constraint.
func ValidateCell(value string, spec FieldSpec) error {
	if strings.TrimSpace(value) == "" {
		if spec.Required {
			return ValidationError{Kind: ValidationRequired, Field: spec.Name, Value: value, Message: "required field is empty"}
		}
		return nil
	}
	return checkValue(value, spec)
}

// ValidatePending validates a candidate bulk value before it is staged.
// Enumerated columns must use one of their options; free text only has to
// respect the maximum length.
func ValidatePending(value string, spec FieldSpec) error {
	if spec.Type == FieldText && value == "" {
		return nil
	}
	return checkValue(value, spec)
}

func checkValue(value string, spec FieldSpec) error {
	switch spec.Type {
	case FieldText:
		if spec.MaxLength > 0 && utf8.RuneCountInString(value) > spec.MaxLength {
			return ValidationError{
				Kind:    ValidationTooLong,
				Field:   spec.Name,
				Value:   value,
				Message: fmt.Sprintf("exceeds maximum length of %d characters", spec.MaxLength),
			}
		}
	case FieldEnum:
		if !slices.Contains(spec.EnumValues, value) {
			return ValidationError{
				Kind:    ValidationNotAnOption,
				Field:   spec.Name,
				Value:   value,
				Message: fmt.Sprintf("value must be one of: %s", strings.Join(spec.EnumValues, ", ")),
			}
		}
	}
	return nil
}
