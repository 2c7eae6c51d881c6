package core

import (
	"strings"
	"testing"
)

func TestValidateCell(t *testing.T) {
	text := FieldSpec{Name: "Description", Type: FieldText, Required: true, MaxLength: 5}
	optional := FieldSpec{Name: "Note", Type: FieldText, MaxLength: 3}
	enum := FieldSpec{Name: "Status", Type: FieldEnum, Required: true, EnumValues: []string{"on", "off"}}

	tests := []struct {
		name    string
		value   string
		spec    FieldSpec
		wantErr string
	}{
		{"text ok", "abc", text, ""},
		{"text at limit", "abcde", text, ""},
		{"text too long", "abcdef", text, "exceeds maximum length of 5"},
		{"text runes counted", "ééééé", text, ""},
		{"text required empty", "", text, "required field is empty"},
		{"text required blank", " \t", text, "required field is empty"},
		{"optional empty", "", optional, ""},
		{"enum ok", "off", enum, ""},
		{"enum case sensitive", "OFF", enum, "must be one of: on, off"},
		{"enum empty", "", enum, "required field is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCell(tt.value, tt.spec)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateCell(%q) unexpected error: %v", tt.value, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateCell(%q) error = %v, want containing %q", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePending(t *testing.T) {
	text := FieldSpec{Name: "Description", Type: FieldText, Required: true, MaxLength: 5}
	enum := FieldSpec{Name: "Status", Type: FieldEnum, Required: true, EnumValues: []string{"on", "off"}}

	if err := ValidatePending("", text); err != nil {
		t.Errorf("empty pending text should be staged: %v", err)
	}
	if err := ValidatePending("toolong", text); err == nil {
		t.Error("over-length pending text accepted")
	}
	if err := ValidatePending("", enum); err == nil {
		t.Error("empty pending enum accepted")
	}
	if err := ValidatePending("on", enum); err != nil {
		t.Errorf("valid pending enum rejected: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	withField := ValidationError{Field: "Description", Message: "required field is empty"}
	if got := withField.Error(); got != "Description: required field is empty" {
		t.Errorf("Error() = %q", got)
	}
	bare := ValidationError{Message: "bad"}
	if got := bare.Error(); got != "bad" {
		t.Errorf("Error() = %q", got)
	}
}
