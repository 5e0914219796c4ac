// Copyright (c) 2026 ScholarLink. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "nom", "Abik", false},
		{"empty_string", "nom", "", true},
		{"whitespace_only", "nom", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_OrcidID checks the ORCID iD format rule.
*/
func TestValidator_OrcidID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"valid_digits", "0000-0002-1825-0097", true},
		{"valid_checksum_x", "0000-0002-1694-233X", true},
		{"lowercase_x", "0000-0002-1694-233x", false},
		{"missing_group", "0000-0002-1825", false},
		{"no_hyphens", "0000000218250097", false},
		{"letters", "0000-0002-18a5-0097", false},
		{"url_form", "https://orcid.org/0000-0002-1825-0097", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.OrcidID("orcid_id", tt.value)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("nom", "Abik").
		MinLen("nom", "Abik", 2).
		MaxLen("nom", "Abik", 100).
		OrcidID("orcid_id", "0000-0002-1825-0097").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("nom", "").                // Fails
		MinLen("prenom", "a", 5).           // Fails
		OrcidID("orcid_id", "not-an-orcid"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_OneOf tests enumeration membership.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("model", "gpt-4o", "o4-mini", "gpt-4o", "gemini-2.0-flash", "deepseek-chat")
	assert.False(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.OneOf("model", "llama-3", "o4-mini", "gpt-4o")
	assert.True(t, v2.HasErrors())
}
