// Copyright (c) 2026 ScholarLink. All rights reserved.

package personname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbadaoui/scholarlink/pkg/personname"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain_ascii", "Abik", "Abik"},
		{"french_accents", "Aurélie Lefèvre", "Aurelie Lefevre"},
		{"cedilla", "François", "Francois"},
		{"preserves_case", "MOUNIA", "MOUNIA"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, personname.Fold(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mounia abik", personname.Normalize("  Mounia   Abik "))
	assert.Equal(t, "francois", personname.Normalize("François"))
}

func TestEqual(t *testing.T) {
	assert.True(t, personname.Equal("Aurélie", "aurelie"))
	assert.True(t, personname.Equal("Mounia  Abik", "mounia abik"))
	assert.False(t, personname.Equal("Mounia", "Monia"))
}
