// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	rows := []CandidateRow{
		{
			Original:       RawRow{"nom": "Abik", "prenom": "Mounia"},
			OrcidID:        "0000-0002-1825-0097",
			Status:         StatusFound,
			Confidence:     0.92,
			Country:        "Morocco",
			ResearchFields: []string{"Artificial Intelligence & Machine Learning"},
			Keywords:       []string{"nlp", "e-learning"},
			Reasoning:      "Affiliation matches, name matches",
		},
		{
			Original:  RawRow{"nom": "Dupont", "prenom": "Jean"},
			Status:    StatusNotFound,
			Reasoning: `No profile found, tried variants "J. Dupont"`,
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteCSV(&buffer, rows, []string{"nom", "prenom"}))

	// The output must survive a standards-compliant reader.
	parsed, err := csv.NewReader(bytes.NewReader(buffer.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3, "header plus one line per row")

	header := parsed[0]
	assert.Equal(t, []string{
		"nom", "prenom",
		"orcid_id", "status", "confidence", "country",
		"main_research_area", "specific_research_area",
		"research_fields", "keywords", "reasoning",
	}, header)

	first := parsed[1]
	assert.Equal(t, "Abik", first[0])
	assert.Equal(t, "0000-0002-1825-0097", first[2])
	assert.Equal(t, "found", first[3])
	assert.Equal(t, "0.92", first[4])
	assert.Equal(t, "nlp; e-learning", first[9])

	second := parsed[2]
	assert.Equal(t, "Dupont", second[0])
	assert.Empty(t, second[2])
	assert.Equal(t, "not_found", second[3])
	assert.Contains(t, second[10], `"J. Dupont"`, "embedded quotes round-trip intact")
}

func TestWriteCSV_QuotesCommasAndNewlines(t *testing.T) {
	rows := []CandidateRow{
		{
			Original:  RawRow{"affiliation": "ENSIAS, Mohammed V University"},
			Status:    StatusNotFound,
			Reasoning: "line one\nline two",
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteCSV(&buffer, rows, []string{"affiliation"}))

	parsed, err := csv.NewReader(strings.NewReader(buffer.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "ENSIAS, Mohammed V University", parsed[1][0])
	assert.Equal(t, "line one\nline two", parsed[1][9])
}

func TestWriteCSV_MissingSourceColumnIsEmptyCell(t *testing.T) {
	rows := []CandidateRow{
		{Original: RawRow{"nom": "Abik"}, Status: StatusNotFound},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteCSV(&buffer, rows, []string{"nom", "prenom"}))

	parsed, err := csv.NewReader(bytes.NewReader(buffer.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", parsed[1][1])
}
