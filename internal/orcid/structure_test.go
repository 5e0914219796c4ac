// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRecord builds a registry record with employments, educations and
// person keywords.
func sampleRecord(t *testing.T) *Record {
	t.Helper()

	raw := `{
		"orcid-identifier": {"path": "0000-0002-1825-0097"},
		"person": {
			"name": {"given-names": {"value": "Mounia"}, "family-name": {"value": "Abik"}},
			"keywords": {"keyword": [{"content": "e-learning"}, {"content": "NLP"}]},
			"external-identifiers": {"external-identifier": [
				{"external-id-type": "Scopus Author ID", "external-id-value": "12345", "external-id-url": {"value": "https://www.scopus.com/authid/12345"}}
			]}
		},
		"activities-summary": {
			"employments": {"affiliation-group": [
				{"summaries": [{"employment-summary": {"organization": {"name": "ENSIAS"}, "department-name": "Computer Science"}}]},
				{"summaries": [{"employment-summary": {"organization": {"name": "ENSIAS"}, "department-name": "Computer Science"}}]}
			]},
			"educations": {"affiliation-group": [
				{"summaries": [{"education-summary": {"organization": {"name": "Mohammed V University"}, "department-name": ""}}]}
			]},
			"invited-positions": {"affiliation-group": []}
		}
	}`

	record := &Record{}
	require.NoError(t, json.Unmarshal([]byte(raw), record))
	return record
}

func sampleWorks(t *testing.T) *Works {
	t.Helper()

	raw := `{"group": [
		{"work-summary": [{"title": {"title": {"value": "Deep Learning for Arabic Natural Language Processing"}}}]},
		{"work-summary": [{"title": {"title": {"value": "A Blockchain Framework for Credential Verification"}}}]},
		{"work-summary": [{"title": {"title": {"value": "Adaptive E-Learning Platform Evaluation"}}}]}
	]}`

	works := &Works{}
	require.NoError(t, json.Unmarshal([]byte(raw), works))
	return works
}

func TestStructureProfile_FromRegistry(t *testing.T) {
	profile := StructureProfile(ProfilePayload{
		OrcidID: "0000-0002-1825-0097",
		Record:  sampleRecord(t),
		Works:   sampleWorks(t),
	})

	// Affiliations deduplicated, order preserved, department appended.
	assert.Equal(t, []string{
		"ENSIAS - Computer Science",
		"Mohammed V University",
	}, profile.Affiliations)

	// Person keywords come first, then vocabulary matches from titles.
	assert.Contains(t, profile.Keywords, "e-learning")
	assert.Contains(t, profile.Keywords, "deep learning")
	assert.Contains(t, profile.Keywords, "natural language processing")
	assert.Contains(t, profile.Keywords, "blockchain")
	assert.LessOrEqual(t, len(profile.Keywords), 15)

	assert.Contains(t, profile.ResearchFields, "Artificial Intelligence & Machine Learning")
	assert.Contains(t, profile.ResearchFields, "Computer Networks & Security")

	assert.Len(t, profile.WorkTitles, 3)
	assert.Equal(t, 3, profile.TotalWorks)

	require.Len(t, profile.ExternalIDs, 1)
	assert.Equal(t, "Scopus Author ID", profile.ExternalIDs[0].Type)
}

func TestStructureProfile_EmptyRecordGetsPlaceholders(t *testing.T) {
	profile := StructureProfile(ProfilePayload{
		OrcidID: "0000-0002-1825-0097",
		Record:  &Record{},
	})

	assert.Equal(t, []string{PlaceholderNoAffiliations}, profile.Affiliations)
	assert.Equal(t, []string{PlaceholderNoFields}, profile.ResearchFields)
	assert.Equal(t, []string{PlaceholderNoKeywords}, profile.Keywords)
	assert.Empty(t, profile.WorkTitles)
}

func TestStructureProfile_PassthroughNeverRederived(t *testing.T) {
	already := &Profile{
		OrcidID:      "0000-0002-1825-0097",
		Affiliations: []string{"Custom Affiliation"},
		Keywords:     []string{"custom"},
	}

	profile := StructureProfile(ProfilePayload{
		OrcidID:    "0000-0002-1825-0097",
		Structured: already,
		Record:     sampleRecord(t),
	})

	assert.Equal(t, *already, profile, "structured upstream data passes through unchanged")
}

func TestStructureProfile_WorksLimitCapsScanning(t *testing.T) {
	profile := StructureProfile(ProfilePayload{
		OrcidID:    "0000-0002-1825-0097",
		Record:     &Record{},
		Works:      sampleWorks(t),
		WorksLimit: 1,
	})

	assert.Len(t, profile.WorkTitles, 1)
	assert.Equal(t, 3, profile.TotalWorks, "total counts all groups regardless of limit")
}

func TestTextStructurer_SectionStateMachine(t *testing.T) {
	text := `Profile for researcher

Employment
ENSIAS, Rabat
Mohammed V University

Education
Faculte des Sciences de Rabat

Research interests
machine learning applied to education
`

	profile := textStructurer{}.Structure(ProfilePayload{RawText: text})

	assert.Contains(t, profile.Affiliations, "ENSIAS, Rabat")
	assert.Contains(t, profile.Affiliations, "Mohammed V University")
	assert.Contains(t, profile.Affiliations, "Faculte des Sciences de Rabat")
	assert.Contains(t, profile.Keywords, "machine learning")
	assert.Contains(t, profile.ResearchFields, "Artificial Intelligence & Machine Learning")
}

func TestTextStructurer_EmptyTextGetsPlaceholders(t *testing.T) {
	profile := textStructurer{}.Structure(ProfilePayload{RawText: ""})

	assert.Equal(t, []string{PlaceholderNoAffiliations}, profile.Affiliations)
	assert.Equal(t, []string{PlaceholderNoKeywords}, profile.Keywords)
}
