// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"regexp"
	"strings"
)

// maximum facet sizes carried into a structured profile.
const (
	maxKeywords   = 15
	maxWorkTitles = 5
)

// ProfilePayload is the input to structuring: whatever was obtained for a
// researcher, typed registry data when available, free text when not.
type ProfilePayload struct {
	OrcidID string

	// Record and Works hold typed registry data (primary path).
	Record *Record
	Works  *Works

	// WorksLimit caps how many work groups are scanned for keywords.
	WorksLimit int

	// Structured carries an already-structured profile from upstream. When
	// present it is passed through unchanged, never re-derived.
	Structured *Profile

	// RawText is unstructured profile text for the degraded fallback.
	RawText string
}

// Structurer turns a profile payload into typed facets. Two implementations
// exist: typed registry extraction and a lossy text fallback.
type Structurer interface {
	Structure(payload ProfilePayload) Profile
}

// StructureProfile dispatches to the right structurer for the payload.
func StructureProfile(payload ProfilePayload) Profile {
	if payload.Structured != nil {
		return *payload.Structured
	}
	if payload.Record != nil {
		return registryStructurer{}.Structure(payload)
	}
	return textStructurer{}.Structure(payload)
}

// # Registry Structuring (primary)

// registryStructurer extracts facets from typed registry payloads.
type registryStructurer struct{}

// defaultWorksLimit bounds keyword scanning when the caller does not say.
const defaultWorksLimit = 10

// Structure extracts affiliations from employments, educations and invited
// positions (deduplicated, order preserved), keywords from the person
// section and work titles, and derives research fields from the keyword
// vocabulary. Empty facets get explicit placeholder strings.
func (registryStructurer) Structure(payload ProfilePayload) Profile {
	record := payload.Record

	var affiliations []string
	seen := map[string]bool{}
	appendSection := func(section AffiliationSection) {
		for _, group := range section.AffiliationGroup {
			for _, item := range group.Summaries {
				summary := item.Summary()
				if summary == nil || summary.Organization.Name == "" {
					continue
				}
				text := summary.Organization.Name
				if summary.DepartmentName != "" {
					text += " - " + summary.DepartmentName
				}
				if !seen[text] {
					seen[text] = true
					affiliations = append(affiliations, text)
				}
			}
		}
	}
	appendSection(record.ActivitiesSummary.Employments)
	appendSection(record.ActivitiesSummary.Educations)
	appendSection(record.ActivitiesSummary.InvitedPositions)

	var profileKeywords []string
	for _, keyword := range record.Person.Keywords.Keyword {
		if keyword.Content != "" {
			profileKeywords = append(profileKeywords, keyword.Content)
		}
	}

	worksLimit := payload.WorksLimit
	if worksLimit <= 0 {
		worksLimit = defaultWorksLimit
	}

	var workTitles []string
	var titleKeywords []string
	totalWorks := 0
	if payload.Works != nil {
		totalWorks = len(payload.Works.Group)
		groups := payload.Works.Group
		if len(groups) > worksLimit {
			groups = groups[:worksLimit]
		}
		for _, group := range groups {
			for _, summary := range group.WorkSummary {
				title := summary.Title.Title.Value
				if title == "" {
					continue
				}
				workTitles = append(workTitles, title)
				titleKeywords = appendVocabularyMatches(titleKeywords, title)
			}
		}
	}

	var externalIDs []ExternalID
	for _, identifier := range record.Person.ExternalIdentifiers.ExternalIdentifier {
		if identifier.Type == "" || identifier.Value == "" {
			continue
		}
		externalIDs = append(externalIDs, ExternalID{
			Type:  identifier.Type,
			Value: identifier.Value,
			URL:   identifier.URL.Value,
		})
	}

	keywords := dedupePreserveOrder(append(profileKeywords, titleKeywords...))
	fields := fieldsForKeywords(titleKeywords)

	return finishProfile(Profile{
		OrcidID:        payload.OrcidID,
		Affiliations:   affiliations,
		ResearchFields: fields,
		Keywords:       keywords,
		WorkTitles:     workTitles,
		TotalWorks:     totalWorks,
		ExternalIDs:    externalIDs,
	})
}

// # Text Structuring (degraded fallback)

// textStructurer recovers what it can from unstructured profile text. It is
// a lossy best-effort used only when no typed registry data exists, and its
// output is never treated as authoritative.
type textStructurer struct{}

// orgLine matches lines that plausibly name an organization: capitalized
// start, reasonable length, no sentence punctuation at the end.
var orgLine = regexp.MustCompile(`^[A-ZÀ-Þ][\pL\d&'’.,() -]{2,120}$`)

// Structure walks the text line by line tracking which profile section the
// cursor is in. Section headers switch state; content lines inside the
// employment and education sections are collected as affiliations.
func (textStructurer) Structure(payload ProfilePayload) Profile {
	const (
		sectionNone = iota
		sectionEmployment
		sectionEducation
	)

	state := sectionNone
	var affiliations []string
	var keywords []string

	for _, line := range strings.Split(payload.RawText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		lower := strings.ToLower(trimmed)
		switch {
		case strings.Contains(lower, "employment") || strings.Contains(lower, "affiliation") || strings.Contains(lower, "work experience"):
			state = sectionEmployment
			continue
		case strings.Contains(lower, "education") || strings.Contains(lower, "qualification"):
			state = sectionEducation
			continue
		case strings.Contains(lower, "research") || strings.Contains(lower, "publication"):
			// Structured extraction of free-text research sections is too
			// unreliable; only the vocabulary scan below applies.
			state = sectionNone
		}

		if state != sectionNone && orgLine.MatchString(trimmed) {
			affiliations = append(affiliations, trimmed)
		}

		keywords = appendVocabularyMatches(keywords, trimmed)
	}

	return finishProfile(Profile{
		OrcidID:        payload.OrcidID,
		Affiliations:   dedupePreserveOrder(affiliations),
		ResearchFields: fieldsForKeywords(keywords),
		Keywords:       keywords,
	})
}

// # Keyword Vocabulary

// researchVocabulary is the domain term list scanned against titles and free
// text (case-insensitive substring match). Multi-word terms are matched
// before their substrings appear alone.
var researchVocabulary = []string{
	"machine learning", "deep learning", "artificial intelligence", "neural network",
	"computer vision", "natural language processing", "data mining", "big data",
	"blockchain", "cybersecurity", "cloud computing", "internet of things", "iot",
	"microservices", "nosql", "database", "systematic review", "modeling",
	"optimization", "algorithm", "simulation", "analysis", "detection",
	"classification", "prediction", "framework", "architecture", "system",
	"network", "software", "application", "platform", "infodemic", "epidemic",
	"participatory", "stakeholder", "3d", "pose estimation", "human pose",
	"reinforcement learning", "transfer learning", "federated learning",
	"generative model", "transformer", "large language model", "knowledge graph",
	"semantic web", "ontology", "information retrieval", "recommender system",
	"sentiment analysis", "speech recognition", "image processing", "signal processing",
	"edge computing", "distributed system", "parallel computing", "high performance computing",
	"cryptography", "privacy", "authentication", "intrusion detection",
	"wireless network", "5g", "sensor network", "embedded system",
	"robotics", "autonomous", "control system", "computational",
	"bioinformatics", "genomics", "public health", "e-health", "telemedicine",
	"remote sensing", "geographic information", "smart city", "smart grid",
	"renewable energy", "sustainability", "supply chain", "decision support",
	"data visualization", "human-computer interaction", "augmented reality", "virtual reality",
}

// researchFieldGroups maps broad research fields to the vocabulary terms
// that indicate them.
var researchFieldGroups = []struct {
	Field string
	Terms []string
}{
	{
		Field: "Artificial Intelligence & Machine Learning",
		Terms: []string{
			"machine learning", "deep learning", "artificial intelligence", "neural network",
			"computer vision", "natural language processing", "pose estimation",
			"reinforcement learning", "transfer learning", "federated learning",
			"generative model", "transformer", "large language model",
		},
	},
	{
		Field: "Data Science & Analytics",
		Terms: []string{
			"data mining", "big data", "systematic review", "analysis", "detection",
			"classification", "prediction", "modeling", "data visualization",
			"sentiment analysis", "recommender system",
		},
	},
	{
		Field: "Software Engineering & Systems",
		Terms: []string{
			"microservices", "software", "application", "platform", "architecture",
			"system", "framework", "participatory", "stakeholder", "distributed system",
			"embedded system",
		},
	},
	{
		Field: "Database & Information Systems",
		Terms: []string{
			"nosql", "database", "cloud computing", "information retrieval",
			"knowledge graph", "semantic web", "ontology",
		},
	},
	{
		Field: "Computer Networks & Security",
		Terms: []string{
			"network", "cybersecurity", "blockchain", "iot", "internet of things",
			"cryptography", "privacy", "authentication", "intrusion detection",
			"wireless network", "5g", "sensor network", "edge computing",
		},
	},
	{
		Field: "Health Informatics & Public Health",
		Terms: []string{
			"infodemic", "epidemic", "public health", "e-health", "telemedicine",
			"bioinformatics", "genomics",
		},
	},
}

// appendVocabularyMatches scans text for vocabulary terms and appends any
// new matches.
func appendVocabularyMatches(keywords []string, text string) []string {
	lower := strings.ToLower(text)
	for _, term := range researchVocabulary {
		if strings.Contains(lower, term) && !containsString(keywords, term) {
			keywords = append(keywords, term)
		}
	}
	return keywords
}

// fieldsForKeywords groups matched vocabulary terms into broad fields.
func fieldsForKeywords(keywords []string) []string {
	var fields []string
	for _, group := range researchFieldGroups {
		for _, term := range group.Terms {
			if containsString(keywords, term) {
				fields = append(fields, group.Field)
				break
			}
		}
	}
	return fields
}

// finishProfile applies caps and placeholder strings.
func finishProfile(profile Profile) Profile {
	if len(profile.Keywords) > maxKeywords {
		profile.Keywords = profile.Keywords[:maxKeywords]
	}
	if len(profile.WorkTitles) > maxWorkTitles {
		profile.WorkTitles = profile.WorkTitles[:maxWorkTitles]
	}

	if len(profile.Affiliations) == 0 {
		profile.Affiliations = []string{PlaceholderNoAffiliations}
	}
	if len(profile.ResearchFields) == 0 {
		profile.ResearchFields = []string{PlaceholderNoFields}
	}
	if len(profile.Keywords) == 0 {
		profile.Keywords = []string{PlaceholderNoKeywords}
	}

	return profile
}

// dedupePreserveOrder removes duplicates, keeping first occurrences.
func dedupePreserveOrder(values []string) []string {
	seen := map[string]bool{}
	var result []string
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			result = append(result, value)
		}
	}
	return result
}

// containsString reports membership in a small slice.
func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
