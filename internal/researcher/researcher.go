// Copyright (c) 2026 ScholarLink. All rights reserved.

// Package researcher persists confirmed researcher identities.
//
// Records land in the 'chercheurs' table once an ORCID iD has been confirmed
// against the registry. Column names stay French to remain compatible with
// the institutional datasets this table is exported back into.
package researcher

import "time"

// Researcher is a confirmed researcher identity.
type Researcher struct {
	ID                  string   `json:"id"`
	Nom                 string   `json:"nom"`
	Prenom              string   `json:"prenom"`
	Affiliation         string   `json:"affiliation"`
	OrcidID             *string  `json:"orcid_id"`
	DomainesRecherche   []string `json:"domaines_recherche"`
	MotsClesSpecifiques []string `json:"mots_cles_specifiques"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxAffiliationLen bounds the affiliation column; longer values are
// truncated rather than rejected, since source spreadsheets routinely carry
// full institutional addresses.
const MaxAffiliationLen = 255

// Field names for validation details.
const (
	FieldNom     = "nom"
	FieldPrenom  = "prenom"
	FieldOrcidID = "orcid_id"
)

// DuplicateEntry pairs a submitted researcher with the stored record holding
// the same ORCID iD.
type DuplicateEntry struct {
	Submitted Researcher  `json:"submitted"`
	Existing  *Researcher `json:"existing"`
}

// FailedEntry records a row that could not be saved.
type FailedEntry struct {
	Submitted Researcher `json:"submitted"`
	Reason    string     `json:"reason"`
}

// BulkReport summarizes a bulk save.
type BulkReport struct {
	SavedCount     int              `json:"saved_count"`
	DuplicateCount int              `json:"duplicate_count"`
	FailedCount    int              `json:"failed_count"`
	Chercheurs     []*Researcher    `json:"chercheurs"`
	Duplicates     []DuplicateEntry `json:"duplicates"`
	Failed         []FailedEntry    `json:"failed"`
}
