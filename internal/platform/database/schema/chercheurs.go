package schema

// ChercheursTable represents the 'chercheurs' table.
//
// Column names are kept in French to stay wire-compatible with the
// institutional datasets this service ingests and exports.
type ChercheursTable struct {
	Table               string
	ID                  string
	Nom                 string
	Prenom              string
	Affiliation         string
	OrcidID             string
	DomainesRecherche   string
	MotsClesSpecifiques string
	CreatedAt           string
	UpdatedAt           string
}

// Chercheurs is the schema definition for the researcher table.
var Chercheurs = ChercheursTable{
	Table:               "chercheurs",
	ID:                  "id",
	Nom:                 "nom",
	Prenom:              "prenom",
	Affiliation:         "affiliation",
	OrcidID:             "orcid_id",
	DomainesRecherche:   "domaines_recherche",
	MotsClesSpecifiques: "mots_cles_specifiques",
	CreatedAt:           "created_at",
	UpdatedAt:           "updated_at",
}

func (t ChercheursTable) Columns() []string {
	return []string{t.ID, t.Nom, t.Prenom, t.Affiliation, t.OrcidID, t.DomainesRecherche, t.MotsClesSpecifiques, t.CreatedAt, t.UpdatedAt}
}
