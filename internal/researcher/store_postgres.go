// Copyright (c) 2026 ScholarLink. All rights reserved.

package researcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hbadaoui/scholarlink/internal/platform/database/schema"
	"github.com/hbadaoui/scholarlink/internal/platform/dberr"
	"github.com/hbadaoui/scholarlink/pkg/uuidv7"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListResearchers(context context.Context, search string, limit, offset int) ([]*Researcher, int, error) {
	t := schema.Chercheurs

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
	`,
		t.ID, t.Nom, t.Prenom, t.Affiliation, t.OrcidID,
		t.DomainesRecherche, t.MotsClesSpecifiques, t.CreatedAt, t.UpdatedAt,
		t.Table,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, t.Table)

	args := []any{}
	countArgs := []any{}

	if search != "" {
		searchTerm := "%" + search + "%"
		clause := fmt.Sprintf(` WHERE (%s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1 OR %s ILIKE $1)`,
			t.Nom, t.Prenom, t.Affiliation, t.OrcidID, t.DomainesRecherche, t.MotsClesSpecifiques,
		)
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(" ORDER BY %s, %s LIMIT $%d OFFSET $%d", t.Nom, t.Prenom, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_researchers")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_researchers")
	}
	defer rows.Close()

	var researchers []*Researcher
	for rows.Next() {
		r := &Researcher{}
		var domains, keywords *string
		if err := rows.Scan(&r.ID, &r.Nom, &r.Prenom, &r.Affiliation, &r.OrcidID, &domains, &keywords, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_researcher")
		}
		r.DomainesRecherche = splitList(domains)
		r.MotsClesSpecifiques = splitList(keywords)
		researchers = append(researchers, r)
	}

	return researchers, total, nil
}

func (repository *PostgresRepository) GetByOrcid(context context.Context, orcidID string) (*Researcher, error) {
	t := schema.Chercheurs

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		t.ID, t.Nom, t.Prenom, t.Affiliation, t.OrcidID,
		t.DomainesRecherche, t.MotsClesSpecifiques, t.CreatedAt, t.UpdatedAt,
		t.Table, t.OrcidID,
	)

	r := &Researcher{}
	var domains, keywords *string

	err := repository.db.QueryRow(context, query, orcidID).Scan(
		&r.ID, &r.Nom, &r.Prenom, &r.Affiliation, &r.OrcidID, &domains, &keywords, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_researcher_by_orcid")
	}

	r.DomainesRecherche = splitList(domains)
	r.MotsClesSpecifiques = splitList(keywords)
	return r, nil
}

func (repository *PostgresRepository) CreateResearcher(context context.Context, r *Researcher) error {
	t := schema.Chercheurs

	if r.ID == "" {
		r.ID = uuidv7.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.Nom, t.Prenom, t.Affiliation, t.OrcidID,
		t.DomainesRecherche, t.MotsClesSpecifiques, t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Nom, r.Prenom, r.Affiliation, r.OrcidID,
		joinList(r.DomainesRecherche), joinList(r.MotsClesSpecifiques),
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_researcher")
}

func (repository *PostgresRepository) UpdateResearcher(context context.Context, r *Researcher) error {
	t := schema.Chercheurs

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		t.Table, t.Nom, t.Prenom, t.Affiliation, t.DomainesRecherche, t.MotsClesSpecifiques, t.UpdatedAt,
		t.ID, t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Nom, r.Prenom, r.Affiliation,
		joinList(r.DomainesRecherche), joinList(r.MotsClesSpecifiques),
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "update_researcher")
}

func (repository *PostgresRepository) DeleteResearcher(context context.Context, id string) error {
	t := schema.Chercheurs

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_researcher")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// joinList flattens a list for the comma-joined text columns the legacy
// datasets expect.
func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func splitList(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(*raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
