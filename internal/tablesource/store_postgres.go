// Copyright (c) 2026 ScholarLink. All rights reserved.

package tablesource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hbadaoui/scholarlink/internal/platform/database/schema"
	"github.com/hbadaoui/scholarlink/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListDatabases(context context.Context) ([]*SourceDatabase, error) {
	t := schema.DatabaseConfigs

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s
	`,
		t.ID, t.Name, t.Host, t.Port, t.DatabaseName, t.Username, t.Password,
		t.TableName, t.ColumnNom, t.ColumnPrenom, t.CreatedAt,
		t.Table, t.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_source_databases")
	}
	defer rows.Close()

	var databases []*SourceDatabase
	for rows.Next() {
		d := &SourceDatabase{}
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Host, &d.Port, &d.DatabaseName, &d.Username, &d.Password,
			&d.TableName, &d.ColumnNom, &d.ColumnPrenom, &d.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_source_database")
		}
		databases = append(databases, d)
	}

	return databases, nil
}

func (repository *PostgresRepository) GetDatabase(context context.Context, id int) (*SourceDatabase, error) {
	t := schema.DatabaseConfigs

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		t.ID, t.Name, t.Host, t.Port, t.DatabaseName, t.Username, t.Password,
		t.TableName, t.ColumnNom, t.ColumnPrenom, t.CreatedAt,
		t.Table, t.ID,
	)

	d := &SourceDatabase{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&d.ID, &d.Name, &d.Host, &d.Port, &d.DatabaseName, &d.Username, &d.Password,
		&d.TableName, &d.ColumnNom, &d.ColumnPrenom, &d.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_source_database")
	}

	return d, nil
}
