// Copyright (c) 2026 ScholarLink. All rights reserved.

package apikey

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hbadaoui/scholarlink/internal/platform/database/schema"
	"github.com/hbadaoui/scholarlink/internal/platform/dberr"
)

// singletonRowID pins the table to exactly one row.
const singletonRowID = 1

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetKeys(context context.Context) (Keys, error) {
	t := schema.ClesAPI

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		t.CleOpenAI, t.CleGemini, t.CleDeepSeek, t.UpdatedAt,
		t.Table, t.ID,
	)

	keys := Keys{}
	err := repository.db.QueryRow(context, query, singletonRowID).Scan(
		&keys.CleOpenAI, &keys.CleGemini, &keys.CleDeepSeek, &keys.UpdatedAt,
	)
	if err != nil {
		// No stored row yet is a normal state, not an error.
		if errors.Is(err, pgx.ErrNoRows) {
			return Keys{}, nil
		}
		return Keys{}, dberr.Wrap(err, "get_api_keys")
	}

	return keys, nil
}

func (repository *PostgresRepository) UpsertKeys(context context.Context, keys Keys) (Keys, error) {
	t := schema.ClesAPI

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		RETURNING %s, %s, %s, %s
	`,
		t.Table, t.ID, t.CleOpenAI, t.CleGemini, t.CleDeepSeek, t.UpdatedAt,
		t.ID,
		t.CleOpenAI, t.CleGemini, t.CleDeepSeek, t.UpdatedAt,
		t.CleOpenAI, t.CleGemini, t.CleDeepSeek, t.UpdatedAt,
	)

	stored := Keys{}
	err := repository.db.QueryRow(context, query,
		singletonRowID, keys.CleOpenAI, keys.CleGemini, keys.CleDeepSeek,
	).Scan(&stored.CleOpenAI, &stored.CleGemini, &stored.CleDeepSeek, &stored.UpdatedAt)
	if err != nil {
		return Keys{}, dberr.Wrap(err, "upsert_api_keys")
	}

	return stored, nil
}
