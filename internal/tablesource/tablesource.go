// Copyright (c) 2026 ScholarLink. All rights reserved.

// Package tablesource reads candidate researcher rows out of external
// relational databases.
//
// Each configured source (the 'database_configs' table) points at a table of
// name pairs somewhere in the institution's infrastructure. Batch resolution
// pulls its input rows through this package instead of requiring uploads.
package tablesource

import (
	"context"
	"time"
)

// SourceDatabase describes one external database batch resolution can read.
// The password is write-only: it never appears in API responses.
type SourceDatabase struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"database_name"`
	Username     string `json:"username"`
	Password     string `json:"-"`
	TableName    string `json:"table_name"`
	ColumnNom    string `json:"column_nom"`
	ColumnPrenom string `json:"column_prenom"`

	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	ListDatabases(context context.Context) ([]*SourceDatabase, error)
	GetDatabase(context context.Context, id int) (*SourceDatabase, error)
}
