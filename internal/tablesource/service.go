// Copyright (c) 2026 ScholarLink. All rights reserved.

package tablesource

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hbadaoui/scholarlink/internal/orcid"
	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/internal/platform/validate"
)

const (
	defaultRowLimit = 1000
	maxRowLimit     = 10000
)

// queryConn is the slice of *pgx.Conn the service needs. Tests substitute a
// fake connection.
type queryConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger

	// connect opens a connection to an external source. Tests replace it.
	connect func(ctx context.Context, dsn string) (queryConn, error)
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		connect: func(ctx context.Context, dsn string) (queryConn, error) {
			return pgx.Connect(ctx, dsn)
		},
	}
}

// ListDatabases returns the configured source databases. Passwords stay
// server-side.
func (service *Service) ListDatabases(context context.Context) ([]*SourceDatabase, error) {
	return service.repo.ListDatabases(context)
}

// FetchRows reads up to limit rows of the selected columns from a configured
// source table.
//
// Table and column names are interpolated as quoted identifiers, never as
// parameters, since SQL cannot parameterize identifiers. Sanitizing through
// pgx keeps hostile names from escaping the quoting.
func (service *Service) FetchRows(ctx context.Context, dbID int, tableName string, columns []string, limit int) ([]orcid.RawRow, error) {
	validator := &validate.Validator{}
	err := validator.
		Custom("db_id", dbID <= 0, "Must be a positive database ID").
		Required("table_name", tableName).
		Custom("columns", len(columns) == 0, "At least one column is required").
		Err()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultRowLimit
	}
	if limit > maxRowLimit {
		limit = maxRowLimit
	}

	source, err := service.repo.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}

	conn, err := service.connect(ctx, buildDSN(source))
	if err != nil {
		service.logger.ErrorContext(ctx, "source_database_unreachable",
			slog.String("source", source.Name),
			slog.String("host", source.Host),
			slog.Any("error", err),
		)
		return nil, apperr.Provider("Source database "+source.Name, err)
	}
	defer func() { _ = conn.Close(ctx) }()

	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = pgx.Identifier{column}.Sanitize()
	}

	query := fmt.Sprintf("SELECT %s FROM %s LIMIT $1",
		strings.Join(quoted, ", "),
		pgx.Identifier{tableName}.Sanitize(),
	)

	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, apperr.Provider("Source database "+source.Name, err)
	}
	defer rows.Close()

	var result []orcid.RawRow
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, apperr.Provider("Source database "+source.Name, err)
		}

		row := orcid.RawRow{}
		for i, column := range columns {
			if i < len(values) {
				row[column] = cellString(values[i])
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Provider("Source database "+source.Name, err)
	}

	service.logger.InfoContext(ctx, "source_rows_fetched",
		slog.String("source", source.Name),
		slog.String("table", tableName),
		slog.Int("rows", len(result)),
	)
	return result, nil
}

// buildDSN assembles a postgres connection URL, escaping credentials.
func buildDSN(source *SourceDatabase) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(source.Username, source.Password),
		Host:   net.JoinHostPort(source.Host, strconv.Itoa(source.Port)),
		Path:   "/" + source.DatabaseName,
	}
	return u.String()
}

// cellString renders one source cell as text. Candidate rows travel as raw
// strings so non-text source columns are stringified.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
