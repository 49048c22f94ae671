// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
)

// PostgresRepository resolves public user summaries.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL summary lookup.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByUniID returns the summary of the user holding a university id.

Returns:
  - *Summary: The public view of the user
  - error: apperr.NotFound when no user holds uniID
*/
func (repository *PostgresRepository) FindByUniID(ctx context.Context, uniID string) (*Summary, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		Columns(""), schema.UserAccount.Table, schema.UserAccount.UniID)

	var scanned NullableSummary
	if err := repository.pool.QueryRow(ctx, query, uniID).Scan(scanned.Targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User with this University ID")
		}
		return nil, dberr.Wrap(err, "find_summary_by_uniid")
	}

	return scanned.Summary(), nil
}
