// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/postgres"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the lost and found Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusLostFound

var selectItem = fmt.Sprintf(`SELECT %s, %s FROM %s l LEFT JOIN %s a ON a.%s = l.%s`,
	schema.Join("l", table.Columns()...),
	account.Columns("a"),
	table.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, table.PostedBy,
)

func scanItem(row pgx.Row, extra ...any) (*Item, error) {
	var item Item
	var dateLostOrFound *time.Time
	var poster account.NullableSummary

	targets := []any{
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Type,
		&item.Category,
		&item.Location,
		&item.Photos,
		&dateLostOrFound,
		&item.ContactInfo,
		&item.CollectionInfo,
		&item.IsAnonymous,
		&item.Status,
		&item.RelatedItem,
		&item.PostedByID,
		&item.StatusUpdatedAt,
		&item.ExpiresAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	}
	targets = append(targets, poster.Targets()...)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if dateLostOrFound != nil {
		item.DateLostOrFound = *dateLostOrFound
	}
	if item.Photos == nil {
		item.Photos = []string{}
	}
	item.PostedBy = poster.Summary()
	return &item, nil
}

// Create persists a new item.
func (repository *PostgresRepository) Create(ctx context.Context, item *Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Title, table.Description, table.Type, table.Category, table.Location,
		table.Photos, table.DateLostOrFound, table.ContactInfo, table.CollectionInfo,
		table.IsAnonymous, table.Status, table.PostedBy, table.StatusUpdatedAt, table.ExpiresAt,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		item.ID, item.Title, item.Description, item.Type, item.Category, item.Location,
		item.Photos, item.DateLostOrFound, item.ContactInfo, item.CollectionInfo,
		item.IsAnonymous, item.Status, item.PostedByID, item.StatusUpdatedAt, item.ExpiresAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_lostfound")
	}

	return nil
}

// FindByID returns one item with its poster.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	return findByID(ctx, repository.pool, id, "")
}

// findByID reads an item through q, optionally appending a locking clause.
func findByID(ctx context.Context, q postgres.Querier, id, lock string) (*Item, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Lost/Found item")
	}

	query := fmt.Sprintf(`%s WHERE l.%s = $1 %s`, selectItem, table.ID, lock)

	item, err := scanItem(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Lost/Found item")
		}
		return nil, dberr.Wrap(err, "find_lostfound")
	}

	return item, nil
}

// ListActive returns open, unexpired items, newest first.
func (repository *PostgresRepository) ListActive(ctx context.Context, filter Filter, now time.Time, page pagination.Params) ([]*Item, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*) OVER()
		FROM %s l LEFT JOIN %s a ON a.%s = l.%s
		WHERE l.%s NOT IN ($1, $2)
		  AND l.%s >= $3
		  AND ($4 = '' OR l.%s = $4)
		  AND ($5 = '' OR l.%s = $5)
		ORDER BY l.%s DESC
		LIMIT $6 OFFSET $7`,
		schema.Join("l", table.Columns()...), account.Columns("a"),
		table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.PostedBy,
		table.Status,
		table.ExpiresAt,
		table.Type,
		table.Category,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query,
		StatusArchived, StatusExpired, now, filter.Type, filter.Category, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_lostfound")
	}
	defer rows.Close()

	var items []*Item
	var total int
	for rows.Next() {
		item, err := scanItem(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_lostfound")
		}
		items = append(items, item)
	}

	return items, total, dberr.Wrap(rows.Err(), "list_lostfound_rows")
}

// UpdateStatus writes the new status only while the stored status is still change.From.
func (repository *PostgresRepository) UpdateStatus(ctx context.Context, change transition.Change, relatedItem *string) (*Item, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3,
		    %s = COALESCE($4::uuid, %s),
		    %s = $5,
		    %s = NOW()
		WHERE %s = $1 AND %s = $2`,
		table.Table,
		table.Status,
		table.RelatedItem, table.RelatedItem,
		table.StatusUpdatedAt,
		table.UpdatedAt,
		table.ID, table.Status,
	)

	tag, err := repository.pool.Exec(ctx, query, change.ID, change.From, change.To, relatedItem, change.At)
	if err != nil {
		return nil, dberr.Wrap(err, "update_lostfound_status")
	}
	if tag.RowsAffected() == 0 {
		return nil, transition.Stale("Lost/Found item")
	}

	return repository.FindByID(ctx, change.ID)
}

// Match locks both items, runs check and archives them as a linked pair.
func (repository *PostgresRepository) Match(ctx context.Context, lostID, foundID string, at time.Time, check MatchCheck) (*Item, *Item, error) {
	var lost, found *Item

	err := postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		const lock = "FOR UPDATE OF l"

		var err error
		if lost, err = findByID(ctx, tx, lostID, lock); err != nil {
			return err
		}
		if found, err = findByID(ctx, tx, foundID, lock); err != nil {
			return err
		}

		if err := check(lost, found); err != nil {
			return err
		}

		link := fmt.Sprintf(`
			UPDATE %s
			SET %s = $2, %s = $3, %s = $4, %s = NOW()
			WHERE %s = $1`,
			table.Table,
			table.RelatedItem, table.Status, table.StatusUpdatedAt, table.UpdatedAt,
			table.ID,
		)

		batch := &pgx.Batch{}
		batch.Queue(link, lostID, foundID, StatusArchived, at)
		batch.Queue(link, foundID, lostID, StatusArchived, at)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return dberr.Wrap(err, "match_lostfound")
		}

		if lost, err = findByID(ctx, tx, lostID, ""); err != nil {
			return err
		}
		found, err = findByID(ctx, tx, foundID, "")
		return err
	})
	if err != nil {
		return nil, nil, dberr.Wrap(err, "match_lostfound_tx")
	}

	return lost, found, nil
}

// Delete removes an item permanently.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_lostfound")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Lost/Found item")
	}

	return nil
}

// ExpireOverdue moves every open item past its expiry to expired.
func (repository *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = ANY($3) AND %s < $2`,
		table.Table,
		table.Status, table.StatusUpdatedAt, table.UpdatedAt,
		table.Status, table.ExpiresAt,
	)

	tag, err := repository.pool.Exec(ctx, query, StatusExpired, now, expirable)
	if err != nil {
		return 0, dberr.Wrap(err, "expire_lostfound")
	}

	return tag.RowsAffected(), nil
}
