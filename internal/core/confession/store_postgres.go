// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package confession

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/postgres"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/slice"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the confession Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusConfession

var thread = social.Thread{
	LikeTable:  schema.CampusConfessionLike.Table,
	ReplyTable: schema.CampusConfessionReply.Table,
	Parent:     schema.CampusConfessionLike.ConfessionID,
}

// selectConfession expects the viewer id as $1.
var selectConfession = fmt.Sprintf(`SELECT %s, %s FROM %s c`,
	schema.Join("c", table.Columns()...), thread.LikeColumns("c", "$1"), table.Table)

func scanConfession(row pgx.Row, extra ...any) (*Confession, error) {
	var confession Confession

	targets := []any{
		&confession.ID,
		&confession.Message,
		&confession.PostedByID,
		&confession.IsReported,
		&confession.IsDeleted,
		&confession.CreatedAt,
		&confession.UpdatedAt,
		&confession.LikeCount,
		&confession.LikedByMe,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	confession.Replies = []social.Reply{}
	return &confession, nil
}

func (repository *PostgresRepository) attachReplies(ctx context.Context, confessions ...*Confession) error {
	ids := slice.Map(confessions, func(confession *Confession) string { return confession.ID })

	replies, err := thread.Replies(ctx, repository.pool, ids)
	if err != nil {
		return err
	}

	for _, confession := range confessions {
		if found, ok := replies[confession.ID]; ok {
			confession.Replies = found
		}
	}
	return nil
}

func (repository *PostgresRepository) Create(ctx context.Context, confession *Confession) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Message, table.PostedBy,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		confession.ID, confession.Message, confession.PostedByID,
	).Scan(&confession.CreatedAt, &confession.UpdatedAt)

	return dberr.Wrap(err, "create_confession")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id, viewerID string) (*Confession, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Confession")
	}

	query := fmt.Sprintf(`%s WHERE c.%s = $2`, selectConfession, table.ID)

	confession, err := scanConfession(repository.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Confession")
		}
		return nil, dberr.Wrap(err, "find_confession")
	}

	if err := repository.attachReplies(ctx, confession); err != nil {
		return nil, err
	}
	return confession, nil
}

func (repository *PostgresRepository) List(ctx context.Context, viewerID string, page pagination.Params) ([]*Confession, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*) OVER()
		FROM %s c
		WHERE NOT c.%s
		ORDER BY c.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.Join("c", table.Columns()...), thread.LikeColumns("c", "$1"),
		table.Table,
		table.IsDeleted,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, viewerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_confessions")
	}
	defer rows.Close()

	var confessions []*Confession
	var total int
	for rows.Next() {
		confession, err := scanConfession(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_confession")
		}
		confessions = append(confessions, confession)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_confessions_rows")
	}

	if err := repository.attachReplies(ctx, confessions...); err != nil {
		return nil, 0, err
	}
	return confessions, total, nil
}

func (repository *PostgresRepository) ToggleLike(ctx context.Context, confessionID, userID string) (social.Reaction, error) {
	return thread.ToggleLike(ctx, repository.pool, confessionID, userID)
}

func (repository *PostgresRepository) AddReply(ctx context.Context, confessionID string, reply *social.Reply) error {
	return thread.AddReply(ctx, repository.pool, confessionID, reply)
}

func (repository *PostgresRepository) Report(ctx context.Context, report *Report) error {
	reports := schema.CampusConfessionReport

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		reports.Table, reports.ID, reports.ConfessionID, reports.UserID, reports.Reason,
	)

	flag := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND NOT %s`,
		table.Table, table.IsReported, table.UpdatedAt, table.ID, table.IsDeleted)

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, flag, report.ConfessionID)
		if err != nil {
			return dberr.Wrap(err, "flag_confession")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Confession")
		}

		_, err = tx.Exec(ctx, insert, report.ID, report.ConfessionID, report.UserID, report.Reason)
		return dberr.Wrap(err, "insert_confession_report")
	})
}

func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND NOT %s`,
		table.Table, table.IsDeleted, table.UpdatedAt, table.ID, table.IsDeleted)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_confession")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Confession")
	}
	return nil
}
