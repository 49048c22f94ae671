// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the feedback Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusFeedback

var fromFeedback = fmt.Sprintf(`FROM %s f LEFT JOIN %s a ON a.%s = f.%s`,
	table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.SubmittedBy)

var selectColumns = schema.Join("f", table.Columns()...) + ", " + account.Columns("a")

func scanFeedback(row pgx.Row, extra ...any) (*Feedback, error) {
	var feedback Feedback
	var submitter account.NullableSummary

	targets := []any{
		&feedback.ID,
		&feedback.Title,
		&feedback.Description,
		&feedback.Category,
		&feedback.Location,
		&feedback.Status,
		&feedback.AdminRemarks,
		&feedback.SubmittedByID,
		&feedback.StatusUpdatedAt,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	}
	targets = append(targets, submitter.Targets()...)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	feedback.SubmittedBy = submitter.Summary()
	return &feedback, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, feedback *Feedback) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Title, table.Description, table.Category, table.Location, table.Status, table.SubmittedBy,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		feedback.ID, feedback.Title, feedback.Description, feedback.Category,
		feedback.Location, feedback.Status, feedback.SubmittedByID,
	).Scan(&feedback.CreatedAt, &feedback.UpdatedAt)

	return dberr.Wrap(err, "create_feedback")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Feedback, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Feedback")
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE f.%s = $1`, selectColumns, fromFeedback, table.ID)

	feedback, err := scanFeedback(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Feedback")
		}
		return nil, dberr.Wrap(err, "find_feedback")
	}

	return feedback, nil
}

func (repository *PostgresRepository) List(ctx context.Context, submittedBy string, page pagination.Params) ([]*Feedback, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() %s
		WHERE ($1::uuid IS NULL OR f.%s = $1::uuid)
		ORDER BY f.%s DESC
		LIMIT $2 OFFSET $3`,
		selectColumns, fromFeedback,
		table.SubmittedBy,
		table.CreatedAt,
	)

	var owner *string
	if submittedBy != "" {
		owner = &submittedBy
	}

	rows, err := repository.pool.Query(ctx, query, owner, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_feedback")
	}
	defer rows.Close()

	var feedbacks []*Feedback
	var total int
	for rows.Next() {
		feedback, err := scanFeedback(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_feedback")
		}
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, total, dberr.Wrap(rows.Err(), "list_feedback_rows")
}

func (repository *PostgresRepository) UpdateStatus(ctx context.Context, change transition.Change) (*Feedback, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3,
		    %s = CASE WHEN $4 = '' THEN %s ELSE $4 END,
		    %s = $5,
		    %s = NOW()
		WHERE %s = $1 AND %s = $2`,
		table.Table,
		table.Status,
		table.AdminRemarks, table.AdminRemarks,
		table.StatusUpdatedAt,
		table.UpdatedAt,
		table.ID, table.Status,
	)

	tag, err := repository.pool.Exec(ctx, query, change.ID, change.From, change.To, change.Remark, change.At)
	if err != nil {
		return nil, dberr.Wrap(err, "update_feedback_status")
	}
	if tag.RowsAffected() == 0 {
		return nil, transition.Stale("Feedback")
	}

	return repository.FindByID(ctx, change.ID)
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_feedback")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Feedback")
	}

	return nil
}
