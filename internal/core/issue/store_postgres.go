// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

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
	"github.com/taibuivan/campus/pkg/geo"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the issue Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusIssue

// selectIssue joins the reporter summary onto every issue row.
var selectIssue = fmt.Sprintf(`SELECT %s, %s FROM %s i LEFT JOIN %s a ON a.%s = i.%s`,
	schema.Join("i", table.Columns()...),
	account.Columns("a"),
	table.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, table.ReportedBy,
)

func scanIssue(row pgx.Row, extra ...any) (*Issue, error) {
	var issue Issue
	var longitude, latitude float64
	var reporter account.NullableSummary

	targets := []any{
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&longitude,
		&latitude,
		&issue.PhotoURL,
		&issue.Status,
		&issue.AdminRemarks,
		&issue.ReportedByID,
		&issue.StatusUpdatedAt,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	}
	targets = append(targets, reporter.Targets()...)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	issue.Location = geo.NewPoint(longitude, latitude)
	issue.ReportedBy = reporter.Summary()
	return &issue, nil
}

// Create persists a new issue.
func (repository *PostgresRepository) Create(ctx context.Context, issue *Issue) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Title, table.Description, table.Category,
		table.Longitude, table.Latitude, table.PhotoURL, table.Status, table.ReportedBy,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Category,
		issue.Location.Longitude(), issue.Location.Latitude(), issue.PhotoURL, issue.Status, issue.ReportedByID,
	).Scan(&issue.CreatedAt, &issue.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_issue")
	}

	return nil
}

// FindByID returns one issue with its reporter.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Issue, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Issue")
	}

	query := fmt.Sprintf(`%s WHERE i.%s = $1`, selectIssue, table.ID)

	issue, err := scanIssue(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Issue")
		}
		return nil, dberr.Wrap(err, "find_issue")
	}

	return issue, nil
}

// List returns one page of issues, newest first, with the total count.
func (repository *PostgresRepository) List(ctx context.Context, page pagination.Params) ([]*Issue, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*) OVER()
		FROM %s i LEFT JOIN %s a ON a.%s = i.%s
		ORDER BY i.%s DESC
		LIMIT $1 OFFSET $2`,
		schema.Join("i", table.Columns()...), account.Columns("a"),
		table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.ReportedBy,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_issues")
	}
	defer rows.Close()

	var issues []*Issue
	var total int
	for rows.Next() {
		issue, err := scanIssue(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_issue")
		}
		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_issues_rows")
	}

	// An empty page past the end still needs the total.
	if len(issues) == 0 && page.Offset() > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)
		if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_issues")
		}
	}

	return issues, total, nil
}

// ListByReporter returns every issue reported by userID, newest first.
func (repository *PostgresRepository) ListByReporter(ctx context.Context, userID string) ([]*Issue, error) {
	if !uuid.Valid(userID) {
		return nil, nil
	}

	query := fmt.Sprintf(`%s WHERE i.%s = $1 ORDER BY i.%s DESC`, selectIssue, table.ReportedBy, table.CreatedAt)

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_issues_by_reporter")
	}
	defer rows.Close()

	var issues []*Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_issue")
		}
		issues = append(issues, issue)
	}

	return issues, dberr.Wrap(rows.Err(), "list_issues_by_reporter_rows")
}

// UpdateStatus writes the new status only while the stored status is still change.From.
func (repository *PostgresRepository) UpdateStatus(ctx context.Context, change transition.Change) (*Issue, error) {
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
		return nil, dberr.Wrap(err, "update_issue_status")
	}
	if tag.RowsAffected() == 0 {
		return nil, transition.Stale("Issue")
	}

	return repository.FindByID(ctx, change.ID)
}

// Delete removes an issue permanently.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_issue")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Issue")
	}

	return nil
}
