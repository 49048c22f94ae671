// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the event Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusEvent

var selectEvent = fmt.Sprintf(`SELECT %s, %s FROM %s e LEFT JOIN %s a ON a.%s = e.%s`,
	schema.Join("e", table.Columns()...),
	account.Columns("a"),
	table.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, table.CreatedBy,
)

func scanEvent(row pgx.Row, extra ...any) (*Event, error) {
	var event Event
	var creator account.NullableSummary

	targets := []any{
		&event.ID,
		&event.Title,
		&event.Description,
		&event.CreatedByID,
		&event.SendEmail,
		&event.Statistics.StudentsFound,
		&event.Statistics.NotificationsSent,
		&event.Statistics.EmailsSent,
		&event.CreatedAt,
	}
	targets = append(targets, creator.Targets()...)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	event.CreatedBy = creator.Summary()
	return &event, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, event *Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		table.Table,
		table.ID, table.Title, table.Description, table.CreatedBy, table.SendEmail,
		table.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.CreatedByID, event.SendEmail,
	).Scan(&event.CreatedAt)

	return dberr.Wrap(err, "create_event")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Event")
	}

	query := fmt.Sprintf(`%s WHERE e.%s = $1`, selectEvent, table.ID)

	event, err := scanEvent(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Event")
		}
		return nil, dberr.Wrap(err, "find_event")
	}

	return event, nil
}

func (repository *PostgresRepository) List(ctx context.Context, page pagination.Params) ([]*Event, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, COUNT(*) OVER()
		FROM %s e LEFT JOIN %s a ON a.%s = e.%s
		ORDER BY e.%s DESC
		LIMIT $1 OFFSET $2`,
		schema.Join("e", table.Columns()...), account.Columns("a"),
		table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.CreatedBy,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	var events []*Event
	var total int
	for rows.Next() {
		event, err := scanEvent(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		events = append(events, event)
	}

	return events, total, dberr.Wrap(rows.Err(), "list_events_rows")
}

func (repository *PostgresRepository) RecordStatistics(ctx context.Context, id string, statistics Statistics) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		table.Table, table.StudentsFound, table.NotificationsSent, table.EmailsSent, table.ID)

	_, err := repository.pool.Exec(ctx, query,
		id, statistics.StudentsFound, statistics.NotificationsSent, statistics.EmailsSent)
	return dberr.Wrap(err, "record_event_statistics")
}
