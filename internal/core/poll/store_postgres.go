// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/postgres"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the poll Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	table   = schema.CampusPoll
	options = schema.CampusPollOption
	votes   = schema.CampusPollVote
)

// optionsColumn aggregates the options of poll p in position order.
var optionsColumn = fmt.Sprintf(`
	COALESCE((
		SELECT json_agg(json_build_object('text', o.%[1]s, 'votes', o.%[2]s) ORDER BY o.%[3]s)
		FROM %[4]s o WHERE o.%[5]s = p.%[6]s
	), '[]'::json)`,
	options.Text, options.Votes, options.Position,
	options.Table, options.PollID, table.ID,
)

var selectPoll = fmt.Sprintf(`SELECT %s, %s, %s FROM %s p LEFT JOIN %s a ON a.%s = p.%s`,
	schema.Join("p", table.Columns()...),
	account.Columns("a"),
	optionsColumn,
	table.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, table.CreatedBy,
)

func scanPoll(row pgx.Row, extra ...any) (*Poll, error) {
	var poll Poll
	var creator account.NullableSummary

	targets := []any{
		&poll.ID,
		&poll.Question,
		&poll.CreatedByID,
		&poll.IsActive,
		&poll.ExpiresAt,
		&poll.TotalVotes,
		&poll.CreatedAt,
		&poll.UpdatedAt,
	}
	targets = append(targets, creator.Targets()...)
	targets = append(targets, &poll.Options)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	poll.CreatedBy = creator.Summary()
	return &poll, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, poll *Poll) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Question, table.CreatedBy, table.IsActive, table.ExpiresAt,
		table.CreatedAt, table.UpdatedAt,
	)

	rows := make([][]any, len(poll.Options))
	for position, option := range poll.Options {
		rows[position] = []any{poll.ID, position, option.Text}
	}

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insert,
			poll.ID, poll.Question, poll.CreatedByID, poll.IsActive, poll.ExpiresAt,
		).Scan(&poll.CreatedAt, &poll.UpdatedAt)
		if err != nil {
			return dberr.Wrap(err, "create_poll")
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier(strings.Split(options.Table, ".")),
			[]string{options.PollID, options.Position, options.Text},
			pgx.CopyFromRows(rows),
		)
		return dberr.Wrap(err, "create_poll_options")
	})
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Poll, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Poll")
	}

	query := fmt.Sprintf(`%s WHERE p.%s = $1`, selectPoll, table.ID)

	poll, err := scanPoll(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Poll")
		}
		return nil, dberr.Wrap(err, "find_poll")
	}

	return poll, nil
}

func (repository *PostgresRepository) ListOpen(ctx context.Context, now time.Time, page pagination.Params) ([]*Poll, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER()
		FROM %s p LEFT JOIN %s a ON a.%s = p.%s
		WHERE p.%s AND (p.%s IS NULL OR p.%s >= $1)
		ORDER BY p.%s DESC
		LIMIT $2 OFFSET $3`,
		schema.Join("p", table.Columns()...), account.Columns("a"), optionsColumn,
		table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.CreatedBy,
		table.IsActive, table.ExpiresAt, table.ExpiresAt,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, now, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_polls")
	}
	defer rows.Close()

	var polls []*Poll
	var total int
	for rows.Next() {
		poll, err := scanPoll(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_poll")
		}
		polls = append(polls, poll)
	}

	return polls, total, dberr.Wrap(rows.Err(), "list_polls_rows")
}

func (repository *PostgresRepository) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		votes.Table, votes.PollID, votes.UserID)

	var voted bool
	err := repository.pool.QueryRow(ctx, query, pollID, userID).Scan(&voted)
	return voted, dberr.Wrap(err, "has_voted")
}

// voteQuery binds the poll, user, option index and clock as $1..$4.
var voteQuery = fmt.Sprintf(`
	WITH ballot AS (
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM %[5]s
			WHERE %[6]s = $1 AND %[7]s AND (%[8]s IS NULL OR %[8]s >= $4)
		)
		ON CONFLICT DO NOTHING
		RETURNING %[4]s
	), tallied AS (
		UPDATE %[9]s SET %[10]s = %[10]s + 1
		WHERE %[11]s = $1 AND %[12]s IN (SELECT %[4]s FROM ballot)
	), totalled AS (
		UPDATE %[5]s SET %[13]s = %[13]s + 1, %[14]s = NOW()
		WHERE %[6]s = $1 AND EXISTS (SELECT 1 FROM ballot)
	)
	SELECT EXISTS (SELECT 1 FROM ballot)`,
	votes.Table, votes.PollID, votes.UserID, votes.OptionIndex,
	table.Table, table.ID, table.IsActive, table.ExpiresAt,
	options.Table, options.Votes, options.PollID, options.Position,
	table.TotalVotes, table.UpdatedAt,
)

/*
Vote inserts the ballot and bumps both counters in one statement.

Description: The ballot insert is guarded by the poll still being open and by
the (poll, user) primary key. The two counter updates only fire when that
insert produced a row, so a rejected ballot leaves no partial state.
*/
func (repository *PostgresRepository) Vote(ctx context.Context, ballot Ballot, now time.Time) error {
	var recorded bool
	err := repository.pool.QueryRow(ctx, voteQuery, ballot.PollID, ballot.UserID, ballot.OptionIndex, now).Scan(&recorded)
	if err != nil {
		return dberr.Wrap(err, "vote_poll")
	}
	if recorded {
		return nil
	}

	// A fresh snapshot sees a ballot committed concurrently with ours.
	voted, err := repository.HasVoted(ctx, ballot.PollID, ballot.UserID)
	if err != nil {
		return err
	}
	if voted {
		return apperr.AlreadyVoted()
	}
	return apperr.PollClosed()
}

func (repository *PostgresRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE, %s = NOW() WHERE %s = $1 AND %s`,
		table.Table, table.IsActive, table.UpdatedAt, table.ID, table.IsActive)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "deactivate_poll")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) Voters(ctx context.Context, pollID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE %s = $1`, votes.UserID, votes.Table, votes.PollID)

	rows, err := repository.pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_poll_voters")
	}

	voters, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return voters, dberr.Wrap(err, "scan_poll_voters")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_poll")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Poll")
	}
	return nil
}

// ExpireOverdue closes every active poll past its expiry.
func (repository *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = FALSE, %s = NOW()
		WHERE %s AND %s < $1`,
		table.Table, table.IsActive, table.UpdatedAt,
		table.IsActive, table.ExpiresAt,
	)

	tag, err := repository.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, dberr.Wrap(err, "expire_polls")
	}

	return tag.RowsAffected(), nil
}
