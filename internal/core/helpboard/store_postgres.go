// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

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
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/pointer"
	"github.com/taibuivan/campus/pkg/slice"
	"github.com/taibuivan/campus/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the help board Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var table = schema.CampusHelpBoardPost

var thread = social.Thread{
	LikeTable:  schema.CampusHelpBoardLike.Table,
	ReplyTable: schema.CampusHelpBoardReply.Table,
	Parent:     schema.CampusHelpBoardLike.PostID,
}

// postColumns expects the viewer id as $1.
var postColumns = fmt.Sprintf(`%s, %s, %s`,
	schema.Join("p", table.Columns()...), account.Columns("a"), thread.LikeColumns("p", "$1"))

var fromPost = fmt.Sprintf(`FROM %s p LEFT JOIN %s a ON a.%s = p.%s`,
	table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.PostedBy)

func scanPost(row pgx.Row, extra ...any) (*Post, error) {
	var post Post
	var postedBy *string
	var poster account.NullableSummary

	targets := []any{
		&post.ID,
		&post.Title,
		&post.Message,
		&postedBy,
		&post.IsAnonymous,
		&post.Status,
		&post.StatusUpdatedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	}
	targets = append(targets, poster.Targets()...)
	targets = append(targets, &post.LikeCount, &post.LikedByMe)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	post.PostedByID = pointer.Val(postedBy)
	post.PostedBy = poster.Summary()
	post.Replies = []social.Reply{}
	return &post, nil
}

// attachReplies loads the replies of every post in one query.
func (repository *PostgresRepository) attachReplies(ctx context.Context, posts ...*Post) error {
	ids := slice.Map(posts, func(post *Post) string { return post.ID })

	replies, err := thread.Replies(ctx, repository.pool, ids)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if found, ok := replies[post.ID]; ok {
			post.Replies = found
		}
	}
	return nil
}

func (repository *PostgresRepository) Create(ctx context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Title, table.Message, table.PostedBy, table.IsAnonymous, table.Status,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		post.ID, post.Title, post.Message, pointer.NilIfZero(post.PostedByID), post.IsAnonymous, post.Status,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	return dberr.Wrap(err, "create_helpboard_post")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id, viewerID string) (*Post, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Post")
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE p.%s = $2`, postColumns, fromPost, table.ID)

	post, err := scanPost(repository.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, dberr.Wrap(err, "find_helpboard_post")
	}

	if err := repository.attachReplies(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (repository *PostgresRepository) ListActive(ctx context.Context, viewerID string, page pagination.Params) ([]*Post, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() %s
		WHERE p.%s = $2
		ORDER BY p.%s DESC
		LIMIT $3 OFFSET $4`,
		postColumns, fromPost,
		table.Status,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, viewerID, StatusActive, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_helpboard_posts")
	}
	defer rows.Close()

	var posts []*Post
	var total int
	for rows.Next() {
		post, err := scanPost(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_helpboard_post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_helpboard_posts_rows")
	}

	if err := repository.attachReplies(ctx, posts...); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (repository *PostgresRepository) ToggleLike(ctx context.Context, postID, userID string) (social.Reaction, error) {
	return thread.ToggleLike(ctx, repository.pool, postID, userID)
}

func (repository *PostgresRepository) AddReply(ctx context.Context, postID string, reply *social.Reply) error {
	return thread.AddReply(ctx, repository.pool, postID, reply)
}

func (repository *PostgresRepository) UpdateStatus(ctx context.Context, change transition.Change) (*Post, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s = $2`,
		table.Table, table.Status, table.StatusUpdatedAt, table.UpdatedAt,
		table.ID, table.Status,
	)

	tag, err := repository.pool.Exec(ctx, query, change.ID, change.From, change.To, change.At)
	if err != nil {
		return nil, dberr.Wrap(err, "update_helpboard_status")
	}
	if tag.RowsAffected() == 0 {
		return nil, transition.Stale("Post")
	}

	return repository.FindByID(ctx, change.ID, "")
}
