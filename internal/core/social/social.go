// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package social holds the like and reply sub-resources shared by the help board
and the confession wall.

A like is a (parent, user) row whose primary key makes the set semantics hold
under concurrency. Toggling is one statement, so the reported count is the
count that statement produced. Replies are append-only.
*/
package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/postgres"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/internal/users/account"
)

// # Domain Entities

// Reaction is the like state of a parent as seen by one user.
type Reaction struct {
	ID        string `json:"id"`
	LikeCount int    `json:"likeCount"`
	LikedByMe bool   `json:"likedByMe"`
}

// Reply is one message under a parent.
type Reply struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	UserID    string           `json:"-"`
	User      *account.Summary `json:"user,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// FieldMessage is the request field of a reply body.
const FieldMessage = "message"

// MaxReplyLength caps a reply body.
const MaxReplyLength = 2000

// NormalizeReply trims a reply body and validates it.
func NormalizeReply(message string) (string, error) {
	message = strings.TrimSpace(message)

	validator := &validate.Validator{}
	validator.Required(FieldMessage, message).MaxLen(FieldMessage, message, MaxReplyLength)
	if err := validator.Err(); err != nil {
		return "", err
	}
	return message, nil
}

// # Storage

// Thread names the like and reply tables of one parent type.
// Both tables key their parent with the same column.
type Thread struct {
	LikeTable  string
	ReplyTable string
	Parent     string
}

const (
	columnID        = "id"
	columnUserID    = "userid"
	columnMessage   = "message"
	columnCreatedAt = "createdat"
)

/*
ToggleLike removes the user's like when present and adds it otherwise.

Returns:
  - Reaction: Count and state right after the toggle
*/
func (thread Thread) ToggleLike(ctx context.Context, q postgres.Querier, parentID, userID string) (Reaction, error) {
	reaction := Reaction{ID: parentID}
	if err := q.QueryRow(ctx, thread.toggleLikeQuery(), parentID, userID).Scan(&reaction.LikedByMe, &reaction.LikeCount); err != nil {
		return Reaction{}, dberr.Wrap(err, "toggle_like")
	}

	return reaction, nil
}

// toggleLikeQuery binds the parent and user as $1 and $2.
func (thread Thread) toggleLikeQuery() string {
	return fmt.Sprintf(`
		WITH removed AS (
			DELETE FROM %[1]s WHERE %[2]s = $1 AND %[3]s = $2 RETURNING 1
		), inserted AS (
			INSERT INTO %[1]s (%[2]s, %[3]s)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
			ON CONFLICT DO NOTHING
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM inserted),
		       (SELECT COUNT(*) FROM %[1]s WHERE %[2]s = $1)
		         + (SELECT COUNT(*) FROM inserted)
		         - (SELECT COUNT(*) FROM removed)`,
		thread.LikeTable, thread.Parent, columnUserID,
	)
}

// LikeColumns returns the select expressions of the like count and of whether
// the user bound to viewerParam liked the parent aliased as alias.
func (thread Thread) LikeColumns(alias, viewerParam string) string {
	return fmt.Sprintf(
		`(SELECT COUNT(*) FROM %[1]s l WHERE l.%[2]s = %[3]s.id), `+
			`EXISTS (SELECT 1 FROM %[1]s l WHERE l.%[2]s = %[3]s.id AND l.%[4]s::text = %[5]s)`,
		thread.LikeTable, thread.Parent, alias, columnUserID, viewerParam,
	)
}

// AddReply appends a reply and fills its creation time.
func (thread Thread) AddReply(ctx context.Context, q postgres.Querier, parentID string, reply *Reply) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		thread.ReplyTable, columnID, thread.Parent, columnUserID, columnMessage,
		columnCreatedAt,
	)

	err := q.QueryRow(ctx, query, reply.ID, parentID, reply.UserID, reply.Message).Scan(&reply.CreatedAt)
	return dberr.Wrap(err, "add_reply")
}

// Replies returns the replies of every parent in parentIDs, oldest first, keyed by parent.
func (thread Thread) Replies(ctx context.Context, q postgres.Querier, parentIDs []string) (map[string][]Reply, error) {
	replies := make(map[string][]Reply, len(parentIDs))
	if len(parentIDs) == 0 {
		return replies, nil
	}

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, %s
		FROM %s r LEFT JOIN %s a ON a.%s = r.%s
		WHERE r.%s = ANY($1::uuid[])
		ORDER BY r.%s ASC, r.%s ASC`,
		thread.Parent, columnID, columnMessage, columnUserID, columnCreatedAt, account.Columns("a"),
		thread.ReplyTable, schema.UserAccount.Table, schema.UserAccount.ID, columnUserID,
		thread.Parent,
		columnCreatedAt, columnID,
	)

	rows, err := q.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "list_replies")
	}
	defer rows.Close()

	for rows.Next() {
		var parentID string
		var reply Reply
		var user account.NullableSummary

		targets := append([]any{&parentID, &reply.ID, &reply.Message, &reply.UserID, &reply.CreatedAt}, user.Targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, dberr.Wrap(err, "scan_reply")
		}

		reply.User = user.Summary()
		replies[parentID] = append(replies[parentID], reply)
	}

	return replies, dberr.Wrap(rows.Err(), "list_replies_rows")
}
