// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package helpboard implements the peer help board.

Students post questions, optionally without their name, and others like and
reply. Administrators moderate posts by flagging or deleting them; only active
posts are listed.
*/
package helpboard

import (
	"time"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
)

// Post is a help board question.
type Post struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	PostedByID      string           `json:"-"`
	PostedBy        *account.Summary `json:"postedBy"`
	IsAnonymous     bool             `json:"isAnonymous"`
	Status          string           `json:"status"`
	LikeCount       int              `json:"likeCount"`
	LikedByMe       bool             `json:"likedByMe"`
	Replies         []social.Reply   `json:"replies"`
	StatusUpdatedAt *time.Time       `json:"statusUpdatedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// OwnerID is empty for anonymous posts.
func (p *Post) OwnerID() string       { return p.PostedByID }
func (p *Post) CurrentStatus() string { return p.Status }

const (
	StatusActive  = "active"
	StatusFlagged = "flagged"
	StatusDeleted = "deleted"
)

var Statuses = []string{StatusActive, StatusFlagged, StatusDeleted}

// NewMachine returns the post state machine.
func NewMachine(lockTerminal bool) transition.Machine {
	return transition.Machine{
		Resource:     "Post",
		States:       Statuses,
		Terminal:     []string{StatusDeleted},
		LockTerminal: lockTerminal,
	}
}

const (
	FieldTitle       = "title"
	FieldMessage     = "message"
	FieldIsAnonymous = "isAnonymous"
	FieldPost        = "post"
	FieldPosts       = "posts"
	FieldPagination  = "pagination"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 5000
)
