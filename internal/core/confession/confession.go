// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package confession implements the anonymous confession wall.

The author of a confession is stored so that they can delete it and be told
about likes, but it is never part of any response. Reports flag a confession
for administrators; deletion is soft.
*/
package confession

import (
	"time"

	"github.com/taibuivan/campus/internal/core/social"
)

// Confession is an anonymous message.
type Confession struct {
	ID         string         `json:"id"`
	Message    string         `json:"message"`
	PostedByID string         `json:"-"`
	IsReported bool           `json:"isReported"`
	IsDeleted  bool           `json:"-"`
	LikeCount  int            `json:"likeCount"`
	LikedByMe  bool           `json:"likedByMe"`
	Replies    []social.Reply `json:"replies"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Report is one abuse report against a confession.
type Report struct {
	ID           string
	ConfessionID string
	UserID       string
	Reason       string
}

const (
	FieldMessage     = "message"
	FieldReason      = "reason"
	FieldConfession  = "confession"
	FieldConfessions = "confessions"
	FieldPagination  = "pagination"
)

const (
	MaxMessageLength = 5000
	MaxReasonLength  = 500
)
