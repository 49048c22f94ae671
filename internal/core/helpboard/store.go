// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

import (
	"context"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence contract for help board posts.
//
// Reads take the viewer id to compute likedByMe; an empty viewer likes nothing.
type Repository interface {
	Create(ctx context.Context, post *Post) error

	// FindByID returns one post with its likes and replies, whatever its status.
	FindByID(ctx context.Context, id, viewerID string) (*Post, error)

	// ListActive returns one page of active posts, newest first, and their total.
	ListActive(ctx context.Context, viewerID string, page pagination.Params) ([]*Post, int, error)

	// ToggleLike flips the like of userID on the post.
	ToggleLike(ctx context.Context, postID, userID string) (social.Reaction, error)

	AddReply(ctx context.Context, postID string, reply *social.Reply) error

	// UpdateStatus applies an accepted change, conditional on the status still being change.From.
	UpdateStatus(ctx context.Context, change transition.Change) (*Post, error)
}
