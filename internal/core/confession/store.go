// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package confession

import (
	"context"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence operations for confessions.
type Repository interface {
	Create(ctx context.Context, confession *Confession) error

	// FindByID returns deleted confessions too; callers decide visibility.
	FindByID(ctx context.Context, id, viewerID string) (*Confession, error)

	// List returns confessions that are not deleted, newest first, with the total.
	List(ctx context.Context, viewerID string, page pagination.Params) ([]*Confession, int, error)

	ToggleLike(ctx context.Context, confessionID, userID string) (social.Reaction, error)
	AddReply(ctx context.Context, confessionID string, reply *social.Reply) error

	// Report stores the report and flags the confession in one unit.
	Report(ctx context.Context, report *Report) error

	// SoftDelete hides a confession. A missing or already deleted one is not found.
	SoftDelete(ctx context.Context, id string) error
}
