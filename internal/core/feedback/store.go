// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence contract for feedback.
type Repository interface {
	Create(ctx context.Context, feedback *Feedback) error
	FindByID(ctx context.Context, id string) (*Feedback, error)

	// List returns one page, newest first. An empty submittedBy lists everyone's feedback.
	List(ctx context.Context, submittedBy string, page pagination.Params) ([]*Feedback, int, error)

	// UpdateStatus applies an accepted change, conditional on the status still being change.From.
	UpdateStatus(ctx context.Context, change transition.Change) (*Feedback, error)

	Delete(ctx context.Context, id string) error
}
