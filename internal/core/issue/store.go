// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence contract for issues.
type Repository interface {

	// Create persists a new issue.
	Create(ctx context.Context, issue *Issue) error

	// FindByID returns one issue with its reporter, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Issue, error)

	/*
		List returns one page of issues, newest first.

		Returns:
		  - []*Issue: The page
		  - int: Total number of issues
	*/
	List(ctx context.Context, page pagination.Params) ([]*Issue, int, error)

	// ListByReporter returns every issue reported by userID, newest first.
	ListByReporter(ctx context.Context, userID string) ([]*Issue, error)

	/*
		UpdateStatus applies an accepted change.

		Description: The write is conditional on the status still being
		change.From. A concurrent change makes it fail with transition.Stale.
		An empty remark keeps the stored remark.
	*/
	UpdateStatus(ctx context.Context, change transition.Change) (*Issue, error)

	// Delete removes an issue permanently.
	Delete(ctx context.Context, id string) error
}
