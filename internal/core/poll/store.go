// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"context"
	"time"

	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence operations for polls.
type Repository interface {
	// Create stores the poll together with its options.
	Create(ctx context.Context, poll *Poll) error
	FindByID(ctx context.Context, id string) (*Poll, error)

	// ListOpen returns active polls that have not expired at now, newest first.
	ListOpen(ctx context.Context, now time.Time, page pagination.Params) ([]*Poll, int, error)

	HasVoted(ctx context.Context, pollID, userID string) (bool, error)

	/*
		Vote records the ballot only if the poll is open at now and the user has
		not voted yet, all in one statement.

		Returns:
		  - AlreadyVoted or PollClosed when the condition does not hold
	*/
	Vote(ctx context.Context, ballot Ballot, now time.Time) error

	// Deactivate closes an active poll and reports whether it was active.
	Deactivate(ctx context.Context, id string) (bool, error)

	// Voters returns the ids of every user that voted on the poll.
	Voters(ctx context.Context, pollID string) ([]string, error)

	Delete(ctx context.Context, id string) error

	// ExpireOverdue closes every active poll whose expiry is before now.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
