// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"time"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Filter narrows the active listing. Empty fields match everything.
type Filter struct {
	Type     string
	Category string
}

// MatchCheck validates a locked pair before [Repository.Match] writes it.
type MatchCheck func(lost, found *Item) error

// Repository defines the persistence contract for lost and found items.
type Repository interface {

	// Create persists a new item.
	Create(ctx context.Context, item *Item) error

	// FindByID returns one item with its poster, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Item, error)

	// ListActive returns open items not yet expired at now, newest first, and their total.
	ListActive(ctx context.Context, filter Filter, now time.Time, page pagination.Params) ([]*Item, int, error)

	/*
		UpdateStatus applies an accepted change, conditional on the status
		still being change.From. A non-nil relatedItem replaces the link.
	*/
	UpdateStatus(ctx context.Context, change transition.Change, relatedItem *string) (*Item, error)

	/*
		Match links a lost item and a found item and archives both.

		Description: Both rows are locked, check runs against the locked
		rows, and both writes commit together or not at all.
	*/
	Match(ctx context.Context, lostID, foundID string, at time.Time, check MatchCheck) (*Item, *Item, error)

	// Delete removes an item permanently.
	Delete(ctx context.Context, id string) error

	// ExpireOverdue moves open items past their expiry to expired and returns how many moved.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
