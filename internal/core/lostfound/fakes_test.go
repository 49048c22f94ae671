// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// memoryItems is an in-memory [Repository]. Match holds the lock for the whole
// check-and-write, which is what the Postgres row locks give.
type memoryItems struct {
	mu    sync.Mutex
	items []*Item
}

func (m *memoryItems) find(id string) *Item {
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func clone(item *Item) *Item {
	copied := *item
	copied.Photos = slices.Clone(item.Photos)
	if item.RelatedItem != nil {
		related := *item.RelatedItem
		copied.RelatedItem = &related
	}
	return &copied
}

func (m *memoryItems) Create(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]*Item{clone(item)}, m.items...)
	return nil
}

func (m *memoryItems) FindByID(_ context.Context, id string) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item := m.find(id); item != nil {
		return clone(item), nil
	}
	return nil, apperr.NotFound("Lost/Found item")
}

func (m *memoryItems) ListActive(_ context.Context, filter Filter, now time.Time, page pagination.Params) ([]*Item, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Item
	for _, item := range m.items {
		if item.Status == StatusArchived || item.Status == StatusExpired || item.ExpiresAt.Before(now) {
			continue
		}
		if (filter.Type != "" && item.Type != filter.Type) || (filter.Category != "" && item.Category != filter.Category) {
			continue
		}
		matched = append(matched, clone(item))
	}
	return pagination.Window(matched, page), len(matched), nil
}

func (m *memoryItems) UpdateStatus(_ context.Context, change transition.Change, relatedItem *string) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.find(change.ID)
	if item == nil {
		return nil, apperr.NotFound("Lost/Found item")
	}
	if item.Status != change.From {
		return nil, transition.Stale("Lost/Found item")
	}
	item.Status = change.To
	item.StatusUpdatedAt = change.At
	if relatedItem != nil {
		related := *relatedItem
		item.RelatedItem = &related
	}
	return clone(item), nil
}

func (m *memoryItems) Match(_ context.Context, lostID, foundID string, at time.Time, check MatchCheck) (*Item, *Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lost, found := m.find(lostID), m.find(foundID)
	if lost == nil || found == nil {
		return nil, nil, apperr.NotFound("Lost/Found item")
	}
	if err := check(clone(lost), clone(found)); err != nil {
		return nil, nil, err
	}
	lostRef, foundRef := lost.ID, found.ID
	lost.RelatedItem, found.RelatedItem = &foundRef, &lostRef
	lost.Status, found.Status = StatusArchived, StatusArchived
	lost.StatusUpdatedAt, found.StatusUpdatedAt = at, at
	return clone(lost), clone(found), nil
}

func (m *memoryItems) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.items, func(item *Item) bool { return item.ID == id })
	if index < 0 {
		return apperr.NotFound("Lost/Found item")
	}
	m.items = slices.Delete(m.items, index, index+1)
	return nil
}

func (m *memoryItems) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var moved int64
	for _, item := range m.items {
		if item.Overdue(now) {
			item.Status = StatusExpired
			item.StatusUpdatedAt = now
			moved++
		}
	}
	return moved, nil
}
