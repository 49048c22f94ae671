// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/notify/notifytest"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

var (
	admin  = access.Actor{ID: "admin-1", Role: sec.RoleAdmin}
	loser  = access.Actor{ID: "student-lost", Role: sec.RoleStudent}
	finder = access.Actor{ID: "student-found", Role: sec.RoleStudent}
	other  = access.Actor{ID: "student-other", Role: sec.RoleStudent}
)

type fixture struct {
	service  *Service
	repo     *memoryItems
	recorder *notifytest.Recorder
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &memoryItems{},
		recorder: &notifytest.Recorder{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.repo, f.recorder, Settings{TTL: 7 * 24 * time.Hour})
	f.service.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) post(t *testing.T, actor access.Actor, itemType string) *Item {
	t.Helper()
	item, err := f.service.Create(context.Background(), actor, CreateInput{
		Title:       "Blue umbrella",
		Description: "Folding umbrella with a wooden handle",
		Type:        itemType,
		Location:    "Library, 2nd floor",
	})
	require.NoError(t, err)
	return item
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the category and sets the expiry", func(t *testing.T) {
		f := newFixture()

		item := f.post(t, loser, TypeLost)

		assert.Equal(t, DefaultCategory, item.Category)
		assert.Equal(t, StatusActive, item.Status)
		assert.Equal(t, f.clock.Add(7*24*time.Hour), item.ExpiresAt)
		assert.Equal(t, f.clock, item.DateLostOrFound)
		assert.Equal(t, []string{}, item.Photos)
	})

	t.Run("validates the type, the date and the photo count", func(t *testing.T) {
		f := newFixture()

		cases := []CreateInput{
			{Title: "x", Description: "y", Type: "stolen", Location: "z"},
			{Title: "x", Description: "y", Type: TypeLost, Location: "z", DateLostOrFound: "yesterday"},
			{Title: "x", Description: "y", Type: TypeLost, Location: "z", Photos: []string{"1", "2", "3", "4", "5", "6"}},
			{Title: "x", Description: "y", Type: TypeLost},
		}
		for _, input := range cases {
			_, err := f.service.Create(ctx, loser, input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "%+v", input)
		}
		assert.Empty(t, f.repo.items)
	})

	t.Run("parses a calendar date", func(t *testing.T) {
		f := newFixture()

		item, err := f.service.Create(ctx, loser, CreateInput{
			Title: "Keys", Description: "Three keys", Type: TypeLost, Location: "Gym", DateLostOrFound: "2026-02-27",
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), item.DateLostOrFound)
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	lost := f.post(t, loser, TypeLost)
	f.post(t, finder, TypeFound)

	items, total, err := f.service.ListActive(ctx, Filter{Type: TypeLost}, pagination.First())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, lost.ID, items[0].ID)

	// Past the expiry the listing drops the items before any sweep runs.
	f.clock = f.clock.Add(8 * 24 * time.Hour)
	items, total, err = f.service.ListActive(ctx, Filter{}, pagination.First())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	read, err := f.service.Get(ctx, lost.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, read.Status)

	_, _, err = f.service.ListActive(ctx, Filter{Category: "pets"}, pagination.First())
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("links and archives both items and notifies both posters", func(t *testing.T) {
		f := newFixture()
		lost := f.post(t, loser, TypeLost)
		found := f.post(t, finder, TypeFound)

		matchedLost, matchedFound, err := f.service.Match(ctx, loser, lost.ID, found.ID)
		require.NoError(t, err)

		require.NotNil(t, matchedLost.RelatedItem)
		require.NotNil(t, matchedFound.RelatedItem)
		assert.Equal(t, found.ID, *matchedLost.RelatedItem)
		assert.Equal(t, lost.ID, *matchedFound.RelatedItem)
		assert.Equal(t, StatusArchived, matchedLost.Status)
		assert.Equal(t, StatusArchived, matchedFound.Status)

		notices := f.recorder.Users()
		require.Len(t, notices, 2)
		assert.Equal(t, []string{loser.ID}, notices[0].UserIDs)
		assert.Equal(t, []string{finder.ID}, notices[1].UserIDs)
	})

	t.Run("wrong types change nothing", func(t *testing.T) {
		f := newFixture()
		lost := f.post(t, loser, TypeLost)
		found := f.post(t, finder, TypeFound)

		_, _, err := f.service.Match(ctx, admin, found.ID, lost.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

		for _, id := range []string{lost.ID, found.ID} {
			item, _ := f.repo.FindByID(ctx, id)
			assert.Equal(t, StatusActive, item.Status)
			assert.Nil(t, item.RelatedItem)
		}
		assert.Empty(t, f.recorder.Users())
	})

	t.Run("an unrelated student is forbidden", func(t *testing.T) {
		f := newFixture()
		lost := f.post(t, loser, TypeLost)
		found := f.post(t, finder, TypeFound)

		_, _, err := f.service.Match(ctx, other, lost.ID, found.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

		_, _, err = f.service.Match(ctx, finder, lost.ID, found.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown items", func(t *testing.T) {
		f := newFixture()
		lost := f.post(t, loser, TypeLost)

		_, _, err := f.service.Match(ctx, loser, lost.ID, "missing")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner and admin may update, others may not", func(t *testing.T) {
		f := newFixture()
		item := f.post(t, loser, TypeLost)

		_, err := f.service.UpdateStatus(ctx, other, transition.UpdateStatusCommand{ID: item.ID, Status: StatusClaimed}, "")
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

		updated, err := f.service.UpdateStatus(ctx, loser, transition.UpdateStatusCommand{ID: item.ID, Status: StatusClaimed}, "")
		require.NoError(t, err)
		assert.Equal(t, StatusClaimed, updated.Status)

		updated, err = f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: item.ID, Status: StatusReturned}, "")
		require.NoError(t, err)
		assert.Equal(t, StatusReturned, updated.Status)
	})

	t.Run("system statuses cannot be requested", func(t *testing.T) {
		f := newFixture()
		item := f.post(t, loser, TypeLost)

		for _, status := range []string{StatusActive, StatusExpired, "lost"} {
			_, err := f.service.UpdateStatus(ctx, loser, transition.UpdateStatusCommand{ID: item.ID, Status: status}, "")
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidStatus), status)
		}
	})

	t.Run("links a related item", func(t *testing.T) {
		f := newFixture()
		item := f.post(t, loser, TypeLost)
		found := f.post(t, finder, TypeFound)

		updated, err := f.service.UpdateStatus(ctx, loser, transition.UpdateStatusCommand{ID: item.ID, Status: StatusClaimed}, found.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.RelatedItem)
		assert.Equal(t, found.ID, *updated.RelatedItem)

		_, err = f.service.UpdateStatus(ctx, loser, transition.UpdateStatusCommand{ID: item.ID, Status: StatusClaimed}, "missing")
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	item := f.post(t, loser, TypeLost)

	_, err := f.service.Delete(ctx, finder, item.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	deleted, err := f.service.Delete(ctx, admin, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, deleted.ID)
	assert.Empty(t, f.repo.items)
}

func TestExpiryTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	open := f.post(t, loser, TypeLost)
	matched := f.post(t, finder, TypeFound)
	_, err := f.service.UpdateStatus(ctx, finder, transition.UpdateStatusCommand{ID: matched.ID, Status: StatusArchived}, "")
	require.NoError(t, err)

	task := f.service.ExpiryTask()
	assert.Equal(t, "lostfound", task.Name)

	later := f.clock.Add(8 * 24 * time.Hour)
	moved, err := task.Run(ctx, later)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved)

	moved, err = task.Run(ctx, later)
	require.NoError(t, err)
	assert.Zero(t, moved)

	stored, _ := f.repo.FindByID(ctx, open.ID)
	assert.Equal(t, StatusExpired, stored.Status)
	archived, _ := f.repo.FindByID(ctx, matched.ID)
	assert.Equal(t, StatusArchived, archived.Status)
}
