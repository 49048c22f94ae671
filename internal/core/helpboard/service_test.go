// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

var (
	admin  = access.Actor{ID: "a1", Role: sec.RoleAdmin}
	asker  = access.Actor{ID: "s1", Role: sec.RoleStudent}
	helper = access.Actor{ID: "s2", Role: sec.RoleStudent}
)

func newService() (*Service, *memoryPosts) {
	repo := &memoryPosts{}
	return NewService(repo, false), repo
}

func ask(t *testing.T, service *Service, anonymous bool) *Post {
	t.Helper()
	post, err := service.Create(context.Background(), asker, CreateInput{
		Title:       "Calculus II notes",
		Message:     "Does anyone have the notes from week 3?",
		IsAnonymous: anonymous,
	})
	require.NoError(t, err)
	return post
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	named := ask(t, service, false)
	assert.Equal(t, asker.ID, named.PostedByID)
	assert.Equal(t, StatusActive, named.Status)

	anonymous := ask(t, service, true)
	assert.Empty(t, anonymous.PostedByID)
	assert.Nil(t, anonymous.PostedBy)

	_, err := service.Create(ctx, asker, CreateInput{Title: "only a title"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestToggleLike_RestoresTheOriginalState(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	post := ask(t, service, false)

	liked, err := service.ToggleLike(ctx, helper, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)
	assert.True(t, liked.LikedByMe)

	unliked, err := service.ToggleLike(ctx, helper, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.LikeCount, unliked.LikeCount)
	assert.False(t, unliked.LikedByMe)

	_, err = service.ToggleLike(ctx, helper, "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestListActive_ReportsLikesPerViewer(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	post := ask(t, service, false)
	_, err := service.ToggleLike(ctx, helper, post.ID)
	require.NoError(t, err)

	seenByHelper, _, err := service.ListActive(ctx, helper, pagination.First())
	require.NoError(t, err)
	require.Len(t, seenByHelper, 1)
	assert.True(t, seenByHelper[0].LikedByMe)

	seenByAsker, _, err := service.ListActive(ctx, asker, pagination.First())
	require.NoError(t, err)
	assert.False(t, seenByAsker[0].LikedByMe)
	assert.Equal(t, 1, seenByAsker[0].LikeCount)
}

func TestReply(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	post := ask(t, service, true)

	updated, err := service.Reply(ctx, helper, post.ID, "  I do, check your inbox ")
	require.NoError(t, err)
	require.Len(t, updated.Replies, 1)
	assert.Equal(t, "I do, check your inbox", updated.Replies[0].Message)
	assert.Equal(t, helper.ID, updated.Replies[0].UserID)

	_, err = service.Reply(ctx, helper, post.ID, "   ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin moderates and deleted posts disappear", func(t *testing.T) {
		service, _ := newService()
		post := ask(t, service, false)

		flagged, err := service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: post.ID, Status: StatusFlagged})
		require.NoError(t, err)
		assert.Equal(t, StatusFlagged, flagged.Status)

		_, err = service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: post.ID, Status: StatusDeleted})
		require.NoError(t, err)

		posts, total, err := service.ListActive(ctx, asker, pagination.First())
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, posts)

		_, err = service.ToggleLike(ctx, helper, post.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("the author is not a moderator", func(t *testing.T) {
		service, repo := newService()
		post := ask(t, service, false)

		_, err := service.UpdateStatus(ctx, asker, transition.UpdateStatusCommand{ID: post.ID, Status: StatusDeleted})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

		stored, _ := repo.FindByID(ctx, post.ID, "")
		assert.Equal(t, StatusActive, stored.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		service, _ := newService()
		post := ask(t, service, false)

		_, err := service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: post.ID, Status: "hidden"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidStatus))
	})
}
