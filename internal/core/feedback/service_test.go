// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"testing"

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
	admin   = access.Actor{ID: "a1", Role: sec.RoleAdmin}
	student = access.Actor{ID: "s1", Role: sec.RoleStudent}
	peer    = access.Actor{ID: "s2", Role: sec.RoleStudent}
)

func newService() (*Service, *memoryFeedback, *notifytest.Recorder) {
	repo := &memoryFeedback{}
	recorder := &notifytest.Recorder{}
	return NewService(repo, recorder, false), repo, recorder
}

func submit(t *testing.T, service *Service, actor access.Actor) *Feedback {
	t.Helper()
	feedback, err := service.Create(context.Background(), actor, CreateInput{
		Title:       "Longer library hours",
		Description: "Please keep the library open until midnight during exams",
	})
	require.NoError(t, err)
	return feedback
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	feedback := submit(t, service, student)
	assert.Equal(t, DefaultCategory, feedback.Category)
	assert.Equal(t, StatusPending, feedback.Status)

	_, err := service.Create(ctx, student, CreateInput{Title: "x", Description: "y", Category: "praise"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(ctx, student, CreateInput{Title: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestList_ScopesStudentsToTheirOwn(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()
	submit(t, service, student)
	submit(t, service, peer)

	mine, total, err := service.List(ctx, student, pagination.First())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, student.ID, mine[0].SubmittedByID)

	_, total, err = service.List(ctx, admin, pagination.First())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin moves any legal status and the submitter hears about it", func(t *testing.T) {
		service, _, recorder := newService()
		feedback := submit(t, service, student)

		for _, status := range Statuses {
			updated, err := service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: feedback.ID, Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}
		assert.Len(t, recorder.Users(), len(Statuses))
		assert.Equal(t, []string{student.ID}, recorder.Users()[0].UserIDs)
	})

	t.Run("illegal status leaves the entry untouched", func(t *testing.T) {
		service, repo, recorder := newService()
		feedback := submit(t, service, student)

		_, err := service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: feedback.ID, Status: "viewed"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidStatus))

		stored, _ := repo.FindByID(ctx, feedback.ID)
		assert.Equal(t, StatusPending, stored.Status)
		assert.Empty(t, recorder.Users())
	})

	t.Run("the submitter is not an admin", func(t *testing.T) {
		service, _, _ := newService()
		feedback := submit(t, service, student)

		_, err := service.UpdateStatus(ctx, student, transition.UpdateStatusCommand{ID: feedback.ID, Status: StatusResolved})
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService()
	feedback := submit(t, service, student)

	err := service.Delete(ctx, peer, feedback.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, student, feedback.ID))
	assert.Empty(t, repo.entries)

	err = service.Delete(ctx, admin, feedback.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
