// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

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
	admin    = access.Actor{ID: "0190a000-0000-7000-8000-000000000001", Role: sec.RoleAdmin}
	reporter = access.Actor{ID: "0190a000-0000-7000-8000-000000000002", Role: sec.RoleStudent}
	stranger = access.Actor{ID: "0190a000-0000-7000-8000-000000000003", Role: sec.RoleStudent}
)

type fixture struct {
	service  *Service
	repo     *memoryIssues
	recorder *notifytest.Recorder
}

func newFixture(lockTerminal bool) *fixture {
	repo := newMemoryIssues()
	repo.addUser(reporter.ID, "U-2002", "Bao Tran")
	recorder := &notifytest.Recorder{}
	return &fixture{
		service:  NewService(repo, repo, recorder, lockTerminal),
		repo:     repo,
		recorder: recorder,
	}
}

func validReport() CreateInput {
	return CreateInput{
		Title:       "Broken street light",
		Description: "The light near block C has been off for a week",
		Category:    "safety",
		Location:    `{"type":"Point","coordinates":[105.84,21.02]}`,
		PhotoURL:    "/uploads/light.jpg",
	}
}

func (f *fixture) report(t *testing.T) *Issue {
	t.Helper()
	issue, err := f.service.Create(context.Background(), reporter, validReport())
	require.NoError(t, err)
	return issue
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a pending issue owned by the reporter", func(t *testing.T) {
		f := newFixture(false)

		issue := f.report(t)

		assert.Equal(t, StatusPending, issue.Status)
		assert.Equal(t, reporter.ID, issue.ReportedByID)
		assert.Equal(t, 105.84, issue.Location.Longitude())
		assert.Equal(t, 21.02, issue.Location.Latitude())
	})

	t.Run("accepts a location sent as a JSON string", func(t *testing.T) {
		f := newFixture(false)
		input := validReport()
		input.Location = `"{\"type\":\"Point\",\"coordinates\":[1,2]}"`

		issue, err := f.service.Create(ctx, reporter, input)
		require.NoError(t, err)
		assert.Equal(t, 2.0, issue.Location.Latitude())
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		f := newFixture(false)
		input := validReport()
		input.Category = "noise"

		_, err := f.service.Create(ctx, reporter, input)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("rejects a malformed location", func(t *testing.T) {
		f := newFixture(false)

		for _, location := range []string{`not json`, `{"type":"Polygon","coordinates":[1,2]}`, `{"type":"Point","coordinates":[1]}`} {
			input := validReport()
			input.Location = location

			_, err := f.service.Create(ctx, reporter, input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), location)
		}
		assert.Empty(t, f.repo.issues)
	})

	t.Run("requires a photo", func(t *testing.T) {
		f := newFixture(false)
		input := validReport()
		input.PhotoURL = ""

		_, err := f.service.Create(ctx, reporter, input)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("requires authentication", func(t *testing.T) {
		f := newFixture(false)

		_, err := f.service.Create(ctx, access.Anonymous, validReport())
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts every legal status and nothing else", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		for _, status := range []string{StatusViewed, StatusResolved, StatusPending} {
			updated, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: "archived"})
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidStatus))

		stored, _ := f.repo.FindByID(ctx, issue.ID)
		assert.Equal(t, StatusPending, stored.Status)
	})

	t.Run("rejecting needs a remark", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusRejected, Remark: "  "})
		assert.True(t, apperr.HasCode(err, apperr.CodeMissingRemark))

		stored, _ := f.repo.FindByID(ctx, issue.ID)
		assert.Equal(t, StatusPending, stored.Status)
		assert.Empty(t, f.recorder.Users())

		updated, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusRejected, Remark: "duplicate"})
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, updated.Status)
		assert.Equal(t, "duplicate", updated.AdminRemarks)
		assert.NotNil(t, updated.StatusUpdatedAt)
	})

	t.Run("keeps the remark when none is given", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusViewed, Remark: "on it"})
		require.NoError(t, err)
		updated, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusResolved})
		require.NoError(t, err)
		assert.Equal(t, "on it", updated.AdminRemarks)
	})

	t.Run("only admins may change the status", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		for _, actor := range []access.Actor{reporter, stranger} {
			_, err := f.service.UpdateStatus(ctx, actor, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusResolved})
			assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
		}
	})

	t.Run("notifies the reporter", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusViewed})
		require.NoError(t, err)

		notices := f.recorder.Users()
		require.Len(t, notices, 1)
		assert.Equal(t, []string{reporter.ID}, notices[0].UserIDs)
		assert.Equal(t, StatusViewed, notices[0].Message.Data["status"])
	})

	t.Run("unknown issue", func(t *testing.T) {
		f := newFixture(false)

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: "missing", Status: StatusViewed})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("locked terminal states cannot be left", func(t *testing.T) {
		f := newFixture(true)
		issue := f.report(t)

		_, err := f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusResolved})
		require.NoError(t, err)

		_, err = f.service.UpdateStatus(ctx, admin, transition.UpdateStatusCommand{ID: issue.ID, Status: StatusPending})
		assert.True(t, apperr.HasCode(err, apperr.CodeTerminalState))
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("lists newest first with a total", func(t *testing.T) {
		f := newFixture(false)
		first := f.report(t)
		second := f.report(t)

		issues, total, err := f.service.List(ctx, pagination.First())
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, issues, 2)
		assert.Equal(t, second.ID, issues[0].ID)
		assert.Equal(t, first.ID, issues[1].ID)
	})

	t.Run("finds issues by university id", func(t *testing.T) {
		f := newFixture(false)
		f.report(t)

		issues, err := f.service.ListByUniID(ctx, "U-2002")
		require.NoError(t, err)
		assert.Len(t, issues, 1)

		_, err = f.service.ListByUniID(ctx, "U-9999")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("an empty personal list is not found", func(t *testing.T) {
		f := newFixture(false)
		f.report(t)

		_, err := f.service.ListMine(ctx, stranger)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		mine, err := f.service.ListMine(ctx, reporter)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("a stranger is forbidden", func(t *testing.T) {
		f := newFixture(false)
		issue := f.report(t)

		_, err := f.service.Delete(ctx, stranger, issue.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
		assert.Len(t, f.repo.issues, 1)
	})

	t.Run("the reporter and an admin may delete", func(t *testing.T) {
		f := newFixture(false)
		mine := f.report(t)
		other := f.report(t)

		deleted, err := f.service.Delete(ctx, reporter, mine.ID)
		require.NoError(t, err)
		assert.Equal(t, mine.PhotoURL, deleted.PhotoURL)

		_, err = f.service.Delete(ctx, admin, other.ID)
		require.NoError(t, err)
		assert.Empty(t, f.repo.issues)
	})
}
