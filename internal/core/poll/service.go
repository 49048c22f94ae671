// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/sweeper"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/slice"
	"github.com/taibuivan/campus/pkg/uuid"
)

// Service implements the poll use cases.
type Service struct {
	repo       Repository
	dispatcher notify.Dispatcher
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, dispatcher notify.Dispatcher) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput holds a new poll. ExpiresAt is an optional RFC 3339 timestamp.
type CreateInput struct {
	Question  string
	Options   []string
	ExpiresAt string
}

// Create opens a poll and announces it to every student.
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Poll, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	question := strings.TrimSpace(input.Question)
	texts := slice.Filter(slice.Map(input.Options, strings.TrimSpace), func(text string) bool { return text != "" })
	choices := slice.Map(texts, func(text string) Option { return Option{Text: text} })

	validator := &validate.Validator{}
	validator.Required(FieldQuestion, question).
		MaxLen(FieldQuestion, question, MaxQuestionLength).
		MinItems(FieldOptions, len(choices), MinOptions)
	for _, choice := range choices {
		validator.MaxLen(FieldOptions, choice.Text, MaxOptionLength)
	}

	now := service.now()
	expiresAt, err := parseExpiry(input.ExpiresAt)
	validator.Custom(FieldExpiresAt, err != nil, "Must be an RFC 3339 timestamp").
		After(FieldExpiresAt, expiresAt, now)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	poll := &Poll{
		ID:          uuid.New(),
		Question:    question,
		Options:     choices,
		CreatedByID: actor.ID,
		IsActive:    true,
		ExpiresAt:   expiresAt,
	}

	if err := service.repo.Create(ctx, poll); err != nil {
		return nil, err
	}

	delivery := service.dispatcher.NotifyRole(ctx, sec.RoleStudent, notify.Message{
		Title: "New Poll",
		Body:  poll.Question,
		Data:  map[string]string{"type": "poll_created", "pollId": poll.ID},
	})

	ctxutil.GetLogger(ctx).InfoContext(ctx, "poll_created",
		slog.String("poll_id", poll.ID),
		slog.Int("options", len(poll.Options)),
		slog.Int("notified", delivery.Sent),
	)

	return service.repo.FindByID(ctx, poll.ID)
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

// # Queries

// ListOpen returns one page of polls that still accept ballots.
func (service *Service) ListOpen(ctx context.Context, page pagination.Params) ([]*Poll, int, error) {
	polls, total, err := service.repo.ListOpen(ctx, service.now(), page)
	if err != nil {
		return nil, 0, err
	}
	if polls == nil {
		polls = []*Poll{}
	}
	return polls, total, nil
}

/*
Get returns one poll and whether the actor has voted on it.

Returns:
  - *Poll: With read-time expiry applied
  - bool: hasVoted for the actor
*/
func (service *Service) Get(ctx context.Context, actor access.Actor, id string) (*Poll, bool, error) {
	poll, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	voted, err := service.repo.HasVoted(ctx, id, actor.ID)
	if err != nil {
		return nil, false, err
	}

	return poll.settle(service.now()), voted, nil
}

// # Mutations

/*
Vote records the actor's ballot.

Description: A poll found past its expiry is closed first and the ballot is
rejected. The option index is checked against the stored options before the
atomic write, which rejects repeated and late ballots on its own.
*/
func (service *Service) Vote(ctx context.Context, actor access.Actor, id string, optionIndex *int) (*Poll, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	if optionIndex == nil {
		return nil, validate.RequiredError(FieldOptionIndex, "This field is required")
	}

	poll, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := service.now()
	if !poll.Open(now) {
		if poll.IsActive {
			if _, err := service.repo.Deactivate(ctx, id); err != nil {
				return nil, err
			}
		}
		return nil, apperr.PollClosed()
	}

	if *optionIndex < 0 || *optionIndex >= len(poll.Options) {
		return nil, apperr.ValidationError("Invalid option index.", apperr.FieldError{
			Field:   FieldOptionIndex,
			Message: fmt.Sprintf("Must be between 0 and %d", len(poll.Options)-1),
		})
	}

	ballot := Ballot{PollID: id, UserID: actor.ID, OptionIndex: *optionIndex}
	if err := service.repo.Vote(ctx, ballot, now); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// Close stops a poll from accepting ballots and tells everyone who voted.
func (service *Service) Close(ctx context.Context, actor access.Actor, id string) (*Poll, error) {
	poll, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.CanAct(actor, poll.CreatedByID, access.OwnerOrAdmin); err != nil {
		return nil, err
	}

	closed, err := service.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	if closed {
		voters, err := service.repo.Voters(ctx, id)
		if err != nil {
			return nil, err
		}

		service.dispatcher.NotifyUsers(ctx, voters, notify.Message{
			Title: "Poll Closed",
			Body:  fmt.Sprintf("The poll %q has been closed.", poll.Question),
			Data:  map[string]string{"type": "poll_closed", "pollId": id},
		})
	}

	return service.repo.FindByID(ctx, id)
}

// Delete removes a poll with its options and ballots.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id string) error {
	poll, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.CanAct(actor, poll.CreatedByID, access.OwnerOrAdmin); err != nil {
		return err
	}

	return service.repo.Delete(ctx, id)
}

// ExpiryTask returns the sweep that persists read-time expiry.
func (service *Service) ExpiryTask() sweeper.Task {
	return sweeper.Task{Name: "polls", Run: service.repo.ExpireOverdue}
}
