// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

import (
	"context"
	"strings"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// Service implements the help board use cases.
type Service struct {
	repo    Repository
	machine transition.Machine
}

// NewService constructs a new [Service].
func NewService(repo Repository, lockTerminal bool) *Service {
	return &Service{repo: repo, machine: NewMachine(lockTerminal)}
}

// CreateInput holds a new post.
type CreateInput struct {
	Title       string
	Message     string
	IsAnonymous bool
}

/*
Create publishes a post.

Description: An anonymous post stores no owner at all, so nobody, its author
included, can later be identified as its owner.
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Post, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Message = strings.TrimSpace(input.Message)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldMessage, input.Message).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		MaxLen(FieldMessage, input.Message, MaxMessageLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	post := &Post{
		ID:          uuid.New(),
		Title:       input.Title,
		Message:     input.Message,
		IsAnonymous: input.IsAnonymous,
		Status:      StatusActive,
		Replies:     []social.Reply{},
	}
	if !input.IsAnonymous {
		post.PostedByID = actor.ID
	}

	if err := service.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, post.ID, actor.ID)
}

// ListActive returns one page of active posts as seen by the actor.
func (service *Service) ListActive(ctx context.Context, actor access.Actor, page pagination.Params) ([]*Post, int, error) {
	posts, total, err := service.repo.ListActive(ctx, actor.ID, page)
	if err != nil {
		return nil, 0, err
	}
	if posts == nil {
		posts = []*Post{}
	}
	return posts, total, nil
}

// visible loads a post that has not been deleted.
func (service *Service) visible(ctx context.Context, id, viewerID string) (*Post, error) {
	post, err := service.repo.FindByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if post.Status == StatusDeleted {
		return nil, apperr.NotFound("Post")
	}
	return post, nil
}

// ToggleLike likes the post for the actor, or removes an existing like.
func (service *Service) ToggleLike(ctx context.Context, actor access.Actor, id string) (social.Reaction, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return social.Reaction{}, err
	}

	if _, err := service.visible(ctx, id, actor.ID); err != nil {
		return social.Reaction{}, err
	}

	return service.repo.ToggleLike(ctx, id, actor.ID)
}

// Reply appends a reply from the actor and returns the updated post.
func (service *Service) Reply(ctx context.Context, actor access.Actor, id, message string) (*Post, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	message, err := social.NormalizeReply(message)
	if err != nil {
		return nil, err
	}

	if _, err := service.visible(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	reply := &social.Reply{ID: uuid.New(), UserID: actor.ID, Message: message}
	if err := service.repo.AddReply(ctx, id, reply); err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id, actor.ID)
}

// UpdateStatus flags, restores or deletes a post. Admin only.
func (service *Service) UpdateStatus(ctx context.Context, actor access.Actor, cmd transition.UpdateStatusCommand) (*Post, error) {
	load := func(ctx context.Context, id string) (*Post, error) {
		return service.repo.FindByID(ctx, id, actor.ID)
	}
	return transition.Apply(ctx, service.machine, actor, access.AdminOnly, cmd, load, service.repo.UpdateStatus)
}
