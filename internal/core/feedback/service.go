// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// Service implements the feedback use cases.
type Service struct {
	repo       Repository
	dispatcher notify.Dispatcher
	machine    transition.Machine
}

// NewService constructs a new [Service].
func NewService(repo Repository, dispatcher notify.Dispatcher, lockTerminal bool) *Service {
	return &Service{repo: repo, dispatcher: dispatcher, machine: NewMachine(lockTerminal)}
}

// CreateInput holds a new feedback entry. Category defaults to suggestion.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// Create records feedback from the actor.
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Feedback, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Category = strings.TrimSpace(input.Category); input.Category == "" {
		input.Category = DefaultCategory
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldDescription, input.Description).
		OneOf(FieldCategory, input.Category, Categories...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	feedback := &Feedback{
		ID:            uuid.New(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Location:      strings.TrimSpace(input.Location),
		Status:        StatusPending,
		SubmittedByID: actor.ID,
	}

	if err := service.repo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}

// List returns every feedback entry to an admin and only their own to anyone else.
func (service *Service) List(ctx context.Context, actor access.Actor, page pagination.Params) ([]*Feedback, int, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, 0, err
	}

	submittedBy := actor.ID
	if actor.IsAdmin() {
		submittedBy = ""
	}

	feedbacks, total, err := service.repo.List(ctx, submittedBy, page)
	if err != nil {
		return nil, 0, err
	}
	if feedbacks == nil {
		feedbacks = []*Feedback{}
	}
	return feedbacks, total, nil
}

/*
UpdateStatus moves feedback to a new status.

Description: Admin only. The submitter is notified after the write.
*/
func (service *Service) UpdateStatus(ctx context.Context, actor access.Actor, cmd transition.UpdateStatusCommand) (*Feedback, error) {
	feedback, err := transition.Apply(ctx, service.machine, actor, access.AdminOnly, cmd,
		service.repo.FindByID, service.repo.UpdateStatus)
	if err != nil {
		return nil, err
	}

	service.dispatcher.NotifyUsers(ctx, []string{feedback.SubmittedByID}, notify.Message{
		Title: "Feedback status updated",
		Body:  fmt.Sprintf("Your feedback %q is now %s.", feedback.Title, feedback.Status),
		Data: map[string]string{
			"type":       "feedback_status",
			"feedbackId": feedback.ID,
			"status":     feedback.Status,
		},
	})

	return feedback, nil
}

// Delete removes feedback. Only its submitter or an admin may do so.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id string) error {
	feedback, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.CanAct(actor, feedback.SubmittedByID, access.OwnerOrAdmin); err != nil {
		return err
	}

	return service.repo.Delete(ctx, id)
}
