// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/geo"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// ReporterLookup resolves a university id to the user holding it.
type ReporterLookup interface {
	FindByUniID(ctx context.Context, uniID string) (*account.Summary, error)
}

// Service implements the issue reporting use cases.
type Service struct {
	repo       Repository
	reporters  ReporterLookup
	dispatcher notify.Dispatcher
	machine    transition.Machine
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repo Repository, reporters ReporterLookup, dispatcher notify.Dispatcher, lockTerminal bool) *Service {
	return &Service{
		repo:       repo,
		reporters:  reporters,
		dispatcher: dispatcher,
		machine:    NewMachine(lockTerminal),
	}
}

// # Reporting

// CreateInput holds a new report. Location is the raw GeoJSON, as an object or a string.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	PhotoURL    string
}

/*
Create files a new issue for the actor.

Returns:
  - *Issue: The created report in pending status
  - error: Validation error for missing fields, a bad category or a malformed location
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Issue, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldDescription, input.Description).
		Required(FieldCategory, input.Category).
		Required(FieldLocation, strings.TrimSpace(input.Location)).
		Custom(FieldPhoto, strings.TrimSpace(input.PhotoURL) == "", "Issue image is required")
	if input.Category != "" {
		validator.OneOf(FieldCategory, input.Category, Categories...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	location, err := geo.Parse(input.Location)
	if err != nil {
		return nil, locationError(err)
	}

	issue := &Issue{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Location:     location,
		PhotoURL:     strings.TrimSpace(input.PhotoURL),
		Status:       StatusPending,
		ReportedByID: actor.ID,
	}

	if err := service.repo.Create(ctx, issue); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "issue_reported",
		slog.String("issue_id", issue.ID),
		slog.String("category", issue.Category),
	)

	// Re-read so the reporter summary is populated.
	return service.repo.FindByID(ctx, issue.ID)
}

func locationError(err error) error {
	if errors.Is(err, geo.ErrMalformed) {
		return validate.RequiredError(FieldLocation, "Invalid JSON format for location")
	}
	return validate.RequiredError(FieldLocation, "Invalid location format")
}

// # Queries

// Get returns one issue.
func (service *Service) Get(ctx context.Context, id string) (*Issue, error) {
	return service.repo.FindByID(ctx, id)
}

// List returns one page of every issue, newest first.
func (service *Service) List(ctx context.Context, page pagination.Params) ([]*Issue, int, error) {
	issues, total, err := service.repo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	if issues == nil {
		issues = []*Issue{}
	}
	return issues, total, nil
}

/*
ListByUniID returns the issues of the user holding uniID.

Returns:
  - error: NotFound for an unknown university id or a user without reports
*/
func (service *Service) ListByUniID(ctx context.Context, uniID string) ([]*Issue, error) {
	reporter, err := service.reporters.FindByUniID(ctx, strings.TrimSpace(uniID))
	if err != nil {
		return nil, err
	}

	issues, err := service.repo.ListByReporter(ctx, reporter.ID)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, apperr.NoResults("No issues reported by this user")
	}

	return issues, nil
}

// ListMine returns the issues reported by the actor, or NotFound when there are none.
func (service *Service) ListMine(ctx context.Context, actor access.Actor) ([]*Issue, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	issues, err := service.repo.ListByReporter(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, apperr.NoResults("No issues reported by you")
	}

	return issues, nil
}

// # Moderation

/*
UpdateStatus moves an issue to a new status.

Description: Admin only. Rejecting requires a remark. The reporter is
notified after the write; a delivery failure does not affect the result.
*/
func (service *Service) UpdateStatus(ctx context.Context, actor access.Actor, cmd transition.UpdateStatusCommand) (*Issue, error) {
	issue, err := transition.Apply(ctx, service.machine, actor, access.AdminOnly, cmd,
		service.repo.FindByID, service.repo.UpdateStatus)
	if err != nil {
		return nil, err
	}

	message := notify.Message{
		Title: "Issue status updated",
		Body:  fmt.Sprintf("Your report %q is now %s.", issue.Title, issue.Status),
		Data: map[string]string{
			"type":    "issue_status",
			"issueId": issue.ID,
			"status":  issue.Status,
		},
	}
	if remark := strings.TrimSpace(cmd.Remark); remark != "" {
		message.Body += " Remarks: " + remark
	}
	service.dispatcher.NotifyUsers(ctx, []string{issue.ReportedByID}, message)

	return issue, nil
}

// Delete removes an issue. Only its reporter or an admin may do so.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id string) (*Issue, error) {
	issue, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.CanAct(actor, issue.ReportedByID, access.OwnerOrAdmin); err != nil {
		return nil, err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "issue_deleted",
		slog.String("issue_id", id),
		slog.String("actor_id", actor.ID),
	)

	return issue, nil
}
