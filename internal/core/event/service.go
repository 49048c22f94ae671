// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/pointer"
	"github.com/taibuivan/campus/pkg/uuid"
)

// DeviceRegistry stores push tokens on user records.
type DeviceRegistry interface {
	RegisterDeviceToken(ctx context.Context, userID, token string) (int, error)
}

// Service implements the event use cases.
type Service struct {
	repo       Repository
	dispatcher notify.Dispatcher
	devices    DeviceRegistry
}

// NewService constructs a new [Service].
func NewService(repo Repository, dispatcher notify.Dispatcher, devices DeviceRegistry) *Service {
	return &Service{repo: repo, dispatcher: dispatcher, devices: devices}
}

// CreateInput holds a new event. SendEmail defaults to true.
type CreateInput struct {
	Title       string
	Description string
	SendEmail   *bool
}

/*
Create stores an event and announces it to every student.

Description: The push and the email are sent once each and their outcome is
recorded on the event. Delivery failures never fail the request.
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Event, error) {
	if err := access.CanAct(actor, "", access.AdminOnly); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldDescription, input.Description).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		CreatedByID: actor.ID,
		SendEmail:   pointer.Fallback(input.SendEmail, true),
	}

	if err := service.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	event.Statistics = service.announce(ctx, event)
	if err := service.repo.RecordStatistics(ctx, event.ID, event.Statistics); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "event_announced",
		slog.String("event_id", event.ID),
		slog.Int("students_found", event.Statistics.StudentsFound),
		slog.Int("notifications_sent", event.Statistics.NotificationsSent),
		slog.Int("emails_sent", event.Statistics.EmailsSent),
	)

	return service.repo.FindByID(ctx, event.ID)
}

func (service *Service) announce(ctx context.Context, event *Event) Statistics {
	pushed := service.dispatcher.NotifyRole(ctx, sec.RoleStudent, notify.Message{
		Title: event.Title,
		Body:  "Tap for more info",
		Data:  map[string]string{"type": "event", "eventId": event.ID},
	})

	statistics := Statistics{
		StudentsFound:     pushed.Audience,
		NotificationsSent: pushed.Sent,
	}

	if event.SendEmail {
		emailed := service.dispatcher.EmailRole(ctx, sec.RoleStudent, notify.Mail{
			Subject: "Event: " + event.Title,
			Text:    event.Description,
			HTML: fmt.Sprintf(`<h2>%s</h2><p>%s</p><hr><p><small>This is an automated message from Campus App. Please do not reply to this email.</small></p>`,
				html.EscapeString(event.Title), html.EscapeString(event.Description)),
		})
		statistics.EmailsSent = emailed.Sent
	}

	return statistics
}

// List returns one page of events, newest first.
func (service *Service) List(ctx context.Context, page pagination.Params) ([]*Event, int, error) {
	events, total, err := service.repo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []*Event{}
	}
	return events, total, nil
}

func (service *Service) Get(ctx context.Context, id string) (*Event, error) {
	return service.repo.FindByID(ctx, id)
}

// RegisterDevice adds a push token to the actor's devices and returns their token count.
func (service *Service) RegisterDevice(ctx context.Context, actor access.Actor, token string) (int, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return 0, err
	}
	return service.devices.RegisterDeviceToken(ctx, actor.ID, token)
}
