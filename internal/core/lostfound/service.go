// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sweeper"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// Settings configures item lifetime and the terminal state policy.
type Settings struct {
	TTL          time.Duration
	LockTerminal bool
}

// Service implements the lost and found use cases.
type Service struct {
	repo       Repository
	dispatcher notify.Dispatcher
	machine    transition.Machine
	ttl        time.Duration
	now        func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repo Repository, dispatcher notify.Dispatcher, settings Settings) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		machine:    NewMachine(settings.LockTerminal),
		ttl:        settings.TTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// # Posting

// CreateInput holds a new item. DateLostOrFound accepts RFC 3339 or YYYY-MM-DD and defaults to now.
type CreateInput struct {
	Title           string
	Description     string
	Type            string
	Category        string
	Location        string
	Photos          []string
	DateLostOrFound string
	ContactInfo     string
	CollectionInfo  string
	IsAnonymous     bool
}

/*
Create posts a new item that expires after the configured lifetime.

Returns:
  - *Item: The created item in active status
  - error: Validation error for missing fields, bad enumerations or too many photos
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*Item, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Type = strings.TrimSpace(input.Type)
	input.Location = strings.TrimSpace(input.Location)
	if input.Category = strings.TrimSpace(input.Category); input.Category == "" {
		input.Category = DefaultCategory
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		Required(FieldDescription, input.Description).
		Required(FieldType, input.Type).
		Required(FieldLocation, input.Location).
		OneOf(FieldCategory, input.Category, Categories...).
		Custom(FieldPhotos, len(input.Photos) > constants.MaxLostFoundPhotos,
			fmt.Sprintf("At most %d photos are allowed", constants.MaxLostFoundPhotos))
	if input.Type != "" {
		validator.OneOf(FieldType, input.Type, Types...)
	}

	now := service.now()
	happenedAt, err := parseDate(input.DateLostOrFound, now)
	validator.Custom(FieldDateLostOrFound, err != nil, "Must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	photos := input.Photos
	if photos == nil {
		photos = []string{}
	}

	item := &Item{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		Category:        input.Category,
		Location:        input.Location,
		Photos:          photos,
		DateLostOrFound: happenedAt,
		ContactInfo:     strings.TrimSpace(input.ContactInfo),
		CollectionInfo:  strings.TrimSpace(input.CollectionInfo),
		IsAnonymous:     input.IsAnonymous,
		Status:          StatusActive,
		PostedByID:      actor.ID,
		StatusUpdatedAt: now,
		ExpiresAt:       now.Add(service.ttl),
	}

	if err := service.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "lostfound_posted",
		slog.String("item_id", item.ID),
		slog.String("type", item.Type),
	)

	return item.settle(now), nil
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

// # Queries

// Get returns one item with read-time expiry applied.
func (service *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return item.settle(service.now()), nil
}

// ListActive returns one page of items that are neither archived nor expired.
func (service *Service) ListActive(ctx context.Context, filter Filter, page pagination.Params) ([]*Item, int, error) {
	validator := &validate.Validator{}
	if filter.Type != "" {
		validator.OneOf(FieldType, filter.Type, Types...)
	}
	if filter.Category != "" {
		validator.OneOf(FieldCategory, filter.Category, Categories...)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	now := service.now()
	items, total, err := service.repo.ListActive(ctx, filter, now, page)
	if err != nil {
		return nil, 0, err
	}

	for _, item := range items {
		item.settle(now)
	}
	if items == nil {
		items = []*Item{}
	}
	return items, total, nil
}

// # Lifecycle

/*
UpdateStatus moves an item to claimed, returned or archived.

Description: The poster or an admin may do so. A non-empty relatedItem must
name another existing item and replaces the stored link.
*/
func (service *Service) UpdateStatus(ctx context.Context, actor access.Actor, cmd transition.UpdateStatusCommand, relatedItem string) (*Item, error) {
	var related *string
	if relatedItem = strings.TrimSpace(relatedItem); relatedItem != "" {
		if relatedItem == cmd.ID {
			return nil, validate.RequiredError(FieldRelatedItem, "An item cannot be related to itself")
		}
		if _, err := service.repo.FindByID(ctx, relatedItem); err != nil {
			if apperr.HasCode(err, apperr.CodeNotFound) {
				return nil, validate.RequiredError(FieldRelatedItem, "Related item does not exist")
			}
			return nil, err
		}
		related = &relatedItem
	}

	write := func(ctx context.Context, change transition.Change) (*Item, error) {
		return service.repo.UpdateStatus(ctx, change, related)
	}

	item, err := transition.Apply(ctx, service.machine, actor, access.OwnerOrAdmin, cmd, service.repo.FindByID, write)
	if err != nil {
		return nil, err
	}

	return item.settle(service.now()), nil
}

/*
Match pairs a lost item with a found item.

Description: The caller must own one of the two items or be an admin. Both
items are cross-linked and archived in one transaction, then both posters are
notified.

Returns:
  - *Item: The lost item
  - *Item: The found item
  - error: NotFound, Validation (wrong types) or Forbidden
*/
func (service *Service) Match(ctx context.Context, actor access.Actor, lostID, foundID string) (*Item, *Item, error) {
	lostID, foundID = strings.TrimSpace(lostID), strings.TrimSpace(foundID)

	validator := &validate.Validator{}
	validator.Required(FieldLostItemID, lostID).Required(FieldFoundItemID, foundID)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	check := func(lost, found *Item) error {
		if lost.Type != TypeLost || found.Type != TypeFound {
			return apperr.ValidationError("Invalid item types for matching")
		}
		if access.CanAct(actor, lost.PostedByID, access.OwnerOrAdmin) != nil {
			return access.CanAct(actor, found.PostedByID, access.OwnerOrAdmin)
		}
		return nil
	}

	now := service.now()
	lost, found, err := service.repo.Match(ctx, lostID, foundID, now, check)
	if err != nil {
		return nil, nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "lostfound_matched",
		slog.String("lost_id", lost.ID),
		slog.String("found_id", found.ID),
		slog.String("actor_id", actor.ID),
	)

	service.dispatcher.NotifyUsers(ctx, []string{lost.PostedByID}, notify.Message{
		Title: "Lost Item Matched",
		Body:  fmt.Sprintf("We found a possible match for your lost item: %q.", lost.Title),
		Data:  map[string]string{"type": "lostfound_match", "itemId": lost.ID, "relatedItem": found.ID},
	})
	service.dispatcher.NotifyUsers(ctx, []string{found.PostedByID}, notify.Message{
		Title: "Found Item Matched",
		Body:  fmt.Sprintf("We found a possible match for your found item: %q.", found.Title),
		Data:  map[string]string{"type": "lostfound_match", "itemId": found.ID, "relatedItem": lost.ID},
	})

	return lost.settle(now), found.settle(now), nil
}

// Delete removes an item. Only its poster or an admin may do so.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id string) (*Item, error) {
	item, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.CanAct(actor, item.PostedByID, access.OwnerOrAdmin); err != nil {
		return nil, err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return item, nil
}

// ExpiryTask returns the sweep that persists read-time expiry.
func (service *Service) ExpiryTask() sweeper.Task {
	return sweeper.Task{Name: "lostfound", Run: service.repo.ExpireOverdue}
}
