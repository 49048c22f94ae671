// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package confession

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/pagination"
	"github.com/taibuivan/campus/pkg/uuid"
)

// Service implements the confession use cases.
type Service struct {
	repo       Repository
	dispatcher notify.Dispatcher
}

// NewService constructs a new [Service].
func NewService(repo Repository, dispatcher notify.Dispatcher) *Service {
	return &Service{repo: repo, dispatcher: dispatcher}
}

// Create posts a confession owned by the actor.
func (service *Service) Create(ctx context.Context, actor access.Actor, message string) (*Confession, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)

	validator := &validate.Validator{}
	validator.Required(FieldMessage, message).MaxLen(FieldMessage, message, MaxMessageLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	confession := &Confession{
		ID:         uuid.New(),
		Message:    message,
		PostedByID: actor.ID,
		Replies:    []social.Reply{},
	}

	if err := service.repo.Create(ctx, confession); err != nil {
		return nil, err
	}

	return confession, nil
}

// List returns one page of confessions that have not been deleted.
func (service *Service) List(ctx context.Context, actor access.Actor, page pagination.Params) ([]*Confession, int, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return nil, 0, err
	}

	confessions, total, err := service.repo.List(ctx, actor.ID, page)
	if err != nil {
		return nil, 0, err
	}
	if confessions == nil {
		confessions = []*Confession{}
	}
	return confessions, total, nil
}

func (service *Service) visible(ctx context.Context, id, viewerID string) (*Confession, error) {
	confession, err := service.repo.FindByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if confession.IsDeleted {
		return nil, apperr.NotFound("Confession")
	}
	return confession, nil
}

/*
ToggleLike likes the confession for the actor, or removes an existing like.

Description: A new like from someone other than the author pushes a notice to
the author without revealing who liked it.
*/
func (service *Service) ToggleLike(ctx context.Context, actor access.Actor, id string) (social.Reaction, error) {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return social.Reaction{}, err
	}

	confession, err := service.visible(ctx, id, actor.ID)
	if err != nil {
		return social.Reaction{}, err
	}

	reaction, err := service.repo.ToggleLike(ctx, id, actor.ID)
	if err != nil {
		return social.Reaction{}, err
	}

	if reaction.LikedByMe && !actor.Owns(confession.PostedByID) {
		service.dispatcher.NotifyUsers(ctx, []string{confession.PostedByID}, notify.Message{
			Title: "Someone liked your confession",
			Body:  "Your anonymous confession got a new like!",
			Data:  map[string]string{"type": "confession_like", "confessionId": confession.ID},
		})
	}

	return reaction, nil
}

// Reply appends a reply from the actor and returns the updated confession.
func (service *Service) Reply(ctx context.Context, actor access.Actor, id, message string) (*Confession, error) {
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

// Report flags the confession and tells every administrator.
func (service *Service) Report(ctx context.Context, actor access.Actor, id, reason string) error {
	if err := access.CanAct(actor, "", access.Authenticated); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)

	validator := &validate.Validator{}
	validator.MaxLen(FieldReason, reason, MaxReasonLength)
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.visible(ctx, id, actor.ID); err != nil {
		return err
	}

	report := &Report{ID: uuid.New(), ConfessionID: id, UserID: actor.ID, Reason: reason}
	if err := service.repo.Report(ctx, report); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "confession_reported",
		slog.String("confession_id", id),
		slog.String("reported_by", actor.ID),
	)

	shown := reason
	if shown == "" {
		shown = "No reason provided"
	}
	service.dispatcher.NotifyRole(ctx, sec.RoleAdmin, notify.Message{
		Title: "Confession Reported",
		Body:  "A confession has been reported for: " + shown,
		Data:  map[string]string{"type": "confession_report", "confessionId": id},
	})

	return nil
}

// Delete hides the confession. Only its author or an admin may do so.
func (service *Service) Delete(ctx context.Context, actor access.Actor, id string) error {
	confession, err := service.visible(ctx, id, actor.ID)
	if err != nil {
		return err
	}

	if err := access.CanAct(actor, confession.PostedByID, access.OwnerOrAdmin); err != nil {
		return err
	}

	return service.repo.SoftDelete(ctx, id)
}
