// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify fans out push notifications and emails after a successful mutation.

Delivery is best-effort. A failed target is logged and counted, the remaining
targets are still attempted, and no error ever reaches the caller. Every call
is a single pass with no retry.

Architecture:

  - [PushSender]: delivers one message to one device token.
  - [Mailer]: delivers one message to a batch of addresses.
  - [Directory]: resolves user ids or roles into device tokens and addresses.
  - [Service]: the [Dispatcher] implementation composing the three.
*/
package notify

import (
	"context"
	"log/slog"

	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/metrics"
	"github.com/taibuivan/campus/internal/platform/sec"
)

// # Payloads

// Message is a push notification payload.
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Mail is an email payload. Text is required, HTML is optional.
type Mail struct {
	Subject string
	Text    string
	HTML    string
}

// Delivery summarises one fan-out pass.
type Delivery struct {
	// Audience is the number of users the targets were resolved from.
	Audience  int `json:"audience"`
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// Recipient is the notification view of a user.
type Recipient struct {
	UserID       string
	Email        string
	FCMToken     string
	DeviceTokens []string
}

// # Collaborators

// PushSender delivers a message to a single device token.
type PushSender interface {
	Send(ctx context.Context, token string, message Message) error
}

// Mailer delivers one email to every address in recipients.
type Mailer interface {
	Send(ctx context.Context, recipients []string, mail Mail) error
}

// Directory resolves notification targets from user records.
type Directory interface {
	RecipientsByID(ctx context.Context, userIDs []string) ([]Recipient, error)
	RecipientsByRole(ctx context.Context, role sec.UserRole) ([]Recipient, error)
}

// Dispatcher is the single entry point resource services use for side effects.
type Dispatcher interface {
	Push(ctx context.Context, tokens []string, message Message) Delivery
	Email(ctx context.Context, recipients []string, mail Mail) Delivery
	NotifyUsers(ctx context.Context, userIDs []string, message Message) Delivery
	NotifyRole(ctx context.Context, role sec.UserRole, message Message) Delivery
	EmailRole(ctx context.Context, role sec.UserRole, mail Mail) Delivery
}

// # Service

// Service implements [Dispatcher].
type Service struct {
	push      PushSender
	mailer    Mailer
	directory Directory
}

// NewService creates a new notification dispatcher.
func NewService(push PushSender, mailer Mailer, directory Directory) *Service {
	return &Service{push: push, mailer: mailer, directory: directory}
}

// Push sends message to each distinct valid token. One failure does not stop the rest.
func (service *Service) Push(ctx context.Context, tokens []string, message Message) Delivery {
	targets := CollectTokens(tokens...)
	delivery := Delivery{Attempted: len(targets)}

	for _, token := range targets {
		if err := service.push.Send(ctx, token, message); err != nil {
			delivery.Failed++
			ctxutil.GetLogger(ctx).WarnContext(ctx, "push_delivery_failed",
				slog.String("token_suffix", tokenSuffix(token)),
				slog.String("title", message.Title),
				slog.String("error", err.Error()),
			)
			continue
		}
		delivery.Sent++
	}

	record("push", delivery)
	return delivery
}

// Email sends one message addressed to every recipient.
// The batch either succeeds or fails as a whole.
func (service *Service) Email(ctx context.Context, recipients []string, mail Mail) Delivery {
	addresses := CollectAddresses(recipients...)
	delivery := Delivery{Attempted: len(addresses)}
	if len(addresses) == 0 {
		return delivery
	}

	if err := service.mailer.Send(ctx, addresses, mail); err != nil {
		delivery.Failed = len(addresses)
		ctxutil.GetLogger(ctx).WarnContext(ctx, "email_delivery_failed",
			slog.Int("recipients", len(addresses)),
			slog.String("subject", mail.Subject),
			slog.String("error", err.Error()),
		)
	} else {
		delivery.Sent = len(addresses)
	}

	record("email", delivery)
	return delivery
}

// NotifyUsers pushes message to every device of the given users.
func (service *Service) NotifyUsers(ctx context.Context, userIDs []string, message Message) Delivery {
	if len(userIDs) == 0 {
		return Delivery{}
	}

	recipients, err := service.directory.RecipientsByID(ctx, userIDs)
	if err != nil {
		service.lookupFailed(ctx, "by_id", err)
		return Delivery{}
	}

	delivery := service.Push(ctx, TokensOf(recipients), message)
	delivery.Audience = len(recipients)
	return delivery
}

// NotifyRole pushes message to every device of every user holding role.
func (service *Service) NotifyRole(ctx context.Context, role sec.UserRole, message Message) Delivery {
	recipients, err := service.directory.RecipientsByRole(ctx, role)
	if err != nil {
		service.lookupFailed(ctx, string(role), err)
		return Delivery{}
	}

	delivery := service.Push(ctx, TokensOf(recipients), message)
	delivery.Audience = len(recipients)
	return delivery
}

// EmailRole sends one batched email to every user holding role.
func (service *Service) EmailRole(ctx context.Context, role sec.UserRole, mail Mail) Delivery {
	recipients, err := service.directory.RecipientsByRole(ctx, role)
	if err != nil {
		service.lookupFailed(ctx, string(role), err)
		return Delivery{}
	}

	addresses := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		addresses = append(addresses, recipient.Email)
	}

	delivery := service.Email(ctx, addresses, mail)
	delivery.Audience = len(recipients)
	return delivery
}

func (service *Service) lookupFailed(ctx context.Context, audience string, err error) {
	ctxutil.GetLogger(ctx).ErrorContext(ctx, "notify_recipient_lookup_failed",
		slog.String("audience", audience),
		slog.String("error", err.Error()),
	)
}

func record(channel string, delivery Delivery) {
	if delivery.Sent > 0 {
		metrics.Notifications.WithLabelValues(channel, "sent").Add(float64(delivery.Sent))
	}
	if delivery.Failed > 0 {
		metrics.Notifications.WithLabelValues(channel, "failed").Add(float64(delivery.Failed))
	}
}

// tokenSuffix keeps device tokens out of the logs.
func tokenSuffix(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}
