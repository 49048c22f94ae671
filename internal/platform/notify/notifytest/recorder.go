// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package notifytest provides a recording [notify.Dispatcher] for service tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
)

// UserNotice is one NotifyUsers call.
type UserNotice struct {
	UserIDs []string
	Message notify.Message
}

// RoleNotice is one NotifyRole call.
type RoleNotice struct {
	Role    sec.UserRole
	Message notify.Message
}

// EmailNotice is one Email or EmailRole call. Role is empty for direct emails.
type EmailNotice struct {
	Recipients []string
	Role       sec.UserRole
	Mail       notify.Mail
}

// Recorder implements notify.Dispatcher by remembering every call.
//
// RoleSize is reported as the audience and delivery count of role-wide calls.
type Recorder struct {
	RoleSize int

	mu     sync.Mutex
	users  []UserNotice
	roles  []RoleNotice
	emails []EmailNotice
	pushes [][]string
}

var _ notify.Dispatcher = (*Recorder)(nil)

func (r *Recorder) Push(_ context.Context, tokens []string, _ notify.Message) notify.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, tokens)
	return notify.Delivery{Attempted: len(tokens), Sent: len(tokens)}
}

func (r *Recorder) Email(_ context.Context, recipients []string, mail notify.Mail) notify.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, EmailNotice{Recipients: recipients, Mail: mail})
	return notify.Delivery{Attempted: len(recipients), Sent: len(recipients)}
}

func (r *Recorder) NotifyUsers(_ context.Context, userIDs []string, message notify.Message) notify.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, UserNotice{UserIDs: userIDs, Message: message})
	return notify.Delivery{Audience: len(userIDs), Attempted: len(userIDs), Sent: len(userIDs)}
}

func (r *Recorder) NotifyRole(_ context.Context, role sec.UserRole, message notify.Message) notify.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles = append(r.roles, RoleNotice{Role: role, Message: message})
	return notify.Delivery{Audience: r.RoleSize, Attempted: r.RoleSize, Sent: r.RoleSize}
}

func (r *Recorder) EmailRole(_ context.Context, role sec.UserRole, mail notify.Mail) notify.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, EmailNotice{Role: role, Mail: mail})
	return notify.Delivery{Audience: r.RoleSize, Attempted: r.RoleSize, Sent: r.RoleSize}
}

// Users returns the recorded NotifyUsers calls.
func (r *Recorder) Users() []UserNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]UserNotice(nil), r.users...)
}

// Roles returns the recorded NotifyRole calls.
func (r *Recorder) Roles() []RoleNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RoleNotice(nil), r.roles...)
}

// Emails returns the recorded Email and EmailRole calls.
func (r *Recorder) Emails() []EmailNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailNotice(nil), r.emails...)
}

// Pushes returns the token lists of the recorded Push calls.
func (r *Recorder) Pushes() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.pushes...)
}
