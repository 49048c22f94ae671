// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package event implements administrator announcements.

Creating an event pushes it to every student device and, unless disabled,
sends a single email addressed to every student. The delivery counts are
stored with the event.
*/
package event

import (
	"time"

	"github.com/taibuivan/campus/internal/users/account"
)

// Event is an announcement sent to all students.
type Event struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CreatedByID string           `json:"-"`
	CreatedBy   *account.Summary `json:"createdBy"`
	SendEmail   bool             `json:"sendEmail"`
	Statistics  Statistics       `json:"statistics"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Statistics summarises the fan-out of one event.
type Statistics struct {
	StudentsFound     int `json:"studentsFound"`
	NotificationsSent int `json:"notificationsSent"`
	EmailsSent        int `json:"emailsSent"`
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldToken       = "token"
	FieldEvent       = "event"
	FieldEvents      = "events"
	FieldStatistics  = "statistics"
	FieldTokenCount  = "tokenCount"
	FieldPagination  = "pagination"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)
