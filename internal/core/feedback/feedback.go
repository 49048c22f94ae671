// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package feedback implements student feedback to the campus administration.
package feedback

import (
	"time"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
)

// Feedback is a suggestion, complaint or other note sent to the administration.
type Feedback struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Location        string           `json:"location"`
	Status          string           `json:"status"`
	AdminRemarks    string           `json:"adminRemarks,omitempty"`
	SubmittedByID   string           `json:"-"`
	SubmittedBy     *account.Summary `json:"submittedBy,omitempty"`
	StatusUpdatedAt *time.Time       `json:"statusUpdatedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (f *Feedback) OwnerID() string       { return f.SubmittedByID }
func (f *Feedback) CurrentStatus() string { return f.Status }

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

var Statuses = []string{StatusPending, StatusReviewed, StatusResolved, StatusRejected}

var Categories = []string{"suggestion", "complaint", "appreciation", "teacher_absentee", "other"}

const DefaultCategory = "suggestion"

// NewMachine returns the feedback state machine.
func NewMachine(lockTerminal bool) transition.Machine {
	return transition.Machine{
		Resource:     "Feedback",
		States:       Statuses,
		Terminal:     []string{StatusResolved, StatusRejected},
		LockTerminal: lockTerminal,
	}
}

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldLocation    = "location"
	FieldFeedback    = "feedback"
	FieldFeedbacks   = "feedbacks"
	FieldPagination  = "pagination"
)
