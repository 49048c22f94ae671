// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package issue implements campus issue reports.

A student reports a problem with a title, a category, a GeoJSON location and
a photo. Administrators move the report through its statuses; rejecting a
report requires a remark, and the reporter is notified of every change.
*/
package issue

import (
	"time"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/geo"
)

// # Domain Entities

// Issue is a problem reported on campus.
type Issue struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Location        geo.Point        `json:"location"`
	PhotoURL        string           `json:"photo"`
	Status          string           `json:"status"`
	AdminRemarks    string           `json:"adminRemarks,omitempty"`
	ReportedByID    string           `json:"-"`
	ReportedBy      *account.Summary `json:"reportedBy,omitempty"`
	StatusUpdatedAt *time.Time       `json:"statusUpdatedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// OwnerID implements [transition.Subject].
func (i *Issue) OwnerID() string { return i.ReportedByID }

// CurrentStatus implements [transition.Subject].
func (i *Issue) CurrentStatus() string { return i.Status }

// # Enumerations

const (
	StatusPending  = "pending"
	StatusViewed   = "viewed"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

// Statuses is the closed set of issue statuses.
var Statuses = []string{StatusPending, StatusViewed, StatusResolved, StatusRejected}

// Categories is the closed set of issue categories, spelled as clients send them.
var Categories = []string{
	"Cleanliness",
	"safety",
	"enviornment",
	"drainage",
	"construction",
	"broken_resources",
	"other",
}

// NewMachine returns the issue state machine.
func NewMachine(lockTerminal bool) transition.Machine {
	return transition.Machine{
		Resource:       "Issue",
		States:         Statuses,
		Terminal:       []string{StatusResolved, StatusRejected},
		RemarkRequired: []string{StatusRejected},
		LockTerminal:   lockTerminal,
	}
}

// # Field Identifiers

const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldLocation     = "location"
	FieldPhoto        = "issueImage"
	FieldPhotoURL     = "photoUrl"
	FieldStatus       = "status"
	FieldAdminRemarks = "adminRemarks"
	FieldIssue        = "issue"
	FieldIssues       = "issues"
	FieldTotal        = "total"
	FieldPagination   = "pagination"
)
