// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusFeedbackTable represents the 'campus.feedback' table
type CampusFeedbackTable struct {
	Table           string
	ID              string
	Title           string
	Description     string
	Category        string
	Location        string
	Status          string
	AdminRemarks    string
	SubmittedBy     string
	StatusUpdatedAt string
	CreatedAt       string
	UpdatedAt       string
}

// CampusFeedback is the schema definition for campus.feedback
var CampusFeedback = CampusFeedbackTable{
	Table:           "campus.feedback",
	ID:              "id",
	Title:           "title",
	Description:     "description",
	Category:        "category",
	Location:        "location",
	Status:          "status",
	AdminRemarks:    "adminremarks",
	SubmittedBy:     "submittedby",
	StatusUpdatedAt: "statusupdatedat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CampusFeedbackTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Category, t.Location, t.Status,
		t.AdminRemarks, t.SubmittedBy, t.StatusUpdatedAt, t.CreatedAt, t.UpdatedAt,
	}
}
