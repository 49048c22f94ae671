// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusIssueTable represents the 'campus.issue' table
type CampusIssueTable struct {
	Table           string
	ID              string
	Title           string
	Description     string
	Category        string
	Longitude       string
	Latitude        string
	PhotoURL        string
	Status          string
	AdminRemarks    string
	ReportedBy      string
	StatusUpdatedAt string
	CreatedAt       string
	UpdatedAt       string
}

// CampusIssue is the schema definition for campus.issue
var CampusIssue = CampusIssueTable{
	Table:           "campus.issue",
	ID:              "id",
	Title:           "title",
	Description:     "description",
	Category:        "category",
	Longitude:       "longitude",
	Latitude:        "latitude",
	PhotoURL:        "photourl",
	Status:          "status",
	AdminRemarks:    "adminremarks",
	ReportedBy:      "reportedby",
	StatusUpdatedAt: "statusupdatedat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CampusIssueTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Category, t.Longitude, t.Latitude, t.PhotoURL,
		t.Status, t.AdminRemarks, t.ReportedBy, t.StatusUpdatedAt, t.CreatedAt, t.UpdatedAt,
	}
}
