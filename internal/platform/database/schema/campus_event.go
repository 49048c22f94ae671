// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusEventTable represents the 'campus.event' table
type CampusEventTable struct {
	Table             string
	ID                string
	Title             string
	Description       string
	CreatedBy         string
	SendEmail         string
	StudentsFound     string
	NotificationsSent string
	EmailsSent        string
	CreatedAt         string
}

// CampusEvent is the schema definition for campus.event
var CampusEvent = CampusEventTable{
	Table:             "campus.event",
	ID:                "id",
	Title:             "title",
	Description:       "description",
	CreatedBy:         "createdby",
	SendEmail:         "sendemail",
	StudentsFound:     "studentsfound",
	NotificationsSent: "notificationssent",
	EmailsSent:        "emailssent",
	CreatedAt:         "createdat",
}

func (t CampusEventTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.CreatedBy, t.SendEmail,
		t.StudentsFound, t.NotificationsSent, t.EmailsSent, t.CreatedAt,
	}
}
