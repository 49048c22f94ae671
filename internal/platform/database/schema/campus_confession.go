// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusConfessionTable represents the 'campus.confession' table
type CampusConfessionTable struct {
	Table      string
	ID         string
	Message    string
	PostedBy   string
	IsReported string
	IsDeleted  string
	CreatedAt  string
	UpdatedAt  string
}

// CampusConfession is the schema definition for campus.confession
var CampusConfession = CampusConfessionTable{
	Table:      "campus.confession",
	ID:         "id",
	Message:    "message",
	PostedBy:   "postedby",
	IsReported: "isreported",
	IsDeleted:  "isdeleted",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t CampusConfessionTable) Columns() []string {
	return []string{t.ID, t.Message, t.PostedBy, t.IsReported, t.IsDeleted, t.CreatedAt, t.UpdatedAt}
}

// CampusConfessionLikeTable represents the 'campus.confessionlike' junction table
type CampusConfessionLikeTable struct {
	Table        string
	ConfessionID string
	UserID       string
	CreatedAt    string
}

// CampusConfessionLike is the schema definition for campus.confessionlike
var CampusConfessionLike = CampusConfessionLikeTable{
	Table:        "campus.confessionlike",
	ConfessionID: "confessionid",
	UserID:       "userid",
	CreatedAt:    "createdat",
}

// CampusConfessionReplyTable represents the 'campus.confessionreply' table
type CampusConfessionReplyTable struct {
	Table        string
	ID           string
	ConfessionID string
	UserID       string
	Message      string
	CreatedAt    string
}

// CampusConfessionReply is the schema definition for campus.confessionreply
var CampusConfessionReply = CampusConfessionReplyTable{
	Table:        "campus.confessionreply",
	ID:           "id",
	ConfessionID: "confessionid",
	UserID:       "userid",
	Message:      "message",
	CreatedAt:    "createdat",
}

// CampusConfessionReportTable represents the 'campus.confessionreport' table
type CampusConfessionReportTable struct {
	Table        string
	ID           string
	ConfessionID string
	UserID       string
	Reason       string
	CreatedAt    string
}

// CampusConfessionReport is the schema definition for campus.confessionreport
var CampusConfessionReport = CampusConfessionReportTable{
	Table:        "campus.confessionreport",
	ID:           "id",
	ConfessionID: "confessionid",
	UserID:       "userid",
	Reason:       "reason",
	CreatedAt:    "createdat",
}
