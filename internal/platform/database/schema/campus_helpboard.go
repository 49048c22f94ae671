// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusHelpBoardPostTable represents the 'campus.helpboardpost' table
type CampusHelpBoardPostTable struct {
	Table           string
	ID              string
	Title           string
	Message         string
	PostedBy        string
	IsAnonymous     string
	Status          string
	StatusUpdatedAt string
	CreatedAt       string
	UpdatedAt       string
}

// CampusHelpBoardPost is the schema definition for campus.helpboardpost
var CampusHelpBoardPost = CampusHelpBoardPostTable{
	Table:           "campus.helpboardpost",
	ID:              "id",
	Title:           "title",
	Message:         "message",
	PostedBy:        "postedby",
	IsAnonymous:     "isanonymous",
	Status:          "status",
	StatusUpdatedAt: "statusupdatedat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CampusHelpBoardPostTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Message, t.PostedBy, t.IsAnonymous, t.Status,
		t.StatusUpdatedAt, t.CreatedAt, t.UpdatedAt,
	}
}

// CampusHelpBoardLikeTable represents the 'campus.helpboardlike' junction table
type CampusHelpBoardLikeTable struct {
	Table     string
	PostID    string
	UserID    string
	CreatedAt string
}

// CampusHelpBoardLike is the schema definition for campus.helpboardlike
var CampusHelpBoardLike = CampusHelpBoardLikeTable{
	Table:     "campus.helpboardlike",
	PostID:    "postid",
	UserID:    "userid",
	CreatedAt: "createdat",
}

// CampusHelpBoardReplyTable represents the 'campus.helpboardreply' table
type CampusHelpBoardReplyTable struct {
	Table     string
	ID        string
	PostID    string
	UserID    string
	Message   string
	CreatedAt string
}

// CampusHelpBoardReply is the schema definition for campus.helpboardreply
var CampusHelpBoardReply = CampusHelpBoardReplyTable{
	Table:     "campus.helpboardreply",
	ID:        "id",
	PostID:    "postid",
	UserID:    "userid",
	Message:   "message",
	CreatedAt: "createdat",
}
