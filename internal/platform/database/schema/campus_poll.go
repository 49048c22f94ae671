// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusPollTable represents the 'campus.poll' table
type CampusPollTable struct {
	Table      string
	ID         string
	Question   string
	CreatedBy  string
	IsActive   string
	ExpiresAt  string
	TotalVotes string
	CreatedAt  string
	UpdatedAt  string
}

// CampusPoll is the schema definition for campus.poll
var CampusPoll = CampusPollTable{
	Table:      "campus.poll",
	ID:         "id",
	Question:   "question",
	CreatedBy:  "createdby",
	IsActive:   "isactive",
	ExpiresAt:  "expiresat",
	TotalVotes: "totalvotes",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t CampusPollTable) Columns() []string {
	return []string{t.ID, t.Question, t.CreatedBy, t.IsActive, t.ExpiresAt, t.TotalVotes, t.CreatedAt, t.UpdatedAt}
}

// CampusPollOptionTable represents the 'campus.polloption' table
type CampusPollOptionTable struct {
	Table    string
	PollID   string
	Position string
	Text     string
	Votes    string
}

// CampusPollOption is the schema definition for campus.polloption
var CampusPollOption = CampusPollOptionTable{
	Table:    "campus.polloption",
	PollID:   "pollid",
	Position: "position",
	Text:     "text",
	Votes:    "votes",
}

// CampusPollVoteTable represents the 'campus.pollvote' table
type CampusPollVoteTable struct {
	Table       string
	PollID      string
	UserID      string
	OptionIndex string
	CreatedAt   string
}

// CampusPollVote is the schema definition for campus.pollvote
var CampusPollVote = CampusPollVoteTable{
	Table:       "campus.pollvote",
	PollID:      "pollid",
	UserID:      "userid",
	OptionIndex: "optionindex",
	CreatedAt:   "createdat",
}
