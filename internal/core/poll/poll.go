// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poll implements campus polls.

A poll offers at least two options and optionally expires. Each user may vote
once; the ballot, the option count and the poll total are written together.
A poll past its expiry is closed when read, and the sweeper persists that
state for polls nobody reads.
*/
package poll

import (
	"time"

	"github.com/taibuivan/campus/internal/users/account"
)

// Poll is a question with a fixed list of options.
type Poll struct {
	ID          string           `json:"id"`
	Question    string           `json:"question"`
	Options     []Option         `json:"options"`
	CreatedByID string           `json:"-"`
	CreatedBy   *account.Summary `json:"createdBy"`
	IsActive    bool             `json:"isActive"`
	ExpiresAt   *time.Time       `json:"expiresAt"`
	TotalVotes  int              `json:"totalVotes"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Option is one answer. Its index in Poll.Options is what a ballot names.
type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Ballot is one user's vote.
type Ballot struct {
	PollID      string
	UserID      string
	OptionIndex int
}

// Expired reports whether the poll has an expiry that lies before now.
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Open reports whether the poll accepts ballots at now.
func (p *Poll) Open(now time.Time) bool {
	return p.IsActive && !p.Expired(now)
}

// settle applies read-time expiry.
func (p *Poll) settle(now time.Time) *Poll {
	if p.Expired(now) {
		p.IsActive = false
	}
	return p
}

const MinOptions = 2

const (
	FieldQuestion    = "question"
	FieldOptions     = "options"
	FieldExpiresAt   = "expiresAt"
	FieldOptionIndex = "optionIndex"
	FieldPoll        = "poll"
	FieldPolls       = "polls"
	FieldHasVoted    = "hasVoted"
	FieldPagination  = "pagination"
)

const (
	MaxQuestionLength = 500
	MaxOptionLength   = 200
)
