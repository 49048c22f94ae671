// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/pkg/pagination"
)

type storedPoll struct {
	poll   Poll
	voters []string
}

type memoryPolls struct {
	mu    sync.Mutex
	polls []*storedPoll
}

func (m *memoryPolls) find(id string) *storedPoll {
	for _, stored := range m.polls {
		if stored.poll.ID == id {
			return stored
		}
	}
	return nil
}

func clonePoll(poll Poll) *Poll {
	poll.Options = slices.Clone(poll.Options)
	return &poll
}

func (m *memoryPolls) Create(_ context.Context, poll *Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	poll.CreatedAt = time.Now().UTC()
	poll.UpdatedAt = poll.CreatedAt
	m.polls = slices.Insert(m.polls, 0, &storedPoll{poll: *clonePoll(*poll)})
	return nil
}

func (m *memoryPolls) FindByID(_ context.Context, id string) (*Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored := m.find(id); stored != nil {
		return clonePoll(stored.poll), nil
	}
	return nil, apperr.NotFound("Poll")
}

func (m *memoryPolls) ListOpen(_ context.Context, now time.Time, page pagination.Params) ([]*Poll, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open []*Poll
	for _, stored := range m.polls {
		if stored.poll.Open(now) {
			open = append(open, clonePoll(stored.poll))
		}
	}
	return pagination.Window(open, page), len(open), nil
}

func (m *memoryPolls) HasVoted(_ context.Context, pollID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(pollID)
	return stored != nil && slices.Contains(stored.voters, userID), nil
}

func (m *memoryPolls) Vote(_ context.Context, ballot Ballot, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(ballot.PollID)
	switch {
	case stored == nil || !stored.poll.Open(now):
		return apperr.PollClosed()
	case slices.Contains(stored.voters, ballot.UserID):
		return apperr.AlreadyVoted()
	}
	stored.voters = append(stored.voters, ballot.UserID)
	stored.poll.Options[ballot.OptionIndex].Votes++
	stored.poll.TotalVotes++
	return nil
}

func (m *memoryPolls) Deactivate(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(id)
	if stored == nil || !stored.poll.IsActive {
		return false, nil
	}
	stored.poll.IsActive = false
	return true, nil
}

func (m *memoryPolls) Voters(_ context.Context, pollID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored := m.find(pollID); stored != nil {
		return slices.Clone(stored.voters), nil
	}
	return nil, nil
}

func (m *memoryPolls) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, stored := range m.polls {
		if stored.poll.ID == id {
			m.polls = slices.Delete(m.polls, i, i+1)
			return nil
		}
	}
	return apperr.NotFound("Poll")
}

func (m *memoryPolls) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var closed int64
	for _, stored := range m.polls {
		if stored.poll.IsActive && stored.poll.Expired(now) {
			stored.poll.IsActive = false
			closed++
		}
	}
	return closed, nil
}
