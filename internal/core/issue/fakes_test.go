// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
	"github.com/taibuivan/campus/pkg/pagination"
)

// memoryIssues is an in-memory [Repository] with the same conditional write as Postgres.
type memoryIssues struct {
	mu     sync.Mutex
	issues []*Issue
	users  map[string]*account.Summary
}

func newMemoryIssues() *memoryIssues {
	return &memoryIssues{users: map[string]*account.Summary{}}
}

func (m *memoryIssues) addUser(id, uniID, name string) {
	m.users[uniID] = &account.Summary{ID: id, UniID: uniID, FullName: name}
}

func (m *memoryIssues) FindByUniID(_ context.Context, uniID string) (*account.Summary, error) {
	if user, ok := m.users[uniID]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User with this University ID")
}

func (m *memoryIssues) Create(_ context.Context, issue *Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *issue
	m.issues = append([]*Issue{&stored}, m.issues...)
	return nil
}

func (m *memoryIssues) FindByID(_ context.Context, id string) (*Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, issue := range m.issues {
		if issue.ID == id {
			copied := *issue
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Issue")
}

func (m *memoryIssues) List(_ context.Context, page pagination.Params) ([]*Issue, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pagination.Window(m.issues, page), len(m.issues), nil
}

func (m *memoryIssues) ListByReporter(_ context.Context, userID string) ([]*Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*Issue
	for _, issue := range m.issues {
		if issue.ReportedByID == userID {
			found = append(found, issue)
		}
	}
	return found, nil
}

func (m *memoryIssues) UpdateStatus(_ context.Context, change transition.Change) (*Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, issue := range m.issues {
		if issue.ID != change.ID {
			continue
		}
		if issue.Status != change.From {
			return nil, transition.Stale("Issue")
		}
		issue.Status = change.To
		if change.Remark != "" {
			issue.AdminRemarks = change.Remark
		}
		at := change.At
		issue.StatusUpdatedAt = &at
		copied := *issue
		return &copied, nil
	}
	return nil, apperr.NotFound("Issue")
}

func (m *memoryIssues) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.issues, func(issue *Issue) bool { return issue.ID == id })
	if index < 0 {
		return apperr.NotFound("Issue")
	}
	m.issues = slices.Delete(m.issues, index, index+1)
	return nil
}
