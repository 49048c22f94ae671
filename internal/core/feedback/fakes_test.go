// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

type memoryFeedback struct {
	mu      sync.Mutex
	entries []*Feedback
}

func (m *memoryFeedback) Create(_ context.Context, feedback *Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *feedback
	m.entries = append([]*Feedback{&stored}, m.entries...)
	return nil
}

func (m *memoryFeedback) FindByID(_ context.Context, id string) (*Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Feedback")
}

func (m *memoryFeedback) List(_ context.Context, submittedBy string, page pagination.Params) ([]*Feedback, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Feedback
	for _, entry := range m.entries {
		if submittedBy == "" || entry.SubmittedByID == submittedBy {
			matched = append(matched, entry)
		}
	}
	return pagination.Window(matched, page), len(matched), nil
}

func (m *memoryFeedback) UpdateStatus(_ context.Context, change transition.Change) (*Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.ID != change.ID {
			continue
		}
		if entry.Status != change.From {
			return nil, transition.Stale("Feedback")
		}
		entry.Status = change.To
		if change.Remark != "" {
			entry.AdminRemarks = change.Remark
		}
		at := change.At
		entry.StatusUpdatedAt = &at
		copied := *entry
		return &copied, nil
	}
	return nil, apperr.NotFound("Feedback")
}

func (m *memoryFeedback) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.entries, func(entry *Feedback) bool { return entry.ID == id })
	if index < 0 {
		return apperr.NotFound("Feedback")
	}
	m.entries = slices.Delete(m.entries, index, index+1)
	return nil
}
