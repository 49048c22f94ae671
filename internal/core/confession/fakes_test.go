// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package confession

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/pkg/pagination"
)

type storedConfession struct {
	confession Confession
	likes      map[string]bool
	replies    []social.Reply
}

type memoryConfessions struct {
	mu          sync.Mutex
	confessions []*storedConfession
	reports     []Report
}

func (m *memoryConfessions) find(id string) *storedConfession {
	for _, stored := range m.confessions {
		if stored.confession.ID == id {
			return stored
		}
	}
	return nil
}

func (stored *storedConfession) view(viewerID string) *Confession {
	confession := stored.confession
	confession.LikeCount = len(stored.likes)
	confession.LikedByMe = stored.likes[viewerID]
	confession.Replies = append([]social.Reply{}, stored.replies...)
	return &confession
}

func (m *memoryConfessions) Create(_ context.Context, confession *Confession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confessions = slices.Insert(m.confessions, 0, &storedConfession{confession: *confession, likes: map[string]bool{}})
	return nil
}

func (m *memoryConfessions) FindByID(_ context.Context, id, viewerID string) (*Confession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored := m.find(id); stored != nil {
		return stored.view(viewerID), nil
	}
	return nil, apperr.NotFound("Confession")
}

func (m *memoryConfessions) List(_ context.Context, viewerID string, page pagination.Params) ([]*Confession, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var listed []*Confession
	for _, stored := range m.confessions {
		if !stored.confession.IsDeleted {
			listed = append(listed, stored.view(viewerID))
		}
	}
	return pagination.Window(listed, page), len(listed), nil
}

func (m *memoryConfessions) ToggleLike(_ context.Context, confessionID, userID string) (social.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(confessionID)
	if stored == nil {
		return social.Reaction{}, apperr.NotFound("Confession")
	}
	if stored.likes[userID] {
		delete(stored.likes, userID)
	} else {
		stored.likes[userID] = true
	}
	return social.Reaction{ID: confessionID, LikeCount: len(stored.likes), LikedByMe: stored.likes[userID]}, nil
}

func (m *memoryConfessions) AddReply(_ context.Context, confessionID string, reply *social.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(confessionID)
	if stored == nil {
		return apperr.NotFound("Confession")
	}
	stored.replies = append(stored.replies, *reply)
	return nil
}

func (m *memoryConfessions) Report(_ context.Context, report *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(report.ConfessionID)
	if stored == nil || stored.confession.IsDeleted {
		return apperr.NotFound("Confession")
	}
	stored.confession.IsReported = true
	m.reports = append(m.reports, *report)
	return nil
}

func (m *memoryConfessions) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(id)
	if stored == nil || stored.confession.IsDeleted {
		return apperr.NotFound("Confession")
	}
	stored.confession.IsDeleted = true
	return nil
}
