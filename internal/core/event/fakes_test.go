// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/pkg/pagination"
)

type memoryEvents struct {
	mu     sync.Mutex
	events []Event
}

func (m *memoryEvents) Create(_ context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.CreatedAt = time.Now().UTC()
	m.events = slices.Insert(m.events, 0, *event)
	return nil
}

func (m *memoryEvents) FindByID(_ context.Context, id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			return &event, nil
		}
	}
	return nil, apperr.NotFound("Event")
}

func (m *memoryEvents) List(_ context.Context, page pagination.Params) ([]*Event, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listed := make([]*Event, len(m.events))
	for i := range m.events {
		event := m.events[i]
		listed[i] = &event
	}
	return pagination.Window(listed, page), len(listed), nil
}

func (m *memoryEvents) RecordStatistics(_ context.Context, id string, statistics Statistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Statistics = statistics
			return nil
		}
	}
	return apperr.NotFound("Event")
}

// memoryDevices keeps per-user token sets with case-insensitive membership.
type memoryDevices struct {
	mu     sync.Mutex
	tokens map[string][]string
}

func (m *memoryDevices) RegisterDeviceToken(_ context.Context, userID, token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string][]string{}
	}
	for _, existing := range m.tokens[userID] {
		if strings.EqualFold(existing, token) {
			return len(m.tokens[userID]), nil
		}
	}
	m.tokens[userID] = append(m.tokens[userID], token)
	return len(m.tokens[userID]), nil
}
