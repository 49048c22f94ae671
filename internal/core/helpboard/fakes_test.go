// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/campus/internal/core/social"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

type storedPost struct {
	post    Post
	likes   map[string]bool
	replies []social.Reply
}

type memoryPosts struct {
	mu    sync.Mutex
	posts []*storedPost
}

func (m *memoryPosts) find(id string) *storedPost {
	for _, stored := range m.posts {
		if stored.post.ID == id {
			return stored
		}
	}
	return nil
}

func (stored *storedPost) view(viewerID string) *Post {
	post := stored.post
	post.LikeCount = len(stored.likes)
	post.LikedByMe = stored.likes[viewerID]
	post.Replies = slices.Clone(stored.replies)
	if post.Replies == nil {
		post.Replies = []social.Reply{}
	}
	return &post
}

func (m *memoryPosts) Create(_ context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append([]*storedPost{{post: *post, likes: map[string]bool{}}}, m.posts...)
	return nil
}

func (m *memoryPosts) FindByID(_ context.Context, id, viewerID string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored := m.find(id); stored != nil {
		return stored.view(viewerID), nil
	}
	return nil, apperr.NotFound("Post")
}

func (m *memoryPosts) ListActive(_ context.Context, viewerID string, page pagination.Params) ([]*Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []*Post
	for _, stored := range m.posts {
		if stored.post.Status == StatusActive {
			active = append(active, stored.view(viewerID))
		}
	}
	return pagination.Window(active, page), len(active), nil
}

func (m *memoryPosts) ToggleLike(_ context.Context, postID, userID string) (social.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(postID)
	if stored == nil {
		return social.Reaction{}, apperr.NotFound("Post")
	}
	if stored.likes[userID] {
		delete(stored.likes, userID)
	} else {
		stored.likes[userID] = true
	}
	return social.Reaction{ID: postID, LikeCount: len(stored.likes), LikedByMe: stored.likes[userID]}, nil
}

func (m *memoryPosts) AddReply(_ context.Context, postID string, reply *social.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(postID)
	if stored == nil {
		return apperr.NotFound("Post")
	}
	stored.replies = append(stored.replies, *reply)
	return nil
}

func (m *memoryPosts) UpdateStatus(_ context.Context, change transition.Change) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.find(change.ID)
	if stored == nil {
		return nil, apperr.NotFound("Post")
	}
	if stored.post.Status != change.From {
		return nil, transition.Stale("Post")
	}
	stored.post.Status = change.To
	at := change.At
	stored.post.StatusUpdatedAt = &at
	return stored.view(""), nil
}
