// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/campus/internal/platform/apperr"
)

// memoryUsers is an in-memory [UserRepository] with the same conditional semantics as Postgres.
type memoryUsers struct {
	mu      sync.Mutex
	users   map[string]*User
	refresh map[string]time.Time
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*User{}, refresh: map[string]time.Time{}}
}

func (m *memoryUsers) find(match func(*User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *memoryUsers) FindByUniID(_ context.Context, uniID string) (*User, error) {
	return m.find(func(u *User) bool { return u.UniID == uniID })
}

func (m *memoryUsers) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.UniID == user.UniID {
			return apperr.Conflict("duplicate")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUsers) update(id string, mutate func(*User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	mutate(user)
	return nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, user *User) error {
	return m.update(user.ID, func(stored *User) {
		stored.FullName = user.FullName
		stored.UniID = user.UniID
		stored.Email = user.Email
		stored.IsVerified = user.IsVerified
		stored.ProfileImageURL = user.ProfileImageURL
		stored.UniCardImageURL = user.UniCardImageURL
	})
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	return m.update(userID, func(stored *User) {
		stored.PasswordHash = passwordHash
		stored.RefreshTokenHash = ""
		delete(m.refresh, stored.ID)
	})
}

func (m *memoryUsers) MarkVerified(_ context.Context, userID string) error {
	return m.update(userID, func(stored *User) { stored.IsVerified = true })
}

func (m *memoryUsers) SetRefreshTokenHash(_ context.Context, userID, hash string, expiresAt time.Time) error {
	return m.update(userID, func(stored *User) {
		stored.RefreshTokenHash = hash
		if hash == "" {
			delete(m.refresh, userID)
			return
		}
		m.refresh[userID] = expiresAt
	})
}

func (m *memoryUsers) RotateRefreshTokenHash(_ context.Context, oldHash, newHash string, now, expiresAt time.Time) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if oldHash != "" && user.RefreshTokenHash == oldHash && m.refresh[user.ID].After(now) {
			user.RefreshTokenHash = newHash
			m.refresh[user.ID] = expiresAt
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (m *memoryUsers) AddDeviceToken(_ context.Context, userID, token string) (int, error) {
	var count int
	err := m.update(userID, func(stored *User) {
		for _, existing := range stored.DeviceTokens {
			if strings.EqualFold(existing, token) {
				count = len(stored.DeviceTokens)
				return
			}
		}
		stored.DeviceTokens = append(stored.DeviceTokens, token)
		count = len(stored.DeviceTokens)
	})
	return count, err
}

// memoryTokens is an in-memory [TokenStore].
type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]string{}}
}

func (m *memoryTokens) Set(_ context.Context, token, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *memoryTokens) Consume(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return "", apperr.NotFound("Token")
	}
	delete(m.tokens, token)
	return userID, nil
}

// only returns the single stored token, for tests that issued exactly one.
func (m *memoryTokens) only() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token := range m.tokens {
		return token
	}
	return ""
}

// stubTokens signs nothing; the access token just names the user.
type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "access-" + userID + "-" + role, nil
}
