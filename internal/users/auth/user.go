// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the campus identity and credential store.

It owns the user record: identity (university id, email), credentials, role,
verification state, device tokens and the current refresh token.

# Architecture

  - [User]: the account entity. Secrets never serialize.
  - [UserRepository]: Postgres persistence, also the notification directory.
  - [TokenStore]: volatile single-use verification and reset tokens in Redis.
  - [Service]: registration, login, token rotation and profile use cases.
*/
package auth

import (
	"time"

	"github.com/taibuivan/campus/internal/platform/sec"
)

// # Domain Entities

// User represents a registered student or administrator.
type User struct {
	ID              string       `json:"id"`
	FullName        string       `json:"fullName"`
	UniID           string       `json:"uniId"`
	Email           string       `json:"email"`
	PasswordHash    string       `json:"-"`
	Role            sec.UserRole `json:"role"`
	IsVerified      bool         `json:"isVerified"`
	ProfileImageURL string       `json:"profileImageUrl"`
	UniCardImageURL string       `json:"uniCardImageUrl"`

	// FCMToken is the single device token older clients register.
	FCMToken     string   `json:"-"`
	DeviceTokens []string `json:"-"`

	// RefreshTokenHash is the SHA-256 of the only refresh token currently valid.
	RefreshTokenHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is the credential pair handed out by login and refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}
