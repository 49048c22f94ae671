// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Token Lifetimes

// Settings carries the configurable parts of the credential lifecycle.
type Settings struct {
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration

	// FrontendURL prefixes the links sent by email.
	FrontendURL string

	// AdminInviteCode gates admin registration. Empty disables it.
	AdminInviteCode string
}

// # Field Identifiers

// Field names used in validation details and request bodies.
const (
	FieldFullName     = "fullName"
	FieldUniID        = "uniId"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldNewPassword  = "newPassword"
	FieldRole         = "role"
	FieldInviteCode   = "inviteCode"
	FieldToken        = "token"
	FieldRefreshToken = "refreshToken"
	FieldUniCardImage = "uniCardImage"
	FieldProfileImage = "profileImage"
	FieldUser         = "user"
)

// MinPasswordLength is the shortest password accepted at registration and reset.
const MinPasswordLength = 8
