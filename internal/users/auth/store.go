// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given lower-cased email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUniID returns the account with the given university id.
	FindByUniID(ctx context.Context, uniID string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the email or university id is taken
	*/
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists the identity fields, verification flag and images.
	UpdateProfile(ctx context.Context, user *User) error

	// UpdatePassword replaces the password hash and revokes the refresh token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// MarkVerified sets isverified = true.
	MarkVerified(ctx context.Context, userID string) error

	// SetRefreshTokenHash stores hash as the only valid refresh token until expiresAt. Empty clears it.
	SetRefreshTokenHash(ctx context.Context, userID, hash string, expiresAt time.Time) error

	/*
		RotateRefreshTokenHash swaps oldHash for newHash in one conditional write.

		Description: Two concurrent refreshes with the same token cannot both
		succeed; the loser finds no row holding oldHash. A hash whose expiry is
		not after now is not swapped. The new hash is valid until expiresAt.

		Returns:
		  - *User: The account that held oldHash
		  - error: apperr.NotFound when no account holds an unexpired oldHash
	*/
	RotateRefreshTokenHash(ctx context.Context, oldHash, newHash string, now, expiresAt time.Time) (*User, error)

	/*
		AddDeviceToken appends token unless an equal token (ignoring case) is present.

		Returns:
		  - int: Number of tokens now registered for the user
		  - error: apperr.NotFound or database errors
	*/
	AddDeviceToken(ctx context.Context, userID, token string) (int, error)
}

// # Volatile Data Access

// TokenStore holds single-use tokens that map to a user id for a limited time.
type TokenStore interface {

	// Set stores token for userID, expiring after ttl.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error

	/*
		Consume returns the user id bound to token and deletes the token atomically.

		Returns:
		  - string: The user id
		  - error: apperr.NotFound if the token is unknown or expired
	*/
	Consume(ctx context.Context, token string) (string, error)
}
