// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/database/schema"
	"github.com/taibuivan/campus/internal/platform/dberr"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] and [notify.Directory] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var account = schema.UserAccount

// selectUser is the shared projection scanned by [scanUser].
var selectUser = fmt.Sprintf(`SELECT %s FROM %s`, schema.Join("", account.Columns()...), account.Table)

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var fcmToken, refreshHash *string

	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.UniID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.ProfileImageURL,
		&user.UniCardImageURL,
		&fcmToken,
		&user.DeviceTokens,
		&refreshHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fcmToken != nil {
		user.FCMToken = *fcmToken
	}
	if refreshHash != nil {
		user.RefreshTokenHash = *refreshHash
	}
	return &user, nil
}

func (repository *PostgresUserRepository) findOne(ctx context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectUser, column)

	user, err := scanUser(repository.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("User")
	}
	return repository.findOne(ctx, account.ID, id, "find_user_by_id")
}

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findOne(ctx, account.Email, email, "find_user_by_email")
}

// FindByUniID retrieves a user record by their university id.
func (repository *PostgresUserRepository) FindByUniID(ctx context.Context, uniID string) (*User, error) {
	return repository.findOne(ctx, account.UniID, uniID, "find_user_by_uniid")
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist, timestamps are filled in)

Returns:
  - error: apperr.Conflict on a duplicate email or university id
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		account.Table,
		account.ID, account.FullName, account.UniID, account.Email, account.PasswordHash,
		account.Role, account.IsVerified, account.ProfileImageURL, account.UniCardImageURL,
		account.CreatedAt, account.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.UniID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.ProfileImageURL,
		user.UniCardImageURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return mapIdentityConflict(err, "create_user")
}

// UpdateProfile rewrites the mutable identity fields.
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		account.Table,
		account.FullName, account.UniID, account.Email, account.IsVerified,
		account.ProfileImageURL, account.UniCardImageURL, account.UpdatedAt,
		account.ID,
		account.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.UniID,
		user.Email,
		user.IsVerified,
		user.ProfileImageURL,
		user.UniCardImageURL,
	).Scan(&user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("User")
	}
	return mapIdentityConflict(err, "update_user_profile")
}

// UpdatePassword replaces the password hash and signs the user out everywhere.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NULL, %s = NULL, %s = NOW() WHERE %s = $1`,
		account.Table, account.PasswordHash, account.RefreshTokenHash, account.RefreshExpiresAt, account.UpdatedAt, account.ID)

	return repository.execOne(ctx, "update_user_password", query, userID, passwordHash)
}

// MarkVerified updates the user's status to isverified = true.
func (repository *PostgresUserRepository) MarkVerified(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		account.Table, account.IsVerified, account.UpdatedAt, account.ID)

	return repository.execOne(ctx, "mark_user_verified", query, userID)
}

// SetRefreshTokenHash stores or clears the refresh token hash together with its expiry.
func (repository *PostgresUserRepository) SetRefreshTokenHash(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = NULLIF($2, ''),
		    %s = CASE WHEN $2 = '' THEN NULL ELSE $3::timestamptz END,
		    %s = NOW()
		WHERE %s = $1`,
		account.Table, account.RefreshTokenHash, account.RefreshExpiresAt, account.UpdatedAt, account.ID)

	return repository.execOne(ctx, "set_refresh_token", query, userID, hash, expiresAt)
}

// rotateRefreshQuery binds the old hash, new hash, clock and new expiry as $1..$4.
var rotateRefreshQuery = fmt.Sprintf(`
	UPDATE %s SET %s = $2, %s = $4, %s = NOW()
	WHERE %s = $1 AND %s > $3
	RETURNING %s`,
	account.Table, account.RefreshTokenHash, account.RefreshExpiresAt, account.UpdatedAt,
	account.RefreshTokenHash, account.RefreshExpiresAt,
	schema.Join("", account.Columns()...),
)

// RotateRefreshTokenHash swaps the refresh token hash only if oldHash is still current and unexpired.
func (repository *PostgresUserRepository) RotateRefreshTokenHash(ctx context.Context, oldHash, newHash string, now, expiresAt time.Time) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(ctx, rotateRefreshQuery, oldHash, newHash, now, expiresAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, dberr.Wrap(err, "rotate_refresh_token")
	}
	return user, nil
}

/*
AddDeviceToken appends a push token in a single statement.

Description: The row lock taken by UPDATE serialises concurrent registrations,
so the case-insensitive membership test and the append cannot interleave.

Returns:
  - int: Token count after the call
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) AddDeviceToken(ctx context.Context, userID, token string) (int, error) {
	if !uuid.Valid(userID) {
		return 0, apperr.NotFound("User")
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = CASE
				WHEN EXISTS (SELECT 1 FROM unnest(%[2]s) AS existing WHERE lower(existing) = lower($2))
				THEN %[2]s
				ELSE array_append(%[2]s, $2)
			END,
			%[3]s = NOW()
		WHERE %[4]s = $1
		RETURNING cardinality(%[2]s)`,
		account.Table, account.DeviceTokens, account.UpdatedAt, account.ID)

	var count int
	if err := repository.pool.QueryRow(ctx, query, userID, token).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("User")
		}
		return 0, dberr.Wrap(err, "add_device_token")
	}
	return count, nil
}

// # Notification Directory

// RecipientsByID resolves the notification targets of the given users.
func (repository *PostgresUserRepository) RecipientsByID(ctx context.Context, userIDs []string) ([]notify.Recipient, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1::uuid[])`,
		account.ID, account.Email, account.FCMToken, account.DeviceTokens, account.Table, account.ID)

	valid := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if uuid.Valid(id) {
			valid = append(valid, id)
		}
	}

	return repository.recipients(ctx, "recipients_by_id", query, valid)
}

// RecipientsByRole resolves the notification targets of every user holding role.
func (repository *PostgresUserRepository) RecipientsByRole(ctx context.Context, role sec.UserRole) ([]notify.Recipient, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		account.ID, account.Email, account.FCMToken, account.DeviceTokens, account.Table, account.Role)

	return repository.recipients(ctx, "recipients_by_role", query, role)
}

func (repository *PostgresUserRepository) recipients(ctx context.Context, action, query string, args ...any) ([]notify.Recipient, error) {
	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var recipients []notify.Recipient
	for rows.Next() {
		var recipient notify.Recipient
		var fcmToken *string
		if err := rows.Scan(&recipient.UserID, &recipient.Email, &fcmToken, &recipient.DeviceTokens); err != nil {
			return nil, dberr.Wrap(err, action)
		}
		if fcmToken != nil {
			recipient.FCMToken = *fcmToken
		}
		recipients = append(recipients, recipient)
	}

	return recipients, dberr.Wrap(rows.Err(), action)
}

// # Helpers

func (repository *PostgresUserRepository) execOne(ctx context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// mapIdentityConflict turns the unique index violations into client messages.
func mapIdentityConflict(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, account.EmailKey):
		return apperr.Conflict("Email is already registered")
	case dberr.IsUniqueViolation(err, account.UniIDKey):
		return apperr.Conflict("University ID is already registered")
	default:
		return dberr.Wrap(err, action)
	}
}
