// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/notify"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, uniID, role string, timeToLive time.Duration) (string, error)
}

// Service implements the account use cases.
type Service struct {
	users         UserRepository
	verifyTokens  TokenStore
	resetTokens   TokenStore
	tokenProvider TokenProvider
	dispatcher    notify.Dispatcher
	settings      Settings
	now           func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	verifyTokens TokenStore,
	resetTokens TokenStore,
	tokenProvider TokenProvider,
	dispatcher notify.Dispatcher,
	settings Settings,
) *Service {
	return &Service{
		users:         users,
		verifyTokens:  verifyTokens,
		resetTokens:   resetTokens,
		tokenProvider: tokenProvider,
		dispatcher:    dispatcher,
		settings:      settings,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FullName        string
	UniID           string
	Email           string
	Password        string
	Role            string
	InviteCode      string
	ProfileImageURL string
	UniCardImageURL string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The account starts unverified. A verification link is emailed
best-effort; a delivery failure does not undo the registration.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Forbidden (bad invite code), Conflict or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.UniID = strings.TrimSpace(input.UniID)
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldUniID, input.UniID).
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	if input.Password != "" {
		validator.MinLen(FieldPassword, input.Password, MinPasswordLength)
	}
	validator.Custom(FieldUniCardImage, strings.TrimSpace(input.UniCardImageURL) == "", "University card image is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	role, err := service.resolveRole(input.Role, input.InviteCode)
	if err != nil {
		return nil, err
	}

	// Friendly duplicate check. The unique indexes still catch a racing insert.
	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email or University ID already registered")
	}
	if _, err := service.users.FindByUniID(ctx, input.UniID); err == nil {
		return nil, apperr.Conflict("Email or University ID already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:              uuid.New(),
		FullName:        input.FullName,
		UniID:           input.UniID,
		Email:           input.Email,
		PasswordHash:    hashedPassword,
		Role:            role,
		ProfileImageURL: input.ProfileImageURL,
		UniCardImageURL: input.UniCardImageURL,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	service.sendVerification(ctx, user)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// resolveRole maps the requested role, requiring the invite code for admins.
func (service *Service) resolveRole(requested, inviteCode string) (sec.UserRole, error) {
	switch sec.UserRole(strings.TrimSpace(requested)) {
	case "", sec.RoleStudent:
		return sec.RoleStudent, nil
	case sec.RoleAdmin:
		if service.settings.AdminInviteCode == "" || inviteCode != service.settings.AdminInviteCode {
			return "", apperr.Forbidden("A valid invite code is required to register as admin")
		}
		return sec.RoleAdmin, nil
	default:
		return "", validate.RequiredError(FieldRole, "Must be one of: student, admin")
	}
}

// sendVerification stores a fresh verification token and emails its link.
func (service *Service) sendVerification(ctx context.Context, user *User) {
	logger := ctxutil.GetLogger(ctx)

	token, err := sec.GenerateSecureToken(constants.OpaqueTokenBytes)
	if err != nil {
		logger.ErrorContext(ctx, "verification_token_failed", slog.String("error", err.Error()))
		return
	}

	if err := service.verifyTokens.Set(ctx, token, user.ID, service.settings.VerificationTokenTTL); err != nil {
		logger.ErrorContext(ctx, "verification_token_store_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	link := service.link("/verify-email/" + token)
	service.dispatcher.Email(ctx, []string{user.Email}, notify.Mail{
		Subject: "Verify your email",
		Text:    fmt.Sprintf("Hi %s,\n\nConfirm your campus account by opening this link:\n%s\n", user.FullName, link),
		HTML:    fmt.Sprintf(`<p>Hi %s,</p><p>Confirm your campus account:</p><p><a href="%s">Verify email</a></p>`,
			html.EscapeString(user.FullName), html.EscapeString(link)),
	})
}

/*
VerifyEmail confirms a user's email address using a single-use token.

Returns:
  - error: Validation error for an unknown or expired token
*/
func (service *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := service.verifyTokens.Consume(ctx, strings.TrimSpace(token))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.ValidationError("Invalid or expired verification token")
		}
		return err
	}

	return service.users.MarkVerified(ctx, userID)
}

// # Authentication Flow

/*
Login validates user credentials and issues a token pair.

Description: The refresh token is stored hashed; issuing a new one revokes the
previous one.

Returns:
  - *Session: Access token, refresh token and the user
  - error: Unauthorized for bad credentials, Forbidden when unverified
*/
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	if !user.IsVerified {
		return nil, apperr.Forbidden("Please verify your email before logging in")
	}

	accessToken, refreshToken, err := service.issuePair(user)
	if err != nil {
		return nil, err
	}

	expiresAt := service.now().Add(service.settings.RefreshTokenTTL)
	if err := service.users.SetRefreshTokenHash(ctx, user.ID, sec.HashToken(refreshToken), expiresAt); err != nil {
		return nil, err
	}
	user.RefreshTokenHash = sec.HashToken(refreshToken)

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

/*
Refresh rotates the refresh token and issues a new access token.

Returns:
  - *Session: The new pair
  - error: Unauthorized when missing, Forbidden when it is not the current token or has expired
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperr.Unauthorized("No refresh token provided")
	}

	newRefreshToken, err := sec.GenerateSecureToken(constants.OpaqueTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	user, err := service.users.RotateRefreshTokenHash(ctx,
		sec.HashToken(refreshToken), sec.HashToken(newRefreshToken),
		now, now.Add(service.settings.RefreshTokenTTL),
	)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Forbidden("Invalid refresh token")
		}
		return nil, err
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.UniID, string(user.Role), service.settings.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &Session{AccessToken: accessToken, RefreshToken: newRefreshToken, User: user}, nil
}

// Logout clears the stored refresh token of the user.
func (service *Service) Logout(ctx context.Context, userID string) error {
	return service.users.SetRefreshTokenHash(ctx, userID, "", time.Time{})
}

func (service *Service) issuePair(user *User) (string, string, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.UniID, string(user.Role), service.settings.AccessTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.OpaqueTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return accessToken, refreshToken, nil
}

// # Profile

// Profile returns the account of userID.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

// UpdateProfileInput holds the editable identity fields. Empty image URLs keep the current image.
type UpdateProfileInput struct {
	FullName        string
	UniID           string
	Email           string
	ProfileImageURL string
	UniCardImageURL string
}

/*
UpdateProfile edits the identity fields of an account.

Description: Changing the email un-verifies the account and sends a new
verification link to the new address.

Returns:
  - *User: Updated entity
  - bool: Whether the email changed
  - error: Validation, Conflict or storage errors
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, bool, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.UniID = strings.TrimSpace(input.UniID)
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldUniID, input.UniID).
		Required(FieldEmail, input.Email)
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	emailChanged := user.Email != input.Email
	if emailChanged {
		if other, err := service.users.FindByEmail(ctx, input.Email); err == nil && other.ID != user.ID {
			return nil, false, apperr.Conflict("Email already in use by another user")
		}
	}
	if user.UniID != input.UniID {
		if other, err := service.users.FindByUniID(ctx, input.UniID); err == nil && other.ID != user.ID {
			return nil, false, apperr.Conflict("University ID already in use by another user")
		}
	}

	user.FullName = input.FullName
	user.UniID = input.UniID
	user.Email = input.Email
	if input.ProfileImageURL != "" {
		user.ProfileImageURL = input.ProfileImageURL
	}
	if input.UniCardImageURL != "" {
		user.UniCardImageURL = input.UniCardImageURL
	}
	if emailChanged {
		user.IsVerified = false
	}

	if err := service.users.UpdateProfile(ctx, user); err != nil {
		return nil, false, err
	}

	if emailChanged {
		service.sendVerification(ctx, user)
	}

	return user, emailChanged, nil
}

// # Password Recovery

/*
ForgotPassword emails a single-use password reset link.

Returns:
  - error: NotFound when no account uses the email
*/
func (service *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return validate.RequiredError(FieldEmail, "Email is required")
	}

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := sec.GenerateSecureToken(constants.OpaqueTokenBytes)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(ctx, token, user.ID, service.settings.ResetTokenTTL); err != nil {
		return apperr.Internal(err)
	}

	link := service.link("/reset-password?token=" + token)
	minutes := int(service.settings.ResetTokenTTL / time.Minute)
	service.dispatcher.Email(ctx, []string{user.Email}, notify.Mail{
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("Open this link to reset your password (valid for %d minutes):\n%s\n", minutes, link),
		HTML:    fmt.Sprintf(`<h2>Password Reset</h2><p>Click below to reset your password (valid for %d minutes):</p><a href="%[2]s">%[2]s</a>`,
			minutes, html.EscapeString(link)),
	})

	return nil
}

/*
ResetPassword redeems a reset token and replaces the password.

Description: The stored refresh token is cleared, so every session must log in again.

Returns:
  - error: Validation error for a weak password or an invalid token
*/
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldNewPassword, newPassword)
	if newPassword != "" {
		validator.MinLen(FieldNewPassword, newPassword, MinPasswordLength)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	userID, err := service.resetTokens.Consume(ctx, strings.TrimSpace(token))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.ValidationError("Invalid or expired token")
		}
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	return service.users.UpdatePassword(ctx, userID, hashedPassword)
}

// # Device Tokens

/*
RegisterDeviceToken adds a push token to the caller's account.

Returns:
  - int: Number of tokens registered for the user
  - error: Validation error for a token shorter than the minimum length
*/
func (service *Service) RegisterDeviceToken(ctx context.Context, userID, token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, validate.RequiredError(FieldToken, "FCM token is required")
	}
	if len(token) < constants.MinDeviceTokenLength {
		return 0, validate.RequiredError(FieldToken, "Invalid FCM token format")
	}

	return service.users.AddDeviceToken(ctx, userID, token)
}

// # Helpers

func (service *Service) link(path string) string {
	return strings.TrimRight(service.settings.FrontendURL, "/") + path
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
