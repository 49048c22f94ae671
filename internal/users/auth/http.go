// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
)

// # Definitions & Constructors

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
	Remove(urls ...string)
}

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	service *Service
	images  ImageStore
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, images ImageStore) *Handler {
	return &Handler{service: service, images: images}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register, /login, /refresh, /forgot-password, /reset-password/{token}
//   - GET  /verify-email/{token}
//   - POST /logout, GET|PUT /profile (authenticated)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Get("/verify-email/{token}", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password/{token}", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/profile", handler.profile)
		r.Put("/profile", handler.updateProfile)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	FullName        string `json:"fullName"`
	UniID           string `json:"uniId"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	InviteCode      string `json:"inviteCode"`
	ProfileImageURL string `json:"profileImageUrl"`
	UniCardImageURL string `json:"uniCardImageUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type profileRequest struct {
	FullName        string `json:"fullName"`
	UniID           string `json:"uniId"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
	UniCardImageURL string `json:"uniCardImageUrl"`
}

/*
POST /api/auth/register

Description: Creates a student account (or an admin account with a valid
invite code). Accepts multipart/form-data with 'profileImage' and
'uniCardImage' files, or JSON carrying image URLs.

Response:
  - 201: user
  - 400: Validation failure or missing university card image
  - 403: Admin role without a valid invite code
  - 409: Email or university id already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	var saved []string

	if requestutil.IsMultipart(request) {
		if err := requestutil.ParseMultipart(request); err != nil {
			respond.Error(writer, request, err)
			return
		}

		input = registerRequest{
			FullName:   request.FormValue(FieldFullName),
			UniID:      request.FormValue(FieldUniID),
			Email:      request.FormValue(FieldEmail),
			Password:   request.FormValue(FieldPassword),
			Role:       request.FormValue(FieldRole),
			InviteCode: request.FormValue(FieldInviteCode),
		}

		var err error
		input.ProfileImageURL, input.UniCardImageURL, saved, err = handler.saveImages(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		FullName:        input.FullName,
		UniID:           input.UniID,
		Email:           input.Email,
		Password:        input.Password,
		Role:            input.Role,
		InviteCode:      input.InviteCode,
		ProfileImageURL: input.ProfileImageURL,
		UniCardImageURL: input.UniCardImageURL,
	})
	if err != nil {
		handler.images.Remove(saved...)
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "User registered successfully. Please check your email for verification.", respond.Payload{
		FieldUser: user,
	})
}

// saveImages stores the optional profile image and the university card image.
func (handler *Handler) saveImages(request *http.Request) (profileURL, cardURL string, saved []string, err error) {
	if header := requestutil.FormFile(request, FieldProfileImage); header != nil {
		if profileURL, err = handler.images.Save(request.Context(), header); err != nil {
			return "", "", nil, err
		}
		saved = append(saved, profileURL)
	}

	if header := requestutil.FormFile(request, FieldUniCardImage); header != nil {
		if cardURL, err = handler.images.Save(request.Context(), header); err != nil {
			handler.images.Remove(saved...)
			return "", "", nil, err
		}
		saved = append(saved, cardURL)
	}

	return profileURL, cardURL, saved, nil
}

/*
POST /api/auth/login

Response:
  - 200: authtoken, refreshtoken, user
  - 401: Invalid email or password
  - 403: Email not verified yet
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", respond.Payload{
		"authtoken":    session.AccessToken,
		"refreshtoken": session.RefreshToken,
		FieldUser:      session.User,
	})
}

/*
POST /api/auth/refresh

Description: Exchanges the current refresh token for a new pair. The old
refresh token stops working.

Response:
  - 200: accessToken, refreshToken
  - 401: No refresh token provided
  - 403: Refresh token is not the current one
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	session, err := handler.service.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Token refreshed", respond.Payload{
		"accessToken":     session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
	})
}

/*
POST /api/auth/logout

Response:
  - 200: Logged out, the stored refresh token is cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Logged out successfully", nil)
}

/*
GET /api/auth/verify-email/{token}

Response:
  - 200: Email verified
  - 400: Invalid or expired verification token
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.VerifyEmail(request.Context(), requestutil.ID(request, FieldToken)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Email verified successfully", nil)
}

/*
POST /api/auth/forgot-password

Response:
  - 200: Reset link sent
  - 404: No account uses the email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password reset link sent to email", nil)
}

/*
POST /api/auth/reset-password/{token}

Response:
  - 200: Password updated
  - 400: Weak password or invalid token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := requestutil.ID(request, FieldToken)
	if err := handler.service.ResetPassword(request.Context(), token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password reset successful. You can now log in.", nil)
}

/*
GET /api/auth/profile

Response:
  - 200: user
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile retrieved", respond.Payload{FieldUser: user})
}

/*
PUT /api/auth/profile

Description: Updates name, university id and email. New images may be sent as
multipart files under the registration field names.

Response:
  - 200: user
  - 409: Email or university id used by another account
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	var saved []string

	if requestutil.IsMultipart(request) {
		if err := requestutil.ParseMultipart(request); err != nil {
			respond.Error(writer, request, err)
			return
		}

		input = profileRequest{
			FullName: request.FormValue(FieldFullName),
			UniID:    request.FormValue(FieldUniID),
			Email:    request.FormValue(FieldEmail),
		}

		input.ProfileImageURL, input.UniCardImageURL, saved, err = handler.saveImages(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, emailChanged, err := handler.service.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FullName:        input.FullName,
		UniID:           input.UniID,
		Email:           input.Email,
		ProfileImageURL: input.ProfileImageURL,
		UniCardImageURL: input.UniCardImageURL,
	})
	if err != nil {
		handler.images.Remove(saved...)
		respond.Error(writer, request, err)
		return
	}

	message := "Profile updated successfully"
	if emailChanged {
		message = "Profile updated. Please verify your new email."
	}
	respond.OK(writer, message, respond.Payload{FieldUser: user})
}
