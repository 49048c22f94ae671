// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Envelope
//
// Every body is a flat JSON object carrying a human readable "message" next to
// the resource or list it describes:
//
//	{"message": "Issue reported successfully", "issue": {...}}
//
// Errors use the same shape with a machine readable "code" and optional
// field "details". The internal cause is only exposed in development mode.
package respond

import (
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"sync/atomic"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
)

// Payload holds the resource fields merged into the envelope next to "message".
type Payload map[string]any

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Error   string              `json:"error,omitempty"`
}

var exposeCauses atomic.Bool

// ExposeInternalErrors toggles the "error" field carrying the internal cause.
// It is switched on once at startup in development mode.
func ExposeInternalErrors(enabled bool) {
	exposeCauses.Store(enabled)
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Message writes statusCode with the message merged into payload.
func Message(writer http.ResponseWriter, statusCode int, message string, payload Payload) {
	body := make(map[string]any, len(payload)+1)
	maps.Copy(body, payload)
	body[constants.FieldMessage] = message
	JSON(writer, statusCode, body)
}

// OK writes a 200 OK response in the standard envelope.
func OK(writer http.ResponseWriter, message string, payload Payload) {
	Message(writer, http.StatusOK, message, payload)
}

// Created writes a 201 Created response in the standard envelope.
func Created(writer http.ResponseWriter, message string, payload Payload) {
	Message(writer, http.StatusCreated, message, payload)
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error writes err as the error envelope. Anything that is not an
// [*apperr.AppError] becomes INTERNAL_ERROR, and every 5xx is logged with its cause.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "request_failed",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := ErrorEnvelope{
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	}
	if exposeCauses.Load() && appError.Cause != nil {
		envelope.Error = appError.Cause.Error()
	}

	JSON(writer, appError.HTTPStatus, envelope)
}
