// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what handlers need from an incoming request: JSON
bodies, multipart photo uploads, chi path parameters and the acting user.

Decoding failures come back as VALIDATION_ERROR so handlers can pass them
straight to respond.Error.
*/
package requestutil

import (
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/validate"
	"github.com/taibuivan/campus/pkg/convert"
)

/*
DecodeJSON decodes the body into target, which must be a pointer.

Returns:
  - error: validate.ErrInvalidJSON for a malformed or empty body
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IsMultipart reports whether the request carries a multipart/form-data body.
*/
func IsMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

/*
ParseMultipart parses a multipart body bounded by [constants.MaxUploadBytes].
*/
func ParseMultipart(request *http.Request) error {
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return apperr.ValidationError("Invalid multipart payload")
	}
	return nil
}

/*
FormFiles returns the files uploaded under a multipart field. Call after [ParseMultipart].
*/
func FormFiles(request *http.Request, field string) []*multipart.FileHeader {
	if request.MultipartForm == nil {
		return nil
	}
	return request.MultipartForm.File[field]
}

/*
FormFile returns the first file uploaded under a multipart field, or nil.
*/
func FormFile(request *http.Request, field string) *multipart.FileHeader {
	files := FormFiles(request, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

/*
FormBool reads a checkbox-style form value. Values like "true" and "1" are true.
*/
func FormBool(request *http.Request, field string) bool {
	return convert.ToBool(request.FormValue(field))
}

// ID returns the chi path parameter name, e.g. "id" for /polls/{id}.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Actor returns the acting identity of the request, anonymous when unauthenticated.
*/
func Actor(request *http.Request) access.Actor {
	return ctxutil.GetActor(request.Context())
}

/*
RequiredUserID returns the id of the signed-in user.

Returns:
  - string: User id from the verified access token
  - error: apperr.Unauthorized for an anonymous request
*/
func RequiredUserID(request *http.Request) (string, error) {
	actor := Actor(request)
	if !actor.Authenticated() {
		return "", apperr.Unauthorized("Authentication required")
	}
	return actor.ID, nil
}
