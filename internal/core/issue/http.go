// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
	Remove(urls ...string)
}

// Handler implements the issue reporting endpoints.
type Handler struct {
	service *Service
	images  ImageStore
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, images ImageStore) *Handler {
	return &Handler{service: service, images: images}
}

// Routes returns the router mounted at /api/report.
//
// # Endpoints
//   - GET  /issues/all-issues (public)
//   - POST /issues, GET /issues/reported-by-me, GET /issues/uni/{uniId}, GET /issues/{id}
//   - PUT  /issues/{id}/status (admin), DELETE /issues/{id} (owner or admin)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/issues/all-issues", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/issues", handler.create)
		r.Get("/issues/reported-by-me", handler.listMine)
		r.Get("/issues/uni/{uniId}", handler.listByUniID)
		r.Get("/issues/{id}", handler.get)
		r.Put("/issues/{id}/status", handler.updateStatus)
		r.Delete("/issues/{id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    json.RawMessage `json:"location"`
	PhotoURL    string          `json:"photoUrl"`
}

type statusRequest struct {
	Status       string `json:"status"`
	AdminRemarks string `json:"adminRemarks"`
}

/*
POST /api/report/issues

Description: Accepts multipart/form-data with an 'issueImage' file and the
location as a JSON string, or a JSON body with 'photoUrl'.

Response:
  - 201: issue
  - 400: Missing fields, unknown category or malformed location
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	var saved string

	if requestutil.IsMultipart(request) {
		if err := requestutil.ParseMultipart(request); err != nil {
			respond.Error(writer, request, err)
			return
		}

		input = CreateInput{
			Title:       request.FormValue(FieldTitle),
			Description: request.FormValue(FieldDescription),
			Category:    request.FormValue(FieldCategory),
			Location:    request.FormValue(FieldLocation),
		}

		if header := requestutil.FormFile(request, FieldPhoto); header != nil {
			url, err := handler.images.Save(request.Context(), header)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			input.PhotoURL, saved = url, url
		}
	} else {
		var body createRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = CreateInput{
			Title:       body.Title,
			Description: body.Description,
			Category:    body.Category,
			Location:    string(body.Location),
			PhotoURL:    body.PhotoURL,
		}
	}

	issue, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		if saved != "" {
			handler.images.Remove(saved)
		}
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Report submitted successfully", respond.Payload{FieldIssue: issue})
}

/*
GET /api/report/issues/all-issues

Response:
  - 200: total, issues, pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	issues, total, err := handler.service.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Issues fetched successfully", respond.Payload{
		FieldTotal:      total,
		FieldIssues:     issues,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

// GET /api/report/issues/uni/{uniId}
func (handler *Handler) listByUniID(writer http.ResponseWriter, request *http.Request) {
	issues, err := handler.service.ListByUniID(request.Context(), requestutil.ID(request, "uniId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Issues fetched successfully", respond.Payload{
		FieldTotal:  len(issues),
		FieldIssues: issues,
	})
}

// GET /api/report/issues/reported-by-me
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	issues, err := handler.service.ListMine(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Issues fetched successfully", respond.Payload{
		FieldTotal:  len(issues),
		FieldIssues: issues,
	})
}

// GET /api/report/issues/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	issue, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Issue fetched successfully", respond.Payload{FieldIssue: issue})
}

/*
PUT /api/report/issues/{id}/status

Response:
  - 200: issue
  - 400: INVALID_STATUS, or MISSING_REMARK when rejecting without adminRemarks
  - 403: Caller is not an admin
  - 404: Issue not found
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var body statusRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issue, err := handler.service.UpdateStatus(request.Context(), requestutil.Actor(request), transition.UpdateStatusCommand{
		ID:     requestutil.ID(request, "id"),
		Status: body.Status,
		Remark: body.AdminRemarks,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Issue status updated successfully", respond.Payload{FieldIssue: issue})
}

// DELETE /api/report/issues/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	issue, err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if issue.PhotoURL != "" {
		handler.images.Remove(issue.PhotoURL)
	}

	respond.OK(writer, "Issue deleted successfully", nil)
}
