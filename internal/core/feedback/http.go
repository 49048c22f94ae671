// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Handler implements the feedback endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/feedback.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Delete("/{id}", handler.delete)
	router.Put("/{id}/status", handler.updateStatus)

	return router
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
}

type statusRequest struct {
	Status       string `json:"status"`
	AdminRemarks string `json:"adminRemarks"`
}

// POST /api/feedback
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	feedback, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Feedback submitted successfully.", respond.Payload{FieldFeedback: feedback})
}

// GET /api/feedback
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	feedbacks, total, err := handler.service.List(request.Context(), requestutil.Actor(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Feedback retrieved successfully.", respond.Payload{
		FieldFeedbacks:  feedbacks,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

// DELETE /api/feedback/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Feedback deleted successfully.", nil)
}

// PUT /api/feedback/{id}/status
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var body statusRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	feedback, err := handler.service.UpdateStatus(request.Context(), requestutil.Actor(request), transition.UpdateStatusCommand{
		ID:     requestutil.ID(request, "id"),
		Status: body.Status,
		Remark: body.AdminRemarks,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Feedback status updated successfully.", respond.Payload{FieldFeedback: feedback})
}
