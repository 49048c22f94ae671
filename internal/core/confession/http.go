// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package confession

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Handler implements the confession endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/anonymous.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Put("/{id}/like", handler.like)
	router.Post("/{id}/reply", handler.reply)
	router.Post("/{id}/report", handler.report)
	router.Delete("/{id}", handler.delete)

	return router
}

type messageRequest struct {
	Message string `json:"message"`
}

type reportRequest struct {
	Reason string `json:"reason"`
}

// POST /api/anonymous
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body messageRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	confession, err := handler.service.Create(request.Context(), requestutil.Actor(request), body.Message)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Confession posted successfully.", respond.Payload{FieldConfession: confession})
}

// GET /api/anonymous
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	confessions, total, err := handler.service.List(request.Context(), requestutil.Actor(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Confessions retrieved successfully.", respond.Payload{
		FieldConfessions: confessions,
		FieldPagination:  pagination.NewMeta(page, total),
	})
}

// PUT /api/anonymous/{id}/like
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	reaction, err := handler.service.ToggleLike(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Unliked."
	if reaction.LikedByMe {
		message = "Liked."
	}
	respond.OK(writer, message, respond.Payload{FieldConfession: reaction})
}

// POST /api/anonymous/{id}/reply
func (handler *Handler) reply(writer http.ResponseWriter, request *http.Request) {
	var body messageRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	confession, err := handler.service.Reply(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"), body.Message)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Reply added successfully.", respond.Payload{FieldConfession: confession})
}

// POST /api/anonymous/{id}/report
func (handler *Handler) report(writer http.ResponseWriter, request *http.Request) {
	var body reportRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Report(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"), body.Reason); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Confession reported successfully.", nil)
}

// DELETE /api/anonymous/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Confession deleted successfully.", nil)
}
