// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package helpboard

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Handler implements the help board endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/helpboard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Put("/{id}/like", handler.like)
	router.Post("/{id}/reply", handler.reply)
	router.Put("/{id}/status", handler.updateStatus)

	return router
}

type createRequest struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type replyRequest struct {
	Message string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// POST /api/helpboard
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Help board post created successfully.", respond.Payload{FieldPost: post})
}

// GET /api/helpboard
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	posts, total, err := handler.service.ListActive(request.Context(), requestutil.Actor(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Posts retrieved successfully.", respond.Payload{
		FieldPosts:      posts,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

/*
PUT /api/helpboard/{id}/like

Response:
  - 200: post {id, likeCount, likedByMe}
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	reaction, err := handler.service.ToggleLike(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Post unliked."
	if reaction.LikedByMe {
		message = "Post liked."
	}
	respond.OK(writer, message, respond.Payload{FieldPost: reaction})
}

// POST /api/helpboard/{id}/reply
func (handler *Handler) reply(writer http.ResponseWriter, request *http.Request) {
	var body replyRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Reply(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"), body.Message)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Reply added successfully.", respond.Payload{FieldPost: post})
}

// PUT /api/helpboard/{id}/status
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var body statusRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.UpdateStatus(request.Context(), requestutil.Actor(request), transition.UpdateStatusCommand{
		ID:     requestutil.ID(request, "id"),
		Status: body.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, fmt.Sprintf("Post status updated to %s.", post.Status), respond.Payload{FieldPost: post})
}
