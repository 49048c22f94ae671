// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Handler implements the poll endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/polls.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Post("/{id}/vote", handler.vote)
	router.Put("/{id}/close", handler.close)
	router.Delete("/{id}", handler.delete)

	return router
}

type createRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	ExpiresAt string   `json:"expiresAt"`
}

type voteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

// POST /api/polls
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Poll created successfully.", respond.Payload{FieldPoll: poll})
}

// GET /api/polls
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	polls, total, err := handler.service.ListOpen(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Polls retrieved successfully.", respond.Payload{
		FieldPolls:      polls,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

// GET /api/polls/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	poll, voted, err := handler.service.Get(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Poll retrieved successfully.", respond.Payload{FieldPoll: poll, FieldHasVoted: voted})
}

/*
POST /api/polls/{id}/vote

Response:
  - 200: poll with updated counts
  - 400: ALREADY_VOTED, POLL_CLOSED or an out of range optionIndex
*/
func (handler *Handler) vote(writer http.ResponseWriter, request *http.Request) {
	var body voteRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	poll, err := handler.service.Vote(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"), body.OptionIndex)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Vote recorded successfully.", respond.Payload{FieldPoll: poll})
}

// PUT /api/polls/{id}/close
func (handler *Handler) close(writer http.ResponseWriter, request *http.Request) {
	poll, err := handler.service.Close(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Poll closed successfully.", respond.Payload{FieldPoll: poll})
}

// DELETE /api/polls/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Poll deleted successfully.", nil)
}
