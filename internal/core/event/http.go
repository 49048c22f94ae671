// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/pkg/pagination"
)

// Handler implements the event endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/events.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Post("/device-token", handler.registerDevice)
	router.Get("/{id}", handler.get)

	return router
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SendEmail   *bool  `json:"sendEmail"`
}

type deviceRequest struct {
	Token string `json:"token"`
}

/*
POST /api/events

Response:
  - 201: event with its delivery statistics
  - 403: caller is not an admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Event notification created successfully", respond.Payload{
		FieldEvent:      event,
		FieldStatistics: event.Statistics,
	})
}

// GET /api/events
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	events, total, err := handler.service.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Events retrieved successfully.", respond.Payload{
		FieldEvents:     events,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

// GET /api/events/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	event, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Event retrieved successfully.", respond.Payload{FieldEvent: event})
}

// POST /api/events/device-token
func (handler *Handler) registerDevice(writer http.ResponseWriter, request *http.Request) {
	var body deviceRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.RegisterDevice(request.Context(), requestutil.Actor(request), body.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "FCM token registered successfully", respond.Payload{FieldTokenCount: count})
}
