// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lostfound

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campus/internal/platform/middleware"
	requestutil "github.com/taibuivan/campus/internal/platform/request"
	"github.com/taibuivan/campus/internal/platform/respond"
	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/pkg/pagination"
)

// ImageStore persists uploaded images and returns their public URLs.
type ImageStore interface {
	SaveAll(ctx context.Context, headers []*multipart.FileHeader) ([]string, error)
	Remove(urls ...string)
}

// Handler implements the lost and found endpoints.
type Handler struct {
	service *Service
	images  ImageStore
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, images ImageStore) *Handler {
	return &Handler{service: service, images: images}
}

// Routes returns the router mounted at /api/lostfound. Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Put("/match", handler.match)
	router.Get("/{id}", handler.get)
	router.Delete("/{id}", handler.delete)
	router.Put("/{id}/status", handler.updateStatus)

	return router
}

type createRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	Location        string   `json:"location"`
	Photos          []string `json:"photos"`
	DateLostOrFound string   `json:"dateLostOrFound"`
	ContactInfo     string   `json:"contactInfo"`
	CollectionInfo  string   `json:"collectionInfo"`
	IsAnonymous     bool     `json:"isAnonymous"`
}

type statusRequest struct {
	Status      string `json:"status"`
	RelatedItem string `json:"relatedItem"`
}

type matchRequest struct {
	LostItemID  string `json:"lostItemId"`
	FoundItemID string `json:"foundItemId"`
}

/*
POST /api/lostfound

Description: Accepts multipart/form-data with up to five 'lostfoundImage'
files, or a JSON body with photo URLs.

Response:
  - 201: item
  - 400: Missing fields, bad type or category
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	var saved []string

	if requestutil.IsMultipart(request) {
		if err := requestutil.ParseMultipart(request); err != nil {
			respond.Error(writer, request, err)
			return
		}

		input = CreateInput{
			Title:           request.FormValue(FieldTitle),
			Description:     request.FormValue(FieldDescription),
			Type:            request.FormValue(FieldType),
			Category:        request.FormValue(FieldCategory),
			Location:        request.FormValue(FieldLocation),
			DateLostOrFound: request.FormValue(FieldDateLostOrFound),
			ContactInfo:     request.FormValue(FieldContactInfo),
			CollectionInfo:  request.FormValue(FieldCollectionInfo),
			IsAnonymous:     requestutil.FormBool(request, FieldIsAnonymous),
		}

		var err error
		if saved, err = handler.images.SaveAll(request.Context(), requestutil.FormFiles(request, FieldPhotos)); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.Photos = saved
	} else {
		var body createRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = CreateInput(body)
	}

	item, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		handler.images.Remove(saved...)
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Lost/Found item created successfully.", respond.Payload{FieldItem: item})
}

/*
GET /api/lostfound

Query: type, category, page, limit

Response:
  - 200: items, pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{
		Type:     request.URL.Query().Get(FieldType),
		Category: request.URL.Query().Get(FieldCategory),
	}

	items, total, err := handler.service.ListActive(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Lost/Found items retrieved successfully.", respond.Payload{
		FieldItems:      items,
		FieldPagination: pagination.NewMeta(page, total),
	})
}

// GET /api/lostfound/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Lost/Found item retrieved successfully.", respond.Payload{FieldItem: item})
}

// DELETE /api/lostfound/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.images.Remove(item.Photos...)

	respond.OK(writer, "Lost/Found item deleted successfully.", nil)
}

/*
PUT /api/lostfound/match

Response:
  - 200: lostItem, foundItem
  - 400: Items of the wrong type
  - 403: Caller owns neither item and is not an admin
  - 404: One of the items does not exist
*/
func (handler *Handler) match(writer http.ResponseWriter, request *http.Request) {
	var body matchRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lost, found, err := handler.service.Match(request.Context(), requestutil.Actor(request), body.LostItemID, body.FoundItemID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Lost and Found items matched, archived, and users notified successfully.", respond.Payload{
		FieldLostItem:  lost,
		FieldFoundItem: found,
	})
}

// PUT /api/lostfound/{id}/status
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var body statusRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.UpdateStatus(request.Context(), requestutil.Actor(request), transition.UpdateStatusCommand{
		ID:     requestutil.ID(request, "id"),
		Status: body.Status,
	}, body.RelatedItem)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, fmt.Sprintf("Item status updated to %s.", item.Status), respond.Payload{FieldItem: item})
}
