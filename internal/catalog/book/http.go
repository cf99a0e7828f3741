// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/middleware"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /api/v1/books.
//
// # Endpoints
//   - GET    /                      : filter, search, ordering and paging
//   - GET    /by-author/{name}      : books of an author, by exact name
//   - GET    /{id}                  : single book
//   - POST   /                      : can_create
//   - PATCH  /{id}                  : can_edit
//   - DELETE /{id}                  : can_delete or staff
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/by-author/{name}", handler.listByAuthor)
	router.Get("/{id}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Patch("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

/*
List handles GET /api/v1/books.

Request:
  - Query: title, author, publication_year, search, ordering, page, limit

Response:
  - 200: []Book with pagination meta
  - 400: malformed publication_year or author
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	plan, err := QuerySchema.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, total, err := handler.service.List(request.Context(), plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, plan.Page.Meta(total))
}

func (handler *Handler) listByAuthor(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.ListByAuthorName(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

/*
Create handles POST /api/v1/books.

Response:
  - 201: Book
  - 400: validation failure (future year, unknown author)
  - 401: anonymous
  - 403: missing can_create
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, book)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Update(request.Context(), requestutil.Actor(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
