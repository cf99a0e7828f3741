// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/catalog/book"
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

// Routes mounts under /api/v1/libraries.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.get)
	router.Get("/{id}/books", handler.listBooks)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Delete("/{id}", handler.delete)
		protected.Post("/{id}/books/{bookID}", handler.addBook)
		protected.Delete("/{id}/books/{bookID}", handler.removeBook)
	})

	return router
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	library, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, library)
}

/*
ListBooks handles GET /api/v1/libraries/{id}/books.

Request:
  - Query: the same filters, search and ordering as GET /api/v1/books

Response:
  - 200: []Book with pagination meta
  - 404: unknown library
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := book.QuerySchema.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, total, err := handler.service.ListBooks(request.Context(), id, plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, books, plan.Page.Meta(total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	library, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, library)
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

func (handler *Handler) addBook(writer http.ResponseWriter, request *http.Request) {
	handler.changeHolding(writer, request, handler.service.AddBook)
}

func (handler *Handler) removeBook(writer http.ResponseWriter, request *http.Request) {
	handler.changeHolding(writer, request, handler.service.RemoveBook)
}

type holdingChange func(context context.Context, actor access.Actor, libraryID, bookID string) error

func (handler *Handler) changeHolding(writer http.ResponseWriter, request *http.Request, change holdingChange) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.UUIDParam(request, "bookID", book.ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := change(request.Context(), requestutil.Actor(request), id, bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
