// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// Routes mounts under /api/v1/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// PostRoutes mounts under /api/v1/posts/{id}/comments; the post id is read
// from the parent route.
func (handler *Handler) PostRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequireAuth).Post("/", handler.create)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.UUIDParam(request, "id", postResource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := QuerySchema.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.ListForPost(request.Context(), postID, plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

/*
Create handles POST /api/v1/posts/{id}/comments.

Response:
  - 201: Comment
  - 400: empty or too short content
  - 401: anonymous
  - 404: unknown post
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.UUIDParam(request, "id", postResource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Actor(request), postID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
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

	comment, err := handler.service.Update(request.Context(), requestutil.Actor(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
