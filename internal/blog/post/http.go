// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/platform/middleware"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/pkg/pagination"
)

type Handler struct {
	service  *Service
	comments http.Handler
}

// NewHandler serves posts and mounts comments, the router returned by
// comment.Handler.PostRoutes, under /{id}/comments.
func NewHandler(service *Service, comments http.Handler) *Handler {
	return &Handler{service: service, comments: comments}
}

// Routes mounts under /api/v1/posts.
//
// # Endpoints
//   - GET    /              : q search and ordering
//   - GET    /{id}          : post with comments
//   - POST   /              : any signed-in user
//   - PATCH  /{id}          : author only
//   - DELETE /{id}          : author only
//   - *      /{id}/comments : comment routes
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Mount("/{id}/comments", handler.comments)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Patch("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

// TagRoutes mounts under /api/v1/tags.
func (handler *Handler) TagRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{tag}/posts", handler.listByTag)
	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	plan, err := QuerySchema.FromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, total, err := handler.service.List(request.Context(), plan)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, posts, plan.Page.Meta(total))
}

func (handler *Handler) listByTag(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	_, posts, total, err := handler.service.ListByTag(request.Context(), requestutil.Param(request, "tag"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, posts, page.Meta(total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", ResourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

/*
Update handles PATCH /api/v1/posts/{id}.

Response:
  - 200: Post
  - 401: anonymous
  - 403: not the author
  - 404: unknown post
*/
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

	post, err := handler.service.Update(request.Context(), requestutil.Actor(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
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
