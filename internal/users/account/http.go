// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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

// Routes mounts under /api/v1/account. Every endpoint needs a token.
//
// # Endpoints
//   - GET    /me                       : own account
//   - PATCH  /me                       : edit username or email
//   - GET    /                         : all accounts (staff)
//   - PUT    /{id}/role                : assign a role (staff)
//   - PUT    /{id}/capabilities/{cap}  : grant (staff)
//   - DELETE /{id}/capabilities/{cap}  : revoke (staff)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	router.Get("/", handler.list)
	router.Put("/{id}/role", handler.setRole)
	router.Put("/{id}/capabilities/{cap}", handler.grantCapability)
	router.Delete("/{id}/capabilities/{cap}", handler.revokeCapability)

	return router
}

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Me(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var input ProfileInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.service.List(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

/*
SetRole handles PUT /api/v1/account/{id}/role.

Request:
  - Body: {"role": "Admin" | "Librarian" | "Member"}

Response:
  - 200: User
  - 403: caller is not staff
  - 404: unknown user
*/
func (handler *Handler) setRole(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input RoleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.SetRole(request.Context(), requestutil.Actor(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) grantCapability(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GrantCapability(request.Context(), requestutil.Actor(request), id, requestutil.Param(request, "cap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) revokeCapability(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.RevokeCapability(request.Context(), requestutil.Actor(request), id, requestutil.Param(request, "cap"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
