// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts typed values from HTTP requests.

It hides chi's URL parameter lookup and the context keys set by the
authentication middleware, so handlers deal only in domain types.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into target.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter that must be a UUID.

A malformed value cannot name an existing row, so it is reported as
NotFound for resource rather than as a validation error.
*/
func UUIDParam(request *http.Request, name, resource string) (string, error) {
	value := strings.ToLower(chi.URLParam(request, name))
	if !validate.IsUUID(value) {
		return "", apperr.NotFound(resource)
	}
	return value, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// Actor returns the requesting actor; [access.Anonymous] when unauthenticated.
func Actor(request *http.Request) access.Actor {
	return access.FromClaims(ctxutil.GetAuthUser(request.Context()))
}
