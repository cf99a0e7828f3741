// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/internal/platform/respond"
	"github.com/taibuivan/libris/internal/platform/sec"
)

// # API identity

// TokenVerifier verifies bearer tokens. Satisfied by [sec.TokenService].
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate reads an optional "Authorization: Bearer" header.
//
// # Flow
//  1. No header: the request proceeds anonymously.
//  2. Malformed header or invalid token: 401.
//  3. Valid token: the claims are stored on the context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(writer, request.WithContext(withIdentity(request.Context(), claims)))
		})
	}
}

// RequireAuth rejects anonymous API requests with 401.
// Mount after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Web identity

// SessionResolver maps a session id to the claims of its user.
type SessionResolver interface {
	ResolveSession(context context.Context, sessionID string) (*sec.AuthClaims, error)
}

// SessionAuthenticate reads the session cookie and, when it names a live
// session, stores the user's claims on the context. Unknown or expired
// sessions clear the cookie and continue anonymously.
func SessionAuthenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := resolver.ResolveSession(request.Context(), cookie.Value)
			if err != nil {
				if apperr.StatusOf(err) >= http.StatusInternalServerError {
					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "session_resolve_failed",
						slog.String("error", err.Error()),
					)
				} else {
					metrics.SessionsTotal.WithLabelValues("expired").Inc()
				}

				ClearSessionCookie(writer)
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSessionID(request.Context(), cookie.Value)
			next.ServeHTTP(writer, request.WithContext(withIdentity(ctx, claims)))
		})
	}
}

// RequireLogin sends anonymous visitors to the login page with a 303,
// carrying the requested URL in the "next" parameter.
// Mount after [SessionAuthenticate].
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			http.Redirect(writer, request, LoginRedirect(request.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// LoginRedirect builds the login URL that returns to target afterwards.
func LoginRedirect(target string) string {
	values := url.Values{}
	values.Set(constants.NextParam, target)
	return constants.LoginPath + "?" + values.Encode()
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(writer http.ResponseWriter, sessionID string, maxAge int, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// withIdentity stores claims and tags the request logger with the user id.
func withIdentity(ctx context.Context, claims *sec.AuthClaims) context.Context {
	logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID))
	return ctxutil.WithLogger(ctxutil.WithAuthUser(ctx, claims), logger)
}
