// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web serves the server-rendered HTML surface.

Visitors authenticate with the opaque session cookie resolved by
middleware.SessionAuthenticate. Protected pages sit behind
middleware.RequireLogin, which sends anonymous visitors to the login form with
the original path in "next". Every permission decision is taken by the same
services the JSON API uses; this package only maps their errors to pages:

  - 401 redirects to the login form.
  - 403 and 404 render the error page with that status.
  - Validation errors re-render the submitted form.
*/
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
)

// Dependencies lists the services rendered by the HTML surface.
type Dependencies struct {
	Auth      *auth.Service
	Accounts  *account.Service
	Authors   *author.Service
	Books     *book.Service
	Libraries *library.Service
	Posts     *post.Service
	Comments  *comment.Service
	Guard     *access.Guard

	// SecureCookies marks the session cookie Secure (HTTPS only).
	SecureCookies bool
}

// Handler serves every HTML page.
type Handler struct {
	Dependencies
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler parses the templates and returns the page handler.
func NewHandler(dependencies Dependencies, logger *slog.Logger) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{Dependencies: dependencies, renderer: renderer, logger: logger}, nil
}

// Routes mounts the pages. The caller installs SessionAuthenticate.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/books", http.StatusSeeOther)
	})

	// Public pages
	router.Get("/login", handler.loginForm)
	router.Post("/login", handler.login)
	router.Get("/register", handler.registerForm)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)

	router.Get("/books", handler.listBooks)
	router.Get("/libraries/{id}", handler.showLibrary)
	router.Get("/posts", handler.listPosts)
	router.Get("/posts/{id}", handler.showPost)
	router.Get("/search", handler.search)
	router.Get("/tags/{tag}", handler.postsByTag)

	// Pages that need a session
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireLogin)

		protected.Get("/books/new", handler.newBookForm)
		protected.Post("/books/new", handler.createBook)
		protected.Get("/books/{id}/edit", handler.editBookForm)
		protected.Post("/books/{id}/edit", handler.updateBook)
		protected.Post("/books/{id}/delete", handler.deleteBook)

		protected.Get("/posts/new", handler.newPostForm)
		protected.Post("/posts/new", handler.createPost)
		protected.Get("/posts/{id}/edit", handler.editPostForm)
		protected.Post("/posts/{id}/edit", handler.updatePost)
		protected.Post("/posts/{id}/delete", handler.deletePost)
		protected.Post("/posts/{id}/comments", handler.createComment)

		protected.Get("/comments/{id}/edit", handler.editCommentForm)
		protected.Post("/comments/{id}/edit", handler.updateComment)
		protected.Post("/comments/{id}/delete", handler.deleteComment)

		protected.Get("/profile", handler.profileForm)
		protected.Post("/profile", handler.updateProfile)

		protected.Get("/dashboard/admin", handler.adminDashboard)
		protected.Get("/dashboard/librarian", handler.librarianDashboard)
		protected.Get("/dashboard/member", handler.memberDashboard)
	})

	return router
}
