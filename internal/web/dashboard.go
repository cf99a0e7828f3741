// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/users/auth"
)

// AdminDashboard is the data of the admin dashboard.
type AdminDashboard struct {
	Libraries []*library.Library
	Posts     []*post.Post

	// Users is only loaded for staff.
	Users []*auth.User
}

// LibrarianDashboard is the data of the librarian dashboard.
type LibrarianDashboard struct {
	Libraries []*library.Library
}

// MemberDashboard is the data of the member dashboard.
type MemberDashboard struct {
	Profile *auth.User
	Posts   []*post.Post
}

func (handler *Handler) adminDashboard(writer http.ResponseWriter, request *http.Request) {
	actor := requestutil.Actor(request)
	if err := handler.Guard.View(request.Context(), actor, access.KindAdminDashboard); err != nil {
		handler.fail(writer, request, err)
		return
	}

	libraries, err := handler.Libraries.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	posts, _, err := handler.Posts.List(request.Context(), post.QuerySchema.DefaultPlan())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	data := AdminDashboard{Libraries: libraries, Posts: posts}
	if actor.Staff {
		if data.Users, err = handler.Accounts.List(request.Context(), actor); err != nil {
			handler.fail(writer, request, err)
			return
		}
	}

	handler.render(writer, request, http.StatusOK, "dashboard_admin", Page{Title: "Admin dashboard", Data: data})
}

func (handler *Handler) librarianDashboard(writer http.ResponseWriter, request *http.Request) {
	if err := handler.Guard.View(request.Context(), requestutil.Actor(request), access.KindLibrarianDashboard); err != nil {
		handler.fail(writer, request, err)
		return
	}

	claims := ctxutil.GetAuthUser(request.Context())
	libraries, err := handler.Libraries.LibrarianFor(request.Context(), claims.Username)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "dashboard_librarian", Page{
		Title: "Librarian dashboard",
		Data:  LibrarianDashboard{Libraries: libraries},
	})
}

func (handler *Handler) memberDashboard(writer http.ResponseWriter, request *http.Request) {
	actor := requestutil.Actor(request)
	if err := handler.Guard.View(request.Context(), actor, access.KindMemberDashboard); err != nil {
		handler.fail(writer, request, err)
		return
	}

	profile, err := handler.Accounts.Me(request.Context(), actor)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	posts, err := handler.Posts.ListByAuthor(request.Context(), actor.UserID)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "dashboard_member", Page{
		Title: "Member dashboard",
		Data:  MemberDashboard{Profile: profile, Posts: posts},
	})
}
