// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
	"github.com/taibuivan/libris/internal/web"
)

type stubSessions map[string]*sec.AuthClaims

func (stub stubSessions) ResolveSession(_ context.Context, sessionID string) (*sec.AuthClaims, error) {
	claims, ok := stub[sessionID]
	if !ok {
		return nil, apperr.Unauthorized("Session expired")
	}
	return claims, nil
}

// bookRepo serves a fixed catalog from memory.
type bookRepo struct {
	books []*book.Book
}

func (repo *bookRepo) List(_ context.Context, plan queryspec.Plan) ([]*book.Book, int, error) {
	matched := queryspec.Apply(repo.books, plan, book.Values)
	start, end := plan.Page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (repo *bookRepo) Get(_ context.Context, id string) (*book.Book, error) {
	for _, b := range repo.books {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound(book.ResourceName)
}

func (repo *bookRepo) Create(context.Context, *book.Book) error { return nil }
func (repo *bookRepo) Update(context.Context, *book.Book) error { return nil }
func (repo *bookRepo) Delete(context.Context, string) error     { return nil }

func (repo *bookRepo) AuthorName(context.Context, string) (string, error) {
	return "", apperr.NotFound("Author")
}

func (repo *bookRepo) ListByAuthorName(context.Context, string) ([]*book.Book, error) {
	return nil, nil
}

// profiles backs both account interfaces.
type profiles map[string]*auth.User

func (store profiles) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := store[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (store profiles) List(context.Context) ([]*auth.User, error) { return nil, nil }

func (store profiles) UpdateProfile(_ context.Context, user *auth.User) error {
	store[user.ID] = user
	return nil
}

func (store profiles) SetRole(context.Context, string, string) error          { return nil }
func (store profiles) GrantCapability(context.Context, string, string) error  { return nil }
func (store profiles) RevokeCapability(context.Context, string, string) error { return nil }

const (
	memberSession = "member-session"
	editorSession = "editor-session"
	bookID        = "0b9d4f3e-8a34-4c5e-9a51-1f2b3c4d5e6f"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _ := newRouterWithProfiles(t)
	return router
}

func newRouterWithProfiles(t *testing.T) (http.Handler, profiles) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := access.NewGuard(access.DefaultPolicy)

	books := book.NewService(&bookRepo{books: []*book.Book{
		{ID: bookID, Title: "The Left Hand of Darkness", AuthorName: "Ursula K. Le Guin", PublicationYear: 1969},
		{ID: "1c9d4f3e-8a34-4c5e-9a51-1f2b3c4d5e6f", Title: "Dune", AuthorName: "Frank Herbert", PublicationYear: 1965},
	}}, guard, logger)

	accounts := profiles{"u1": {ID: "u1", Username: "ada", Email: "ada@example.com"}}

	handler, err := web.NewHandler(web.Dependencies{
		Books:    books,
		Accounts: account.NewService(accounts, accounts, guard, logger),
		Guard:    guard,
	}, logger)
	require.NoError(t, err)

	sessions := stubSessions{
		memberSession: {UserID: "u1", Username: "ada", Role: string(sec.RoleMember)},
		editorSession: {UserID: "u2", Username: "grace", Role: string(sec.RoleMember), Capabilities: []string{"can_edit"}},
	}
	return middleware.SessionAuthenticate(sessions)(handler.Routes()), accounts
}

func serve(router http.Handler, method, target, session string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if session != "" {
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: session})
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func submit(router http.Handler, target, session string, form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set(constants.HeaderContentType, "application/x-www-form-urlencoded")
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: session})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestProtectedPages_RedirectAnonymous sends anonymous visitors to the login
form with the requested path in next.
*/
func TestProtectedPages_RedirectAnonymous(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method   string
		target   string
		location string
	}{
		{http.MethodPost, "/books/new", "/login?next=%2Fbooks%2Fnew"},
		{http.MethodGet, "/books/new", "/login?next=%2Fbooks%2Fnew"},
		{http.MethodGet, "/dashboard/member", "/login?next=%2Fdashboard%2Fmember"},
		{http.MethodGet, "/profile", "/login?next=%2Fprofile"},
		{http.MethodPost, "/profile", "/login?next=%2Fprofile"},
		{http.MethodPost, "/posts/" + bookID + "/delete", "/login?next=%2Fposts%2F" + bookID + "%2Fdelete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			recorder := serve(router, tt.method, tt.target, "")

			assert.Equal(t, http.StatusSeeOther, recorder.Code)
			assert.Equal(t, tt.location, recorder.Header().Get("Location"))
		})
	}
}

/*
TestDashboards_WrongRoleIsForbidden renders the 403 page for a member
opening another role's dashboard.
*/
func TestDashboards_WrongRoleIsForbidden(t *testing.T) {
	router := newRouter(t)

	for _, target := range []string{"/dashboard/admin", "/dashboard/librarian"} {
		recorder := serve(router, http.MethodGet, target, memberSession)

		assert.Equal(t, http.StatusForbidden, recorder.Code, target)
		assert.Contains(t, recorder.Header().Get(constants.HeaderContentType), "text/html")
		assert.Contains(t, recorder.Body.String(), "You do not have permission")
	}
}

/*
TestBookPages covers the list, the edit form permission and unknown ids.
*/
func TestBookPages(t *testing.T) {
	router := newRouter(t)

	t.Run("list_search", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books?q=dune", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Dune")
		assert.NotContains(t, recorder.Body.String(), "Left Hand")
		assert.NotContains(t, recorder.Body.String(), "/edit")
	})

	t.Run("editor_sees_edit_links", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books", editorSession)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "/books/"+bookID+"/edit")
	})

	t.Run("member_cannot_edit", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books/"+bookID+"/edit", memberSession)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("malformed_id_is_not_found", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books/not-a-uuid/edit", memberSession)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Book not found")
	})

	t.Run("bad_filter_is_rejected", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books?publication_year=soon", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("out_of_range_filter_is_rejected", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/books?publication_year=99999999999", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestProfilePage shows and edits the visitor's own account.
*/
func TestProfilePage(t *testing.T) {
	router, accounts := newRouterWithProfiles(t)

	t.Run("show", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/profile", memberSession)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `value="ada@example.com"`)
		assert.Contains(t, recorder.Body.String(), `href="/profile"`)
	})

	t.Run("invalid_username_rerenders", func(t *testing.T) {
		recorder := submit(router, "/profile", memberSession, url.Values{"username": {"al"}, "email": {"ada@example.com"}})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `value="al"`)
		assert.Equal(t, "ada", accounts["u1"].Username)
	})

	t.Run("update", func(t *testing.T) {
		recorder := submit(router, "/profile", memberSession, url.Values{"username": {"lovelace"}, "email": {" Ada@Libris.App "}})

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/profile", recorder.Header().Get("Location"))
		assert.Equal(t, "lovelace", accounts["u1"].Username)
		assert.Equal(t, "ada@libris.app", accounts["u1"].Email)
	})
}

/*
TestLoginForm_KeepsNext carries the return path into the form.
*/
func TestLoginForm_KeepsNext(t *testing.T) {
	router := newRouter(t)

	recorder := serve(router, http.MethodGet, "/login?next="+url.QueryEscape("/books/new"), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), `name="next" value="/books/new"`), recorder.Body.String())
}

/*
TestSafeNext only follows local paths after login.
*/
func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/books/new", "/books/new"},
		{"/dashboard/member?tab=posts", "/dashboard/member?tab=posts"},
		{"", "/books"},
		{"https://evil.example", "/books"},
		{"//evil.example", "/books"},
		{"/\\evil.example", "/books"},
		{"/\t/evil.example", "/books"},
		{"/\n/evil.example", "/books"},
		{"/\r/evil.example", "/books"},
		{"/\x00/evil.example", "/books"},
		{"/a\x7f", "/books"},
		{"/books\\..\\..", "/books"},
		{"/%zz", "/books"},
		{"/posts?next=https://evil.example", "/posts?next=https://evil.example"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, web.SafeNext(tt.next, "/books"), tt.next)
	}
}
