// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/platform/sec"
)

//go:embed templates/*.html
var templateFiles embed.FS

const layoutFile = "templates/layout.html"

// Page is the data handed to every template.
type Page struct {
	Title string

	// User is nil for anonymous visitors.
	User  *sec.AuthClaims
	Actor access.Actor

	// Form echoes submitted values back into a re-rendered form.
	Form url.Values

	// Errors maps form fields to their validation message; the empty key
	// holds the form-level message.
	Errors map[string]string

	Data any
}

// CanUpdate reports whether the visitor may edit the resource; templates use
// it to decide which links to show.
func (page Page) CanUpdate(kind, id, ownerID string) bool {
	return access.CanMutate(page.Actor, access.Resource{Kind: access.Kind(kind), ID: id, OwnerID: ownerID}, access.ActionUpdate)
}

// CanDelete is [Page.CanUpdate] for deletion.
func (page Page) CanDelete(kind, id, ownerID string) bool {
	return access.CanMutate(page.Actor, access.Resource{Kind: access.Kind(kind), ID: id, OwnerID: ownerID}, access.ActionDelete)
}

// CanCreate reports whether the visitor may create a resource of kind.
func (page Page) CanCreate(kind string) bool {
	return access.CanCreate(page.Actor, access.Kind(kind))
}

// CanView reports whether the visitor may open the gated view of kind.
func (page Page) CanView(kind string) bool {
	return access.CanView(page.Actor, access.Resource{Kind: access.Kind(kind)})
}

// Value returns the submitted form value for field, or fallback when the
// form was not submitted.
func (page Page) Value(field, fallback string) string {
	if page.Form != nil {
		if values, ok := page.Form[field]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return fallback
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"query": url.QueryEscape,
	"tags":  tagList,
	"year": func(year int) string {
		if year == 0 {
			return ""
		}
		return strconv.Itoa(year)
	},
	"date": func(value any) string {
		if formatter, ok := value.(interface{ Format(string) string }); ok {
			return formatter.Format("2006-01-02")
		}
		return ""
	},
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	renderer := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		page, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFiles, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		renderer.pages[strings.TrimSuffix(path.Base(name), ".html")] = page
	}

	return renderer, nil
}

// render executes the named page into a buffer first so that a template
// failure never leaves a half-written 200 behind.
func (handler *Handler) render(writer http.ResponseWriter, request *http.Request, status int, name string, page Page) {
	tmpl, ok := handler.renderer.pages[name]
	if !ok {
		handler.renderInternal(writer, request, fmt.Errorf("web: unknown page %q", name))
		return
	}

	page.User = ctxutil.GetAuthUser(request.Context())
	page.Actor = access.FromClaims(page.User)

	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, page); err != nil {
		handler.renderInternal(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderContentType, "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}

func (handler *Handler) renderInternal(writer http.ResponseWriter, request *http.Request, err error) {
	ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "web_render_failed", slog.Any("error", err))
	http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// fail turns a service error into the matching page. A 401 becomes the
// login redirect; everything else renders the error page with its status.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "web_unhandled_error", slog.Any("error", err))
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus == http.StatusUnauthorized {
		http.Redirect(writer, request, middleware.LoginRedirect(request.URL.RequestURI()), http.StatusSeeOther)
		return
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "web_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	handler.render(writer, request, appError.HTTPStatus, "error", Page{
		Title: http.StatusText(appError.HTTPStatus),
		Data:  appError,
	})
}

// formFailed re-renders a form with the validation details of err. Any
// other error goes through [Handler.fail].
func (handler *Handler) formFailed(writer http.ResponseWriter, request *http.Request, name string, page Page, err error) {
	appError := apperr.As(err)
	if appError == nil || (appError.Code != apperr.CodeValidation && appError.Code != apperr.CodeConflict) {
		handler.fail(writer, request, err)
		return
	}

	page.Form = request.PostForm
	page.Errors = map[string]string{"": appError.Message}
	for _, detail := range appError.Details {
		page.Errors[detail.Field] = detail.Message
	}

	handler.render(writer, request, appError.HTTPStatus, name, page)
}

// SafeNext returns next when it is a local path, and fallback otherwise.
// Paths holding control characters or backslashes are refused, since
// browsers drop them when resolving the Location header.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}

	for i := 0; i < len(next); i++ {
		if c := next[i]; c < 0x20 || c == 0x7f || c == '\\' {
			return fallback
		}
	}

	target, err := url.Parse(next)
	if err != nil || target.Scheme != "" || target.Host != "" || target.User != nil {
		return fallback
	}
	return next
}
