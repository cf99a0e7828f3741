// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"
	"net/url"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/middleware"
	"github.com/taibuivan/libris/internal/users/auth"
)

const homePath = "/books"

func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	handler.render(writer, request, http.StatusOK, "login", Page{
		Title: "Log in",
		Form:  url.Values{constants.NextParam: {request.URL.Query().Get(constants.NextParam)}},
	})
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		handler.fail(writer, request, err)
		return
	}

	sessionID, _, err := handler.Auth.StartSession(request.Context(), auth.LoginInput{
		Login:    request.PostForm.Get("login"),
		Password: request.PostForm.Get("password"),
	})
	if err != nil {
		handler.loginFailed(writer, request, err)
		return
	}

	middleware.SetSessionCookie(writer, sessionID, int(handler.Auth.SessionTTL().Seconds()), handler.SecureCookies)
	http.Redirect(writer, request, SafeNext(request.PostForm.Get(constants.NextParam), homePath), http.StatusSeeOther)
}

// loginFailed re-renders the form for bad credentials instead of looping
// through the login redirect.
func (handler *Handler) loginFailed(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil || (appError.Code != apperr.CodeUnauthorized && appError.Code != apperr.CodeValidation) {
		handler.fail(writer, request, err)
		return
	}

	form := url.Values{
		"login":             {request.PostForm.Get("login")},
		constants.NextParam: {request.PostForm.Get(constants.NextParam)},
	}
	handler.render(writer, request, appError.HTTPStatus, "login", Page{
		Title:  "Log in",
		Form:   form,
		Errors: map[string]string{"": appError.Message},
	})
}

func (handler *Handler) registerForm(writer http.ResponseWriter, request *http.Request) {
	handler.render(writer, request, http.StatusOK, "register", Page{Title: "Create an account"})
}

// register creates the account and logs the new user in.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		handler.fail(writer, request, err)
		return
	}

	input := auth.RegisterInput{
		Username: request.PostForm.Get("username"),
		Email:    request.PostForm.Get("email"),
		Password: request.PostForm.Get("password"),
	}

	if _, err := handler.Auth.Register(request.Context(), input); err != nil {
		handler.formFailed(writer, request, "register", Page{Title: "Create an account"}, err)
		return
	}

	sessionID, _, err := handler.Auth.StartSession(request.Context(), auth.LoginInput{Login: input.Username, Password: input.Password})
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	middleware.SetSessionCookie(writer, sessionID, int(handler.Auth.SessionTTL().Seconds()), handler.SecureCookies)
	http.Redirect(writer, request, homePath, http.StatusSeeOther)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.Auth.EndSession(request.Context(), ctxutil.GetSessionID(request.Context())); err != nil {
		handler.fail(writer, request, err)
		return
	}

	middleware.ClearSessionCookie(writer)
	http.Redirect(writer, request, homePath, http.StatusSeeOther)
}
