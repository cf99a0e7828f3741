// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"
	"strings"

	"github.com/taibuivan/libris/internal/platform/apperr"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
)

const profilePath = "/profile"

func (handler *Handler) profileForm(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.Accounts.Me(request.Context(), requestutil.Actor(request))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "profile", Page{Title: "Your profile", Data: user})
}

// updateProfile saves the username and email. The header keeps showing the
// old username until the next login, since the session carries it.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		handler.fail(writer, request, apperr.ValidationError("Malformed form submission"))
		return
	}

	username := strings.TrimSpace(request.PostForm.Get(auth.FieldUsername))
	email := strings.TrimSpace(request.PostForm.Get(auth.FieldEmail))

	_, err := handler.Accounts.UpdateProfile(request.Context(), requestutil.Actor(request), account.ProfileInput{
		Username: &username,
		Email:    &email,
	})
	if err != nil {
		handler.formFailed(writer, request, "profile", Page{Title: "Your profile", Data: &auth.User{}}, err)
		return
	}

	http.Redirect(writer, request, profilePath, http.StatusSeeOther)
}
