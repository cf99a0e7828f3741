// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/users/auth"
)

type fakeUsers struct {
	byID map[string]*auth.User
}

func (fake *fakeUsers) Create(_ context.Context, user *auth.User) error {
	fake.byID[user.ID] = user
	return nil
}

func (fake *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := fake.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (fake *fakeUsers) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	for _, user := range fake.byID {
		if strings.EqualFold(user.Username, login) || strings.EqualFold(user.Email, login) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (fake *fakeUsers) Exists(_ context.Context, username, email string) (bool, bool, error) {
	var usernameTaken, emailTaken bool
	for _, user := range fake.byID {
		usernameTaken = usernameTaken || strings.EqualFold(user.Username, username)
		emailTaken = emailTaken || strings.EqualFold(user.Email, email)
	}
	return usernameTaken, emailTaken, nil
}

type fakeSessions map[string]string

func (fake fakeSessions) Create(_ context.Context, sessionID, userID string, _ time.Duration) error {
	fake[sessionID] = userID
	return nil
}

func (fake fakeSessions) UserID(_ context.Context, sessionID string) (string, error) {
	userID, ok := fake[sessionID]
	if !ok {
		return "", apperr.NotFound("Session")
	}
	return userID, nil
}

func (fake fakeSessions) Delete(_ context.Context, sessionID string) error {
	delete(fake, sessionID)
	return nil
}

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "libris.test")
}

func setup(t *testing.T) (*auth.Service, *fakeUsers, fakeSessions, *sec.TokenService) {
	users := &fakeUsers{byID: map[string]*auth.User{}}
	sessions := fakeSessions{}
	tokens := newTokenService(t)
	service := auth.NewService(users, sessions, tokens, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, users, sessions, tokens
}

var alice = auth.RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "correct horse"}

/*
TestService_Register creates a Member profile and rejects duplicates.
*/
func TestService_Register(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := setup(t)

	user, err := service.Register(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, sec.RoleMember, *user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, alice.Password, user.PasswordHash)

	_, err = service.Register(ctx, auth.RegisterInput{Username: "ALICE", Email: "other@example.com", Password: "password1"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.Register(ctx, auth.RegisterInput{Username: "bob", Email: "alice@example.com", Password: "password1"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.Register(ctx, auth.RegisterInput{Username: "bo", Email: "not-an-email", Password: "short"})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Len(t, appErr.Details, 3)
}

/*
TestService_Login signs a token carrying the role and staff flag.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	service, _, _, tokens := setup(t)

	_, err := service.Register(ctx, alice)
	require.NoError(t, err)

	_, err = service.Login(ctx, auth.LoginInput{Login: "alice", Password: "wrong password"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Login(ctx, auth.LoginInput{Login: "nobody", Password: "correct horse"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	result, err := service.Login(ctx, auth.LoginInput{Login: "ALICE@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)

	claims, err := tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "Member", claims.Role)
	assert.False(t, claims.Staff)
}

/*
TestService_Sessions starts, resolves and ends a web session.
*/
func TestService_Sessions(t *testing.T) {
	ctx := context.Background()
	service, users, sessions, _ := setup(t)

	user, err := service.Register(ctx, alice)
	require.NoError(t, err)

	sessionID, _, err := service.StartSession(ctx, auth.LoginInput{Login: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, sessions[sessionID])

	claims, err := service.ResolveSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// Role changes show up on the next request.
	librarian := sec.RoleLibrarian
	users.byID[user.ID].Role = &librarian
	claims, err = service.ResolveSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Librarian", claims.Role)

	require.NoError(t, service.EndSession(ctx, sessionID))
	_, err = service.ResolveSession(ctx, sessionID)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	require.NoError(t, service.EndSession(ctx, ""))
}
