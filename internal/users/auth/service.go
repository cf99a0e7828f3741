// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/uuid"
)

// TokenProvider signs API access tokens.
type TokenProvider interface {
	GenerateAccessToken(identity sec.Identity, timeToLive time.Duration) (string, error)
}

// errInvalidCredentials never says which half of the pair was wrong.
var errInvalidCredentials = apperr.Unauthorized("Invalid login credentials")

// Service implements registration, login and web sessions.
type Service struct {
	users      UserRepository
	sessions   SessionRepository
	tokens     TokenProvider
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// SessionTTL is the lifetime of a web session, also used as cookie max age.
func (service *Service) SessionTTL() time.Duration {
	return service.sessionTTL
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register creates an account with a Member profile.

Returns:
  - *User: the stored user
  - error: VALIDATION_ERROR for bad input, CONFLICT when the username or
    email is taken
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	usernameTaken, emailTaken, err := service.users.Exists(context, username, email)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, apperr.Conflict("Username is already taken")
	}
	if emailTaken {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := sec.RoleMember
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         &role,
		Capabilities: []string{},
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResult is the API login response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// Login checks credentials and signs an access token.
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.Authenticate(context, input)
	if err != nil {
		return nil, err
	}

	token, err := service.tokens.GenerateAccessToken(user.Identity(), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(constants.AccessTokenTTL.Seconds()),
		User:        user,
	}, nil
}

// Authenticate returns the user matching the credentials. Unknown users
// and wrong passwords produce the same error.
func (service *Service) Authenticate(context context.Context, input LoginInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByLogin(context, strings.TrimSpace(input.Login))
	if apperr.IsNotFound(err) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.InfoContext(context, "login_failed", slog.String("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	return user, nil
}

// StartSession authenticates and opens a web session.
//
// # Returns
//   - The new session id, to be set as cookie value.
//   - The signed-in user.
func (service *Service) StartSession(context context.Context, input LoginInput) (string, *User, error) {
	user, err := service.Authenticate(context, input)
	if err != nil {
		return "", nil, err
	}

	sessionID, err := sec.GenerateSecureToken(constants.SessionIDLength)
	if err != nil {
		return "", nil, err
	}

	if err := service.sessions.Create(context, sessionID, user.ID, service.sessionTTL); err != nil {
		return "", nil, err
	}

	metrics.SessionsTotal.WithLabelValues("started").Inc()
	service.logger.InfoContext(context, "session_started", slog.String("user_id", user.ID))

	return sessionID, user, nil
}

// ResolveSession returns the identity behind a session id. The user is
// reloaded on every call, so role and capability changes apply at once.
func (service *Service) ResolveSession(context context.Context, sessionID string) (*sec.AuthClaims, error) {
	userID, err := service.sessions.UserID(context, sessionID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthorized("Session expired")
	}
	if err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(context, userID)
	if apperr.IsNotFound(err) {
		_ = service.sessions.Delete(context, sessionID)
		return nil, apperr.Unauthorized("Session expired")
	}
	if err != nil {
		return nil, err
	}

	return user.Identity().Claims(), nil
}

// EndSession logs out. Ending an unknown session is not an error.
func (service *Service) EndSession(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := service.sessions.Delete(context, sessionID); err != nil {
		return err
	}

	metrics.SessionsTotal.WithLabelValues("ended").Inc()
	return nil
}
