// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/internal/users/auth"
)

type Service struct {
	users  Users
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

func NewService(users Users, repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{users: users, repo: repo, guard: guard, logger: logger}
}

// Me returns the actor's own account.
func (service *Service) Me(context context.Context, actor access.Actor) (*auth.User, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.users.FindByID(context, actor.UserID)
}

// List returns every account. Staff only.
func (service *Service) List(context context.Context, actor access.Actor) ([]*auth.User, error) {
	if err := service.guard.View(context, actor, access.KindAccount); err != nil {
		return nil, err
	}
	return service.users.List(context)
}

/*
UpdateProfile changes the actor's username or email.

Returns:
  - *auth.User: the updated account
  - error: VALIDATION_ERROR, or CONFLICT when the new value is taken
*/
func (service *Service) UpdateProfile(context context.Context, actor access.Actor, input ProfileInput) (*auth.User, error) {
	user, err := service.Me(context, actor)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
		validator.
			Required(auth.FieldUsername, user.Username).
			MinLen(auth.FieldUsername, user.Username, auth.MinUsernameLength).
			MaxLen(auth.FieldUsername, user.Username, auth.MaxUsernameLength)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		validator.Required(auth.FieldEmail, user.Email).Email(auth.FieldEmail, user.Email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

// SetRole assigns the profile role of a user. Staff only.
func (service *Service) SetRole(context context.Context, actor access.Actor, userID string, input RoleInput) (*auth.User, error) {
	if err := service.administer(context, actor, userID); err != nil {
		return nil, err
	}

	role, ok := sec.ParseRole(strings.TrimSpace(input.Role))
	if !ok {
		return nil, validate.FieldError(FieldRole, "Must be one of Admin, Librarian, Member")
	}

	if _, err := service.users.FindByID(context, userID); err != nil {
		return nil, err
	}

	if err := service.repo.SetRole(context, userID, role.String()); err != nil {
		return nil, err
	}

	service.logger.WarnContext(context, "role_assigned",
		slog.String("user_id", userID),
		slog.String("role", role.String()),
		slog.String("actor_id", actor.UserID),
	)
	return service.users.FindByID(context, userID)
}

// GrantCapability adds a capability to a user. Staff only.
func (service *Service) GrantCapability(context context.Context, actor access.Actor, userID, capability string) (*auth.User, error) {
	return service.changeCapability(context, actor, userID, capability, true)
}

// RevokeCapability removes a capability from a user. Staff only.
func (service *Service) RevokeCapability(context context.Context, actor access.Actor, userID, capability string) (*auth.User, error) {
	return service.changeCapability(context, actor, userID, capability, false)
}

func (service *Service) changeCapability(context context.Context, actor access.Actor, userID, capability string, grant bool) (*auth.User, error) {
	if err := service.administer(context, actor, userID); err != nil {
		return nil, err
	}

	if !access.Capability(capability).IsValid() {
		return nil, validate.FieldError(FieldCapability, "Unknown capability")
	}

	if _, err := service.users.FindByID(context, userID); err != nil {
		return nil, err
	}

	event := "capability_granted"
	change := service.repo.GrantCapability
	if !grant {
		event = "capability_revoked"
		change = service.repo.RevokeCapability
	}

	if err := change(context, userID, capability); err != nil {
		return nil, err
	}

	service.logger.WarnContext(context, event,
		slog.String("user_id", userID),
		slog.String("capability", capability),
		slog.String("actor_id", actor.UserID),
	)
	return service.users.FindByID(context, userID)
}

// administer gates changes to another user's account. The decision comes
// before the lookup, so non-staff callers learn nothing about which user ids exist.
func (service *Service) administer(context context.Context, actor access.Actor, userID string) error {
	return service.guard.Authorize(context, actor, access.ActionUpdate, access.KindAccount,
		&access.Resource{Kind: access.KindAccount, ID: userID})
}
