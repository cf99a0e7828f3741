// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account lets users read and edit their own account, and lets staff
assign profile roles and capabilities.

Role and capability changes are read by the web session on the next request
and by API tokens on the next login.
*/
package account

import (
	"context"

	"github.com/taibuivan/libris/internal/users/auth"
)

// ProfileInput holds the self-editable fields; nil fields are unchanged.
type ProfileInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type RoleInput struct {
	Role string `json:"role"`
}

const (
	FieldRole       = "role"
	FieldCapability = "capability"
)

// Users loads accounts; auth.PostgresUserRepository satisfies it.
type Users interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	List(context context.Context) ([]*auth.User, error)
}

type Repository interface {
	UpdateProfile(context context.Context, user *auth.User) error

	// SetRole creates or replaces the profile row.
	SetRole(context context.Context, userID, role string) error

	// GrantCapability is idempotent.
	GrantCapability(context context.Context, userID, capability string) error

	// RevokeCapability is idempotent.
	RevokeCapability(context context.Context, userID, capability string) error
}
