// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

type UserRepository interface {
	// Create stores the account and its Member profile atomically.
	Create(context context.Context, user *User) error

	FindByID(context context.Context, id string) (*User, error)

	// FindByLogin matches the username or the email, case-insensitively.
	FindByLogin(context context.Context, login string) (*User, error)

	// Exists reports which of username and email are already taken.
	Exists(context context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
}

type SessionRepository interface {
	Create(context context.Context, sessionID, userID string, ttl time.Duration) error

	// UserID returns the owner of a live session, or NotFound.
	UserID(context context.Context, sessionID string) (string, error)

	Delete(context context.Context, sessionID string) error
}
