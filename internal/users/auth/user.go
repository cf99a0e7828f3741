// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth registers users, checks their credentials and keeps track of
web sessions.

Two transports share one credential check:

  - The JSON API receives an RS256 access token from Login.
  - The HTML site receives an opaque session id in a cookie from
    StartSession. Session ids live in Redis and expire on their own.
*/
package auth

import (
	"time"

	"github.com/taibuivan/libris/internal/platform/sec"
)

// User is an account together with its profile role and capabilities.
type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Staff        bool          `json:"is_staff"`
	Role         *sec.UserRole `json:"role"`
	Capabilities []string      `json:"capabilities"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Identity is what the user's tokens and sessions carry.
func (user *User) Identity() sec.Identity {
	identity := sec.Identity{
		UserID:       user.ID,
		Username:     user.Username,
		Staff:        user.Staff,
		Capabilities: user.Capabilities,
	}
	if user.Role != nil {
		identity.Role = user.Role.String()
	}
	return identity
}

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldLogin    = "login"

	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 8
)
