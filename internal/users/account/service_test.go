// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/internal/platform/sec"
	"github.com/taibuivan/libris/internal/users/account"
	"github.com/taibuivan/libris/internal/users/auth"
)

// store backs both account.Users and account.Repository.
type store map[string]*auth.User

func (s store) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := s[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	clone.Capabilities = slices.Clone(user.Capabilities)
	return &clone, nil
}

func (s store) List(context.Context) ([]*auth.User, error) {
	var result []*auth.User
	for _, user := range s {
		result = append(result, user)
	}
	return result, nil
}

func (s store) UpdateProfile(_ context.Context, user *auth.User) error {
	s[user.ID] = user
	return nil
}

func (s store) SetRole(_ context.Context, userID, role string) error {
	parsed := sec.UserRole(role)
	s[userID].Role = &parsed
	return nil
}

func (s store) GrantCapability(_ context.Context, userID, capability string) error {
	if !slices.Contains(s[userID].Capabilities, capability) {
		s[userID].Capabilities = append(s[userID].Capabilities, capability)
	}
	return nil
}

func (s store) RevokeCapability(_ context.Context, userID, capability string) error {
	s[userID].Capabilities = slices.DeleteFunc(s[userID].Capabilities, func(c string) bool { return c == capability })
	return nil
}

func setup() (*account.Service, store) {
	member := sec.RoleMember
	s := store{
		"u1":    {ID: "u1", Username: "alice", Email: "alice@example.com", Role: &member},
		"staff": {ID: "staff", Username: "root", Email: "root@example.com", Staff: true},
	}
	return account.NewService(s, s, access.NewGuard(access.DefaultPolicy), slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

var (
	alice = access.Actor{UserID: "u1"}
	staff = access.Actor{UserID: "staff", Staff: true}
)

/*
TestService_UpdateProfile edits only the caller's own account.
*/
func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	service, _ := setup()

	_, err := service.Me(ctx, access.Anonymous)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	email := " Alice@Libris.App "
	updated, err := service.UpdateProfile(ctx, alice, account.ProfileInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice@libris.app", updated.Email)
	assert.Equal(t, "alice", updated.Username)

	short := "al"
	_, err = service.UpdateProfile(ctx, alice, account.ProfileInput{Username: &short})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_Administration is limited to staff and validates its input.
*/
func TestService_Administration(t *testing.T) {
	ctx := context.Background()
	service, _ := setup()

	_, err := service.SetRole(ctx, alice, "u1", account.RoleInput{Role: "Admin"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.GrantCapability(ctx, access.Anonymous, "u1", "can_edit")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.SetRole(ctx, staff, "u1", account.RoleInput{Role: "Superuser"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.SetRole(ctx, staff, "missing", account.RoleInput{Role: "Admin"})
	assert.True(t, apperr.IsNotFound(err))

	user, err := service.SetRole(ctx, staff, "u1", account.RoleInput{Role: "Librarian"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleLibrarian, *user.Role)

	_, err = service.GrantCapability(ctx, staff, "u1", "can_fly")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	for range 2 {
		user, err = service.GrantCapability(ctx, staff, "u1", "can_edit")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"can_edit"}, user.Capabilities)

	user, err = service.RevokeCapability(ctx, staff, "u1", "can_edit")
	require.NoError(t, err)
	assert.Empty(t, user.Capabilities)

	users, err := service.List(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

/*
TestService_AdministrationDecisions records staff checks in the access
decision counter, including denials that precede the user lookup.
*/
func TestService_AdministrationDecisions(t *testing.T) {
	ctx := context.Background()
	service, _ := setup()

	tests := []struct {
		name    string
		call    func() error
		action  access.Action
		outcome string
		code    string
	}{
		{
			name:    "member_set_role",
			call: func() error {
				_, err := service.SetRole(ctx, alice, "missing", account.RoleInput{Role: "Admin"})
				return err
			},
			action:  access.ActionUpdate,
			outcome: string(access.ReasonForbidden),
			code:    apperr.CodeForbidden,
		},
		{
			name:    "anonymous_list",
			call: func() error {
				_, err := service.List(ctx, access.Anonymous)
				return err
			},
			action:  access.ActionView,
			outcome: string(access.ReasonUnauthenticated),
			code:    apperr.CodeUnauthorized,
		},
		{
			name:    "staff_grant",
			call: func() error {
				_, err := service.GrantCapability(ctx, staff, "u1", "can_view")
				return err
			},
			action:  access.ActionUpdate,
			outcome: "allow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.AccessDecisionsTotal.WithLabelValues(string(access.KindAccount), string(tt.action), tt.outcome)
			before := testutil.ToFloat64(counter)

			err := tt.call()
			if tt.code == "" {
				require.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, tt.code), err)
			}

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}
