// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/sec"
)

func roleOf(role sec.UserRole) *sec.UserRole { return &role }

func user(id string, capabilities ...access.Capability) access.Actor {
	return access.Actor{UserID: id, Capabilities: capabilities}
}

/*
TestCanCreate_Book holds only for authenticated actors with can_create.
*/
func TestCanCreate_Book(t *testing.T) {
	tests := []struct {
		name  string
		actor access.Actor
		want  bool
	}{
		{"anonymous", access.Anonymous, false},
		{"anonymous_with_capability", access.Actor{Capabilities: []access.Capability{access.CapCreate}}, false},
		{"authenticated_without_capability", user("u1"), false},
		{"authenticated_with_other_capabilities", user("u1", access.CapEdit, access.CapDelete), false},
		{"staff_without_capability", access.Actor{UserID: "u1", Staff: true}, false},
		{"authenticated_with_capability", user("u1", access.CapCreate), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanCreate(tt.actor, access.KindBook))
		})
	}
}

/*
TestCanCreate_OtherKinds covers the authenticated-only and role-gated kinds.
*/
func TestCanCreate_OtherKinds(t *testing.T) {
	member := user("u1")
	member.Role = roleOf(sec.RoleMember)

	librarian := user("u2")
	librarian.Role = roleOf(sec.RoleLibrarian)

	for _, kind := range []access.Kind{access.KindAuthor, access.KindPost, access.KindComment} {
		assert.False(t, access.CanCreate(access.Anonymous, kind), kind)
		assert.True(t, access.CanCreate(member, kind), kind)
	}

	assert.False(t, access.CanCreate(member, access.KindLibrary))
	assert.True(t, access.CanCreate(librarian, access.KindLibrary))
}

/*
TestCanMutate_Ownership checks that update and delete agree and equal id equality.
*/
func TestCanMutate_Ownership(t *testing.T) {
	actors := []access.Actor{
		access.Anonymous,
		user("user1"),
		user("user2"),
		{UserID: "user2", Staff: true},
		user("user2", access.Capabilities...),
	}

	for _, kind := range []access.Kind{access.KindPost, access.KindComment} {
		resource := access.Resource{Kind: kind, ID: "p1", OwnerID: "user1"}

		for _, actor := range actors {
			update := access.CanMutate(actor, resource, access.ActionUpdate)
			remove := access.CanMutate(actor, resource, access.ActionDelete)

			assert.Equal(t, update, remove, "kind=%s actor=%q", kind, actor.UserID)
			assert.Equal(t, actor.UserID == "user1", update, "kind=%s actor=%q", kind, actor.UserID)
		}
	}
}

/*
TestAuthorize_PostDeleteScenario is the user1/user2 post scenario.
*/
func TestAuthorize_PostDeleteScenario(t *testing.T) {
	post := &access.Resource{Kind: access.KindPost, ID: "p1", OwnerID: "user1"}

	denied := access.Authorize(user("user2"), access.ActionDelete, access.KindPost, post)
	assert.False(t, denied.Allowed)
	assert.Equal(t, access.ReasonForbidden, denied.Reason)

	allowed := access.Authorize(user("user1"), access.ActionDelete, access.KindPost, post)
	assert.True(t, allowed.Allowed)
	assert.NoError(t, allowed.Err())
}

/*
TestCanMutate_Book covers capability checks and the staff delete override.
*/
func TestCanMutate_Book(t *testing.T) {
	book := access.Resource{Kind: access.KindBook, ID: "b1", OwnerID: "someone"}
	staff := access.Actor{UserID: "s1", Staff: true}

	tests := []struct {
		name   string
		actor  access.Actor
		action access.Action
		want   bool
	}{
		{"editor_updates", user("u1", access.CapEdit), access.ActionUpdate, true},
		{"editor_cannot_delete", user("u1", access.CapEdit), access.ActionDelete, false},
		{"deleter_deletes", user("u1", access.CapDelete), access.ActionDelete, true},
		{"deleter_cannot_update", user("u1", access.CapDelete), access.ActionUpdate, false},
		{"staff_deletes", staff, access.ActionDelete, true},
		{"staff_cannot_update", staff, access.ActionUpdate, false},
		{"owner_field_is_irrelevant", user("someone"), access.ActionUpdate, false},
		{"anonymous", access.Anonymous, access.ActionDelete, false},
		{"view_is_not_a_mutation", user("u1", access.Capabilities...), access.ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.CanMutate(tt.actor, book, tt.action))
		})
	}
}

/*
TestCanView covers public reads and exact-role dashboards.
*/
func TestCanView(t *testing.T) {
	for _, kind := range []access.Kind{access.KindAuthor, access.KindBook, access.KindLibrary, access.KindPost, access.KindComment} {
		assert.True(t, access.CanView(access.Anonymous, access.Resource{Kind: kind, ID: "x"}), kind)
	}

	dashboards := map[access.Kind]sec.UserRole{
		access.KindAdminDashboard:     sec.RoleAdmin,
		access.KindLibrarianDashboard: sec.RoleLibrarian,
		access.KindMemberDashboard:    sec.RoleMember,
	}

	for kind, required := range dashboards {
		for _, role := range sec.Roles {
			actor := user("u1")
			actor.Role = roleOf(role)
			assert.Equal(t, role == required, access.CanView(actor, access.Resource{Kind: kind}), "%s as %s", kind, role)
		}

		// No profile means no role.
		noProfile := access.Actor{UserID: "u1", Staff: true, Capabilities: access.Capabilities}
		assert.False(t, access.CanView(noProfile, access.Resource{Kind: kind}))
		assert.False(t, access.CanView(access.Anonymous, access.Resource{Kind: kind}))
	}
}

/*
TestAuthorize_Order verifies Unauthenticated, then NotFound, then Forbidden.
*/
func TestAuthorize_Order(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		resource *access.Resource
		reason   access.Reason
		code     string
	}{
		{"anonymous_missing_resource", access.Anonymous, nil, access.ReasonUnauthenticated, apperr.CodeUnauthorized},
		{"anonymous_existing_resource", access.Anonymous, &access.Resource{Kind: access.KindPost, OwnerID: "u1"}, access.ReasonUnauthenticated, apperr.CodeUnauthorized},
		{"authenticated_missing_resource", user("u2"), nil, access.ReasonNotFound, apperr.CodeNotFound},
		{"authenticated_not_owner", user("u2"), &access.Resource{Kind: access.KindPost, OwnerID: "u1"}, access.ReasonForbidden, apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := access.Authorize(tt.actor, access.ActionUpdate, access.KindPost, tt.resource)
			require.False(t, decision.Allowed)
			assert.Equal(t, tt.reason, decision.Reason)
			assert.Equal(t, tt.code, apperr.As(decision.Err()).Code)
		})
	}

	assert.Equal(t, "Post not found", access.Authorize(user("u2"), access.ActionDelete, access.KindPost, nil).Err().Error())
}

/*
TestAuthorize_AccountAdministration admits staff only, whatever the
capabilities or role.
*/
func TestAuthorize_AccountAdministration(t *testing.T) {
	admin := user("u1", access.Capabilities...)
	admin.Role = roleOf(sec.RoleAdmin)
	target := &access.Resource{Kind: access.KindAccount, ID: "u9"}

	tests := []struct {
		name   string
		actor  access.Actor
		reason access.Reason
	}{
		{"anonymous", access.Anonymous, access.ReasonUnauthenticated},
		{"admin_role_with_every_capability", admin, access.ReasonForbidden},
		{"staff", access.Actor{UserID: "s1", Staff: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []access.Action{access.ActionView, access.ActionUpdate} {
				decision := access.Authorize(tt.actor, action, access.KindAccount, target)
				assert.Equal(t, tt.reason == "", decision.Allowed, action)
				assert.Equal(t, tt.reason, decision.Reason, action)
			}
		})
	}
}

/*
TestAuthorize_UnknownPair denies pairs missing from the policy.
*/
func TestAuthorize_UnknownPair(t *testing.T) {
	decision := access.Authorize(user("u1", access.Capabilities...), access.ActionDelete, access.KindAdminDashboard, &access.Resource{})
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.ReasonForbidden, decision.Reason)
}

/*
TestFromClaims maps claims into an actor and drops unknown values.
*/
func TestFromClaims(t *testing.T) {
	assert.Equal(t, access.Anonymous, access.FromClaims(nil))
	assert.False(t, access.FromClaims(&sec.AuthClaims{}).Authenticated())

	actor := access.FromClaims(&sec.AuthClaims{
		UserID:       "u1",
		Role:         "Librarian",
		Staff:        true,
		Capabilities: []string{"can_edit", "can_fly"},
	})

	assert.True(t, actor.Authenticated())
	assert.True(t, actor.Staff)
	assert.True(t, actor.HasRole(sec.RoleLibrarian))
	assert.Equal(t, []access.Capability{access.CapEdit}, actor.Capabilities)

	noProfile := access.FromClaims(&sec.AuthClaims{UserID: "u2", Role: "Wizard"})
	assert.Nil(t, noProfile.Role)
}

/*
TestGuard returns the decision as an error and tolerates a bare context.
*/
func TestGuard(t *testing.T) {
	guard := access.NewGuard(access.DefaultPolicy)
	ctx := context.Background()

	assert.NoError(t, guard.Create(ctx, user("u1", access.CapCreate), access.KindBook))
	assert.True(t, apperr.HasCode(guard.Create(ctx, user("u1"), access.KindBook), apperr.CodeForbidden))
	assert.True(t, apperr.HasCode(guard.View(ctx, access.Anonymous, access.KindMemberDashboard), apperr.CodeUnauthorized))

	err := guard.Authorize(ctx, user("u1"), access.ActionDelete, access.KindComment, nil)
	assert.True(t, apperr.IsNotFound(err))
}
