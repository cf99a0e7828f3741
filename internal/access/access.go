// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether an actor may perform an action on a resource.

Three authorization models coexist and are kept apart on purpose:

  - Capabilities: named permission strings ("can_edit") held by the actor,
    independent of who owns the resource. Books and authors use them.
  - Ownership: the actor must be the resource's author. Posts and comments
    use it, with no staff or capability override.
  - Roles: the actor's profile role must equal the required role. Dashboards
    and library management use it. An actor without a profile never matches.

Each (kind, action) pair is bound to exactly one [Check] in a [Policy]. The
functions in this package are pure: they read only their arguments.
*/
package access

import (
	"slices"

	"github.com/taibuivan/libris/internal/platform/sec"
)

// # Vocabulary

// Capability is a named permission granted to a user.
type Capability string

const (
	CapView   Capability = "can_view"
	CapCreate Capability = "can_create"
	CapEdit   Capability = "can_edit"
	CapDelete Capability = "can_delete"
)

// Capabilities lists every grantable capability.
var Capabilities = []Capability{CapView, CapCreate, CapEdit, CapDelete}

// IsValid reports whether c is a known capability.
func (c Capability) IsValid() bool {
	return slices.Contains(Capabilities, c)
}

// Kind names a resource type or a gated view.
type Kind string

const (
	KindAuthor  Kind = "author"
	KindBook    Kind = "book"
	KindLibrary Kind = "library"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindAccount Kind = "account"

	KindAdminDashboard     Kind = "admin_dashboard"
	KindLibrarianDashboard Kind = "librarian_dashboard"
	KindMemberDashboard    Kind = "member_dashboard"
)

// Action is what the actor attempts to do.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// targetsInstance reports whether the action needs an existing resource.
func (a Action) targetsInstance() bool {
	return a == ActionUpdate || a == ActionDelete
}

// # Actor

// Actor is the request-scoped identity every decision is made for.
//
// The zero value is the anonymous actor.
type Actor struct {
	// UserID is empty for anonymous requests.
	UserID string

	// Staff grants the staff-only overrides named in the policy.
	Staff bool

	// Role is nil when the user has no profile.
	Role *sec.UserRole

	Capabilities []Capability
}

// Anonymous is the actor used when no identity was presented.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries an identity.
func (actor Actor) Authenticated() bool {
	return actor.UserID != ""
}

// Has reports whether the actor holds the capability.
func (actor Actor) Has(capability Capability) bool {
	return slices.Contains(actor.Capabilities, capability)
}

// HasRole reports whether the actor's profile role equals role.
// An actor without a profile has no role.
func (actor Actor) HasRole(role sec.UserRole) bool {
	return actor.Role != nil && *actor.Role == role
}

// Owns reports whether the actor is the owner of the resource.
func (actor Actor) Owns(resource Resource) bool {
	return actor.Authenticated() && resource.OwnerID != "" && actor.UserID == resource.OwnerID
}

// FromClaims builds an actor from verified token or session claims.
// Nil claims yield [Anonymous]. Unknown roles and capabilities are dropped.
func FromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil || claims.UserID == "" {
		return Anonymous
	}

	actor := Actor{
		UserID: claims.UserID,
		Staff:  claims.Staff,
	}

	if role, ok := sec.ParseRole(claims.Role); ok {
		actor.Role = &role
	}

	for _, raw := range claims.Capabilities {
		if capability := Capability(raw); capability.IsValid() {
			actor.Capabilities = append(actor.Capabilities, capability)
		}
	}

	return actor
}

// # Resource

// Resource is a snapshot of a persisted resource, taken before the decision.
type Resource struct {
	Kind Kind
	ID   string

	// OwnerID is the author's user id for owned kinds, empty otherwise.
	OwnerID string
}
