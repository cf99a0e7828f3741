// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/sec"
)

// # Checks

// Check is one authorization strategy. The set of implementations is closed:
// [Public], [Authenticated], [StaffCheck], [CapabilityCheck], [OwnershipCheck]
// and [RoleCheck].
type Check interface {
	// requiresIdentity reports whether an anonymous actor is rejected
	// before the resource is considered.
	requiresIdentity() bool

	// permits evaluates the predicate. resource is nil for kind-level actions.
	permits(actor Actor, resource *Resource) bool
}

// Public allows everyone, including anonymous actors.
type Public struct{}

func (Public) requiresIdentity() bool { return false }
func (Public) permits(Actor, *Resource) bool { return true }

// Authenticated allows any actor with an identity.
type Authenticated struct{}

func (Authenticated) requiresIdentity() bool { return true }
func (Authenticated) permits(actor Actor, _ *Resource) bool {
	return actor.Authenticated()
}

// StaffCheck allows staff members only.
type StaffCheck struct{}

func (StaffCheck) requiresIdentity() bool { return true }
func (StaffCheck) permits(actor Actor, _ *Resource) bool {
	return actor.Authenticated() && actor.Staff
}

// CapabilityCheck allows actors holding Capability, regardless of ownership.
// With StaffOverride set, staff members are allowed without the capability.
type CapabilityCheck struct {
	Capability    Capability
	StaffOverride bool
}

func (CapabilityCheck) requiresIdentity() bool { return true }
func (check CapabilityCheck) permits(actor Actor, _ *Resource) bool {
	if actor.Has(check.Capability) {
		return true
	}
	return check.StaffOverride && actor.Staff
}

// OwnershipCheck allows only the actor recorded as the resource's owner.
type OwnershipCheck struct{}

func (OwnershipCheck) requiresIdentity() bool { return true }
func (OwnershipCheck) permits(actor Actor, resource *Resource) bool {
	return resource != nil && actor.Owns(*resource)
}

// RoleCheck allows actors whose profile role equals Role.
type RoleCheck struct {
	Role sec.UserRole
}

func (RoleCheck) requiresIdentity() bool { return true }
func (check RoleCheck) permits(actor Actor, _ *Resource) bool {
	return actor.HasRole(check.Role)
}

// # Policy

// Policy binds each (kind, action) pair to a single [Check].
// A pair missing from the table is denied as Forbidden.
type Policy map[Kind]map[Action]Check

// DefaultPolicy is the rule set enforced by every service.
var DefaultPolicy = Policy{
	KindAuthor: {
		ActionView:   Public{},
		ActionCreate: Authenticated{},
		ActionUpdate: CapabilityCheck{Capability: CapEdit},
		ActionDelete: CapabilityCheck{Capability: CapDelete, StaffOverride: true},
	},
	KindBook: {
		ActionView:   Public{},
		ActionCreate: CapabilityCheck{Capability: CapCreate},
		ActionUpdate: CapabilityCheck{Capability: CapEdit},
		ActionDelete: CapabilityCheck{Capability: CapDelete, StaffOverride: true},
	},
	KindLibrary: {
		ActionView:   Public{},
		ActionCreate: RoleCheck{Role: sec.RoleLibrarian},
		ActionUpdate: RoleCheck{Role: sec.RoleLibrarian},
		ActionDelete: RoleCheck{Role: sec.RoleLibrarian},
	},
	KindPost: {
		ActionView:   Public{},
		ActionCreate: Authenticated{},
		ActionUpdate: OwnershipCheck{},
		ActionDelete: OwnershipCheck{},
	},
	KindComment: {
		ActionView:   Public{},
		ActionCreate: Authenticated{},
		ActionUpdate: OwnershipCheck{},
		ActionDelete: OwnershipCheck{},
	},
	// Account administration: listing users, roles and capabilities.
	KindAccount: {
		ActionView:   StaffCheck{},
		ActionUpdate: StaffCheck{},
	},
	KindAdminDashboard:     {ActionView: RoleCheck{Role: sec.RoleAdmin}},
	KindLibrarianDashboard: {ActionView: RoleCheck{Role: sec.RoleLibrarian}},
	KindMemberDashboard:    {ActionView: RoleCheck{Role: sec.RoleMember}},
}

// # Decisions

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonNotFound        Reason = "not_found"
)

// Decision is the outcome of [Policy.Authorize].
type Decision struct {
	Allowed bool
	Reason  Reason
	Kind    Kind
}

// Outcome is "allow" or the deny reason, suitable as a metric label.
func (decision Decision) Outcome() string {
	if decision.Allowed {
		return "allow"
	}
	return string(decision.Reason)
}

// Err converts a denial into the matching [apperr.AppError]; nil when allowed.
func (decision Decision) Err() error {
	if decision.Allowed {
		return nil
	}

	switch decision.Reason {
	case ReasonUnauthenticated:
		return apperr.Unauthorized("Authentication required")
	case ReasonNotFound:
		return apperr.NotFound(decision.Kind.Label())
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// Label is the human name of a kind used in error messages.
func (kind Kind) Label() string {
	switch kind {
	case KindAuthor:
		return "Author"
	case KindBook:
		return "Book"
	case KindLibrary:
		return "Library"
	case KindPost:
		return "Post"
	case KindComment:
		return "Comment"
	case KindAccount:
		return "User"
	default:
		return "Page"
	}
}

/*
Authorize decides whether actor may perform action on a resource of kind.

resource is the persisted snapshot for update and delete. A nil resource on
those actions means the lookup found nothing.

Checks run in a fixed order:

 1. Identity required but absent: Unauthenticated.
 2. Instance action without a resource: NotFound.
 3. Predicate fails: Forbidden.

Anonymous actors therefore learn nothing about whether a resource exists.
*/
func (policy Policy) Authorize(actor Actor, action Action, kind Kind, resource *Resource) Decision {
	deny := func(reason Reason) Decision {
		return Decision{Reason: reason, Kind: kind}
	}

	check, ok := policy[kind][action]
	if !ok {
		return deny(ReasonForbidden)
	}

	if check.requiresIdentity() && !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	if action.targetsInstance() && resource == nil {
		return deny(ReasonNotFound)
	}

	if !check.permits(actor, resource) {
		return deny(ReasonForbidden)
	}

	return Decision{Allowed: true, Kind: kind}
}

// # Predicates

// Authorize evaluates [DefaultPolicy].
func Authorize(actor Actor, action Action, kind Kind, resource *Resource) Decision {
	return DefaultPolicy.Authorize(actor, action, kind, resource)
}

// CanView reports whether actor may read resource (or open the gated view
// named by resource.Kind).
func CanView(actor Actor, resource Resource) bool {
	return Authorize(actor, ActionView, resource.Kind, &resource).Allowed
}

// CanCreate reports whether actor may create a resource of kind.
func CanCreate(actor Actor, kind Kind) bool {
	return Authorize(actor, ActionCreate, kind, nil).Allowed
}

// CanMutate reports whether actor may update or delete resource.
// Any other action yields false.
func CanMutate(actor Actor, resource Resource, action Action) bool {
	if !action.targetsInstance() {
		return false
	}
	return Authorize(actor, action, resource.Kind, &resource).Allowed
}
