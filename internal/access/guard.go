// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"log/slog"

	"github.com/taibuivan/libris/internal/platform/ctxutil"
	"github.com/taibuivan/libris/internal/platform/metrics"
)

// Guard is the service-facing wrapper around a [Policy].
//
// It records every decision in [metrics.AccessDecisionsTotal] and logs
// denials on the request logger before returning the decision as an error.
type Guard struct {
	policy Policy
}

// NewGuard returns a guard enforcing policy.
func NewGuard(policy Policy) *Guard {
	return &Guard{policy: policy}
}

// Authorize evaluates the policy and returns nil or the denial as an
// [apperr.AppError] (401, 403 or 404).
func (guard *Guard) Authorize(context context.Context, actor Actor, action Action, kind Kind, resource *Resource) error {
	decision := guard.policy.Authorize(actor, action, kind, resource)

	metrics.AccessDecisionsTotal.
		WithLabelValues(string(kind), string(action), decision.Outcome()).
		Inc()

	if !decision.Allowed {
		attributes := []any{
			slog.String("kind", string(kind)),
			slog.String("action", string(action)),
			slog.String("reason", string(decision.Reason)),
			slog.String("actor_id", actor.UserID),
		}
		if resource != nil {
			attributes = append(attributes, slog.String("resource_id", resource.ID))
		}
		ctxutil.GetLogger(context).InfoContext(context, "access_denied", attributes...)
	}

	return decision.Err()
}

// Create is shorthand for a kind-level create decision.
func (guard *Guard) Create(context context.Context, actor Actor, kind Kind) error {
	return guard.Authorize(context, actor, ActionCreate, kind, nil)
}

// View is shorthand for a view decision on a gated kind.
func (guard *Guard) View(context context.Context, actor Actor, kind Kind) error {
	return guard.Authorize(context, actor, ActionView, kind, &Resource{Kind: kind})
}
