// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates pgx and PostgreSQL errors into [apperr.AppError]
// values so that repositories never leak driver details.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/libris/internal/platform/apperr"
)

// SQLSTATE codes the repositories care about.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Wrap classifies a database error for the named resource.
//
//   - pgx.ErrNoRows becomes NOT_FOUND ("<resource> not found").
//   - A unique violation becomes CONFLICT.
//   - A foreign key violation becomes VALIDATION_ERROR.
//   - Anything else becomes INTERNAL_ERROR with the cause kept for logs.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified (e.g. returned by a nested repository call).
	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case uniqueViolation:
			conflict := apperr.Conflict(fmt.Sprintf("%s already exists", resource))
			conflict.Cause = err
			return conflict
		case foreignKeyViolation:
			invalid := apperr.ValidationError("Referenced record does not exist")
			invalid.Cause = err
			return invalid
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", resource, err))
}

// Affected returns NOT_FOUND when a write touched no rows.
// A repeated delete of the same id therefore surfaces as NotFound.
func Affected(tag pgconn.CommandTag, resource string) error {
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
