// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/postgres"
	"github.com/taibuivan/libris/internal/platform/sec"
)

const resourceName = "User"

var (
	accounts     = schema.UserAccount
	profiles     = schema.UserProfile
	capabilities = schema.UserCapability

	// selectUser folds the optional profile and the capability rows into
	// one row per account.
	selectUser = fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, p.%s,
			COALESCE(
				(SELECT array_agg(c.%s ORDER BY c.%s) FROM %s c WHERE c.%s = a.%s),
				'{}'
			),
			a.%s, a.%s
		FROM %s a
		LEFT JOIN %s p ON p.%s = a.%s
	`,
		accounts.ID, accounts.Username, accounts.Email, accounts.PasswordHash, accounts.IsStaff, profiles.Role,
		capabilities.Capability, capabilities.Capability, capabilities.Table, capabilities.AccountID, accounts.ID,
		accounts.CreatedAt, accounts.UpdatedAt,
		accounts.Table,
		profiles.Table, profiles.AccountID, accounts.ID,
	)
)

// PostgresUserRepository implements [UserRepository] on the users schema.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING %s, %s
		`,
			accounts.Table, accounts.ID, accounts.Username, accounts.Email, accounts.PasswordHash, accounts.IsStaff,
			accounts.CreatedAt, accounts.UpdatedAt,
			accounts.CreatedAt, accounts.UpdatedAt,
		)

		if err := tx.QueryRow(context, query, user.ID, user.Username, user.Email, user.PasswordHash, user.Staff).
			Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
			return dberr.Wrap(err, resourceName)
		}

		if user.Role == nil {
			return nil
		}

		profileQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
			profiles.Table, profiles.AccountID, profiles.Role,
		)
		_, err := tx.Exec(context, profileQuery, user.ID, user.Role.String())
		return dberr.Wrap(err, resourceName)
	})
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, fmt.Sprintf(`%s WHERE a.%s = $1`, selectUser, accounts.ID), id)
}

func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE lower(a.%s) = lower($1) OR lower(a.%s) = lower($1) LIMIT 1`,
		selectUser, accounts.Username, accounts.Email,
	)
	return repository.findOne(context, query, login)
}

// List returns every user ordered by username.
func (repository *PostgresUserRepository) List(context context.Context) ([]*User, error) {
	rows, err := repository.db.Query(context, fmt.Sprintf(`%s ORDER BY a.%s`, selectUser, accounts.Username))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	return users, dberr.Wrap(err, resourceName)
}

func (repository *PostgresUserRepository) Exists(context context.Context, username, email string) (bool, bool, error) {
	query := fmt.Sprintf(`
		SELECT
			EXISTS (SELECT 1 FROM %s WHERE lower(%s) = lower($1)),
			EXISTS (SELECT 1 FROM %s WHERE lower(%s) = lower($2))
	`,
		accounts.Table, accounts.Username,
		accounts.Table, accounts.Email,
	)

	var usernameTaken, emailTaken bool
	err := repository.db.QueryRow(context, query, username, email).Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, dberr.Wrap(err, resourceName)
}

func (repository *PostgresUserRepository) findOne(context context.Context, query string, args ...any) (*User, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	return user, dberr.Wrap(err, resourceName)
}

func scanUser(row pgx.CollectableRow) (*User, error) {
	user := &User{}
	var role *string

	if err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Staff, &role,
		&user.Capabilities, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if role != nil {
		if parsed, ok := sec.ParseRole(*role); ok {
			user.Role = &parsed
		}
	}
	return user, nil
}
