// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/users/auth"
)

const resourceName = "User"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) UpdateProfile(context context.Context, user *auth.User) error {
	table := schema.UserAccount

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1 RETURNING %s`,
		table.Table, table.Username, table.Email, table.UpdatedAt, table.ID, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, user.ID, user.Username, user.Email).Scan(&user.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) SetRole(context context.Context, userID, role string) error {
	table := schema.UserProfile

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
	`,
		table.Table, table.AccountID, table.Role,
		table.AccountID, table.Role, table.Role,
	)

	_, err := repository.db.Exec(context, query, userID, role)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) GrantCapability(context context.Context, userID, capability string) error {
	table := schema.UserCapability

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		table.Table, table.AccountID, table.Capability,
	)

	_, err := repository.db.Exec(context, query, userID, capability)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) RevokeCapability(context context.Context, userID, capability string) error {
	table := schema.UserCapability

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.AccountID, table.Capability)

	_, err := repository.db.Exec(context, query, userID, capability)
	return dberr.Wrap(err, resourceName)
}
