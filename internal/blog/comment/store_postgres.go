// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/queryspec"
)

const ResourceName = "Comment"

var (
	comments = schema.BlogComment
	accounts = schema.UserAccount

	orderColumns = queryspec.Columns{
		"created_at": {Expr: "c." + comments.CreatedAt},
	}

	selectComment = fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
	`,
		comments.ID, comments.PostID, comments.AuthorID, accounts.Username, comments.Content, comments.CreatedAt, comments.UpdatedAt,
		comments.Table,
		accounts.Table, accounts.ID, comments.AuthorID,
	)
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListForPost(context context.Context, postID string, plan queryspec.Plan) ([]*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 ORDER BY %s`,
		selectComment, comments.PostID, plan.OrderBy(orderColumns, "c."+comments.ID),
	)

	rows, err := repository.db.Query(context, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}

	result, err := pgx.CollectRows(rows, scanComment)
	if result == nil {
		result = []*Comment{}
	}
	return result, dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Comment, error) {
	rows, err := repository.db.Query(context, fmt.Sprintf(`%s WHERE c.%s = $1`, selectComment, comments.ID), id)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}

	comment, err := pgx.CollectExactlyOneRow(rows, scanComment)
	return comment, dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING %s, %s, %s
		)
		SELECT i.%s, i.%s, u.%s
		FROM inserted i
		JOIN %s u ON u.%s = i.%s
	`,
		comments.Table, comments.ID, comments.PostID, comments.AuthorID, comments.Content, comments.CreatedAt, comments.UpdatedAt,
		comments.AuthorID, comments.CreatedAt, comments.UpdatedAt,
		comments.CreatedAt, comments.UpdatedAt, accounts.Username,
		accounts.Table, accounts.ID, comments.AuthorID,
	)

	err := repository.db.QueryRow(context, query, comment.ID, comment.PostID, comment.AuthorID, comment.Content).
		Scan(&comment.CreatedAt, &comment.UpdatedAt, &comment.AuthorName)
	return dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		comments.Table, comments.Content, comments.UpdatedAt, comments.ID, comments.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt)
	return dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.db.Exec(context,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, comments.Table, comments.ID), id,
	)
	if err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	return dberr.Affected(tag, ResourceName)
}

func (repository *PostgresRepository) PostExists(context context.Context, postID string) (bool, error) {
	posts := schema.BlogPost

	var exists bool
	err := repository.db.QueryRow(context,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, posts.Table, posts.ID), postID,
	).Scan(&exists)
	return exists, dberr.Wrap(err, ResourceName)
}

func scanComment(row pgx.CollectableRow) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	return comment, err
}
