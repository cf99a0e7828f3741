// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/queryspec"
)

const resourceName = "Author"

var listColumns = queryspec.Columns{
	"name": {Expr: "a." + schema.CatalogAuthor.Name},
}

// PostgresRepository implements [Repository] on catalog.author.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, plan queryspec.Plan) ([]*Author, int, error) {
	table := schema.CatalogAuthor

	where, args := plan.Where(listColumns, 1)
	if where != "" {
		where = "WHERE " + where
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s a %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s
		FROM %s a
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`,
		table.ID, table.Name, table.CreatedAt, table.UpdatedAt,
		table.Table,
		where,
		plan.OrderBy(listColumns, "a."+table.ID),
		len(args)+1, len(args)+2,
	)

	rows, err := repository.db.Query(context, query, append(args, plan.Page.Limit, plan.Page.Offset())...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		author := &Author{Books: []BookSummary{}}
		if err := rows.Scan(&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return authors, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Author, error) {
	table := schema.CatalogAuthor
	books := schema.CatalogBook

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.CreatedAt, table.UpdatedAt, table.Table, table.ID,
	)

	author := &Author{}
	if err := repository.db.QueryRow(context, query, id).Scan(
		&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt,
	); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	booksQuery := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		books.ID, books.Title, books.PublicationYear, books.Table, books.AuthorID, books.Title, books.ID,
	)

	rows, err := repository.db.Query(context, booksQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	author.Books = []BookSummary{}
	for rows.Next() {
		var book BookSummary
		if err := rows.Scan(&book.ID, &book.Title, &book.PublicationYear); err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		author.Books = append(author.Books, book)
	}

	return author, dberr.Wrap(rows.Err(), resourceName)
}

func (repository *PostgresRepository) Create(context context.Context, author *Author) error {
	table := schema.CatalogAuthor

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING %s, %s
	`,
		table.Table, table.ID, table.Name, table.CreatedAt, table.UpdatedAt,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, author.ID, author.Name).Scan(&author.CreatedAt, &author.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) Update(context context.Context, author *Author) error {
	table := schema.CatalogAuthor

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table, table.Name, table.UpdatedAt, table.ID, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, author.ID, author.Name).Scan(&author.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// Delete removes the author; catalog.book rows follow through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.CatalogAuthor

	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID), id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	return dberr.Affected(tag, resourceName)
}
