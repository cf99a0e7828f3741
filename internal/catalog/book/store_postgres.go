// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/queryspec"
)

// ResourceName labels book errors.
const ResourceName = "Book"

var (
	books   = schema.CatalogBook
	authors = schema.CatalogAuthor

	// listColumns maps the query schema onto the b(ook) and a(uthor) aliases.
	listColumns = queryspec.Columns{
		"title":            {Expr: "b." + books.Title},
		"author":           {Expr: "b." + books.AuthorID},
		"publication_year": {Expr: "b." + books.PublicationYear},
		"author_name":      {Expr: "a." + authors.Name},
	}

	selectBook = fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, a.%s, b.%s, b.%s
		FROM %s b
		JOIN %s a ON a.%s = b.%s
	`,
		books.ID, books.Title, books.PublicationYear, books.AuthorID, authors.Name, books.CreatedAt, books.UpdatedAt,
		books.Table,
		authors.Table, authors.ID, books.AuthorID,
	)
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, plan queryspec.Plan) ([]*Book, int, error) {
	where, args := plan.Where(listColumns, 1)
	if where != "" {
		where = "WHERE " + where
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s b JOIN %s a ON a.%s = b.%s %s`,
		books.Table, authors.Table, authors.ID, books.AuthorID, where,
	)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceName)
	}

	query := fmt.Sprintf(`%s %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectBook, where, plan.OrderBy(listColumns, "b."+books.ID), len(args)+1, len(args)+2,
	)

	rows, err := repository.db.Query(context, query, append(args, plan.Page.Limit, plan.Page.Offset())...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, ResourceName)
	}

	result, err := scanBooks(rows)
	return result, total, err
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`%s WHERE b.%s = $1`, selectBook, books.ID)

	book := &Book{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&book.ID, &book.Title, &book.PublicationYear, &book.AuthorID, &book.AuthorName, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}
	return book, nil
}

func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s
	`,
		books.Table, books.ID, books.Title, books.PublicationYear, books.AuthorID, books.CreatedAt, books.UpdatedAt,
		books.CreatedAt, books.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, book.ID, book.Title, book.PublicationYear, book.AuthorID).
		Scan(&book.CreatedAt, &book.UpdatedAt)
	return dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		books.Table, books.Title, books.PublicationYear, books.AuthorID, books.UpdatedAt,
		books.ID,
		books.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, book.ID, book.Title, book.PublicationYear, book.AuthorID).
		Scan(&book.UpdatedAt)
	return dberr.Wrap(err, ResourceName)
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, books.Table, books.ID), id)
	if err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	return dberr.Affected(tag, ResourceName)
}

func (repository *PostgresRepository) AuthorName(context context.Context, authorID string) (string, error) {
	var name string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, authors.Name, authors.Table, authors.ID)
	if err := repository.db.QueryRow(context, query, authorID).Scan(&name); err != nil {
		return "", dberr.Wrap(err, "Author")
	}
	return name, nil
}

func (repository *PostgresRepository) ListByAuthorName(context context.Context, name string) ([]*Book, error) {
	query := fmt.Sprintf(`%s WHERE a.%s = $1 ORDER BY b.%s, b.%s`, selectBook, authors.Name, books.Title, books.ID)

	rows, err := repository.db.Query(context, query, name)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}
	return scanBooks(rows)
}

func scanBooks(rows pgx.Rows) ([]*Book, error) {
	defer rows.Close()

	result := []*Book{}
	for rows.Next() {
		book := &Book{}
		if err := rows.Scan(
			&book.ID, &book.Title, &book.PublicationYear, &book.AuthorID, &book.AuthorName, &book.CreatedAt, &book.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, ResourceName)
		}
		result = append(result, book)
	}

	return result, dberr.Wrap(rows.Err(), ResourceName)
}
