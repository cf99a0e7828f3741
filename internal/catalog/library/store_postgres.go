// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
)

const ResourceName = "Library"

var (
	libraries = schema.CatalogLibrary
	holdings  = schema.CatalogLibraryBook

	selectLibrary = fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s`,
		libraries.ID, libraries.Name, libraries.LibrarianName, libraries.CreatedAt, libraries.Table,
	)
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Library, error) {
	query := fmt.Sprintf(`%s ORDER BY %s, %s`, selectLibrary, libraries.Name, libraries.ID)
	return repository.query(context, query)
}

func (repository *PostgresRepository) ListByLibrarian(context context.Context, librarianName string) ([]*Library, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1 ORDER BY %s, %s`,
		selectLibrary, libraries.LibrarianName, libraries.Name, libraries.ID,
	)
	return repository.query(context, query, librarianName)
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Library, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectLibrary, libraries.ID)

	library := &Library{}
	if err := repository.db.QueryRow(context, query, id).Scan(
		&library.ID, &library.Name, &library.LibrarianName, &library.CreatedAt,
	); err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}

	books := schema.CatalogBook
	authors := schema.CatalogAuthor

	booksQuery := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, a.%s, b.%s, b.%s
		FROM %s h
		JOIN %s b ON b.%s = h.%s
		JOIN %s a ON a.%s = b.%s
		WHERE h.%s = $1
		ORDER BY b.%s, b.%s
	`,
		books.ID, books.Title, books.PublicationYear, books.AuthorID, authors.Name, books.CreatedAt, books.UpdatedAt,
		holdings.Table,
		books.Table, books.ID, holdings.BookID,
		authors.Table, authors.ID, books.AuthorID,
		holdings.LibraryID,
		books.Title, books.ID,
	)

	rows, err := repository.db.Query(context, booksQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}
	defer rows.Close()

	library.Books = []*book.Book{}
	for rows.Next() {
		b := &book.Book{}
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID, &b.AuthorName, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, ResourceName)
		}
		library.Books = append(library.Books, b)
	}

	return library, dberr.Wrap(rows.Err(), ResourceName)
}

func (repository *PostgresRepository) Create(context context.Context, library *Library) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s
	`,
		libraries.Table, libraries.ID, libraries.Name, libraries.LibrarianName, libraries.CreatedAt,
		libraries.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, library.ID, library.Name, library.LibrarianName).Scan(&library.CreatedAt)
	return dberr.Wrap(err, ResourceName)
}

// Delete removes the library; its holdings follow through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.db.Exec(context,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, libraries.Table, libraries.ID), id,
	)
	if err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	return dberr.Affected(tag, ResourceName)
}

func (repository *PostgresRepository) AddBook(context context.Context, libraryID, bookID string) error {
	books := schema.CatalogBook

	// The SELECT yields no row for an unknown book, so nothing is inserted
	// and the EXISTS tells the two outcomes apart.
	query := fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO %s (%s, %s)
			SELECT $1, b.%s FROM %s b WHERE b.%s = $2
			ON CONFLICT DO NOTHING
		)
		SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $2)
	`,
		holdings.Table, holdings.LibraryID, holdings.BookID,
		books.ID, books.Table, books.ID,
		books.Table, books.ID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, libraryID, bookID).Scan(&exists); err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	if !exists {
		return apperr.NotFound(book.ResourceName)
	}
	return nil
}

func (repository *PostgresRepository) RemoveBook(context context.Context, libraryID, bookID string) error {
	tag, err := repository.db.Exec(context,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, holdings.Table, holdings.LibraryID, holdings.BookID),
		libraryID, bookID,
	)
	if err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	return dberr.Affected(tag, book.ResourceName)
}

func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Library, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Library, error) {
		library := &Library{Books: []*book.Book{}}
		err := row.Scan(&library.ID, &library.Name, &library.LibrarianName, &library.CreatedAt)
		return library, err
	})
	return result, dberr.Wrap(err, ResourceName)
}
