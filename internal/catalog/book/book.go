// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages catalog books.

A book belongs to exactly one author and carries a publication year that may
not lie in the future. Creating, editing and deleting books is gated by the
can_create, can_edit and can_delete capabilities; staff may always delete.
*/
package book

import (
	"time"

	"github.com/taibuivan/libris/internal/queryspec"
)

// Book is a catalog entry.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        string    `json:"author"`
	AuthorName      string    `json:"author_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input is the writable part of a book. Nil fields are left unchanged on
// update and are required on create.
type Input struct {
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	AuthorID        *string `json:"author"`
}

const (
	FieldTitle           = "title"
	FieldPublicationYear = "publication_year"
	FieldAuthor          = "author"

	MaxTitleLength = 200
)

// QuerySchema lists the parameters accepted by GET /api/v1/books.
var QuerySchema = queryspec.Schema{
	Resource: "book",
	Filters: []queryspec.FilterField{
		{Param: "title", Type: queryspec.Text},
		{Param: "author", Type: queryspec.ID},
		{Param: "publication_year", Type: queryspec.Int},
	},
	SearchParam:  "search",
	SearchFields: []string{"title", "author_name"},
	Orderings:    []string{"publication_year", "title"},
	Default:      queryspec.OrderSpec{queryspec.Asc("title")},
}

// PageSchema is [QuerySchema] with the search box parameter of the HTML list.
var PageSchema = func() queryspec.Schema {
	schema := QuerySchema
	schema.SearchParam = "q"
	return schema
}()

// Values exposes the queryable fields of b to [queryspec.Apply].
func Values(b *Book, field string) []any {
	switch field {
	case FieldTitle:
		return []any{b.Title}
	case FieldAuthor:
		return []any{b.AuthorID}
	case "author_name":
		return []any{b.AuthorName}
	case FieldPublicationYear:
		return []any{b.PublicationYear}
	}
	return nil
}
