// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package author manages catalog authors and their nested book lists.
package author

import (
	"time"

	"github.com/taibuivan/libris/internal/queryspec"
)

// Author is a writer of one or more catalog books.
type Author struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Books     []BookSummary `json:"books"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BookSummary is the nested representation of a book under its author.
type BookSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
}

// Input is the writable part of an author.
type Input struct {
	Name string `json:"name"`
}

const (
	FieldName     = "name"
	MaxNameLength = 200
)

// QuerySchema lists the parameters accepted by GET /authors.
var QuerySchema = queryspec.Schema{
	Resource:     "author",
	SearchParam:  "search",
	SearchFields: []string{"name"},
	Orderings:    []string{"name"},
	Default:      queryspec.OrderSpec{queryspec.Asc("name")},
}
