// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library manages libraries and the books they hold.

Each library names one librarian. Only users with the Librarian role may
create or delete libraries or change their holdings; anyone may read them.
*/
package library

import (
	"time"

	"github.com/taibuivan/libris/internal/catalog/book"
)

type Library struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	LibrarianName string       `json:"librarian_name"`
	Books         []*book.Book `json:"books"`
	CreatedAt     time.Time    `json:"created_at"`
}

type Input struct {
	Name          string `json:"name"`
	LibrarianName string `json:"librarian_name"`
}

const (
	FieldName          = "name"
	FieldLibrarianName = "librarian_name"

	MaxNameLength = 200
)
