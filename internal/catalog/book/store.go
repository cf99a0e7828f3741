// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/taibuivan/libris/internal/queryspec"
)

type Repository interface {
	List(context context.Context, plan queryspec.Plan) ([]*Book, int, error)
	Get(context context.Context, id string) (*Book, error)
	Create(context context.Context, book *Book) error
	Update(context context.Context, book *Book) error
	Delete(context context.Context, id string) error

	// AuthorName returns the name of the author, or NotFound.
	AuthorName(context context.Context, authorID string) (string, error)

	// ListByAuthorName returns the books of every author named exactly name.
	ListByAuthorName(context context.Context, name string) ([]*Book, error)
}
