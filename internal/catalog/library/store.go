// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import "context"

type Repository interface {
	List(context context.Context) ([]*Library, error)

	// Get returns the library with its books ordered by title.
	Get(context context.Context, id string) (*Library, error)

	Create(context context.Context, library *Library) error
	Delete(context context.Context, id string) error

	// AddBook links a book; linking twice is a no-op. A missing book is NotFound.
	AddBook(context context.Context, libraryID, bookID string) error

	// RemoveBook unlinks a book; NotFound when it was not held.
	RemoveBook(context context.Context, libraryID, bookID string) error

	ListByLibrarian(context context.Context, librarianName string) ([]*Library, error)
}
