// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/uuid"
)

type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

func NewService(repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, logger: logger}
}

func (service *Service) List(context context.Context) ([]*Library, error) {
	return service.repo.List(context)
}

func (service *Service) Get(context context.Context, id string) (*Library, error) {
	return service.repo.Get(context, id)
}

/*
ListBooks evaluates plan against the books held by a library.

Holdings are small, so the plan runs in memory over the loaded slice
instead of being rendered to SQL.

Returns:
  - The requested page of books.
  - The number of books matching the plan before paging.
*/
func (service *Service) ListBooks(context context.Context, id string, plan queryspec.Plan) ([]*book.Book, int, error) {
	library, err := service.repo.Get(context, id)
	if err != nil {
		return nil, 0, err
	}

	matched := queryspec.Apply(library.Books, plan, book.Values)
	start, end := plan.Page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

// LibrarianFor returns the libraries run by the named librarian.
func (service *Service) LibrarianFor(context context.Context, librarianName string) ([]*Library, error) {
	return service.repo.ListByLibrarian(context, strings.TrimSpace(librarianName))
}

func (service *Service) Create(context context.Context, actor access.Actor, input Input) (*Library, error) {
	if err := service.guard.Create(context, actor, access.KindLibrary); err != nil {
		return nil, err
	}

	library := &Library{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		LibrarianName: strings.TrimSpace(input.LibrarianName),
		Books:         []*book.Book{},
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldName, library.Name).
		MaxLen(FieldName, library.Name, MaxNameLength).
		Required(FieldLibrarianName, library.LibrarianName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, library); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "library_created",
		slog.String("library_id", library.ID),
		slog.String("librarian", library.LibrarianName),
	)
	return library, nil
}

func (service *Service) AddBook(context context.Context, actor access.Actor, libraryID, bookID string) error {
	if _, err := service.authorize(context, actor, access.ActionUpdate, libraryID); err != nil {
		return err
	}

	if err := service.repo.AddBook(context, libraryID, bookID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "library_book_added",
		slog.String("library_id", libraryID),
		slog.String("book_id", bookID),
	)
	return nil
}

func (service *Service) RemoveBook(context context.Context, actor access.Actor, libraryID, bookID string) error {
	if _, err := service.authorize(context, actor, access.ActionUpdate, libraryID); err != nil {
		return err
	}

	if err := service.repo.RemoveBook(context, libraryID, bookID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "library_book_removed",
		slog.String("library_id", libraryID),
		slog.String("book_id", bookID),
	)
	return nil
}

func (service *Service) Delete(context context.Context, actor access.Actor, id string) error {
	if _, err := service.authorize(context, actor, access.ActionDelete, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "library_deleted",
		slog.String("library_id", id),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

func (service *Service) authorize(context context.Context, actor access.Actor, action access.Action, id string) (*Library, error) {
	library, err := service.repo.Get(context, id)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var resource *access.Resource
	if library != nil {
		resource = &access.Resource{Kind: access.KindLibrary, ID: library.ID}
	}

	if err := service.guard.Authorize(context, actor, action, access.KindLibrary, resource); err != nil {
		return nil, err
	}
	return library, nil
}
