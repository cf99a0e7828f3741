// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/uuid"
)

// Service implements the book use cases.
type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
	now    func() time.Time
}

// Option customises a [Service].
type Option func(*Service)

// WithClock replaces time.Now, which decides the current year.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

func NewService(repo Repository, guard *access.Guard, logger *slog.Logger, options ...Option) *Service {
	service := &Service{repo: repo, guard: guard, logger: logger, now: time.Now}
	for _, option := range options {
		option(service)
	}
	return service
}

func (service *Service) List(context context.Context, plan queryspec.Plan) ([]*Book, int, error) {
	return service.repo.List(context, plan)
}

func (service *Service) Get(context context.Context, id string) (*Book, error) {
	return service.repo.Get(context, id)
}

// ListByAuthorName returns every book written by an author with that exact name.
func (service *Service) ListByAuthorName(context context.Context, name string) ([]*Book, error) {
	return service.repo.ListByAuthorName(context, strings.TrimSpace(name))
}

/*
Create adds a book to the catalog.

Checks run in order: the can_create capability, field validation, the
whole-record year check and finally the author reference.
*/
func (service *Service) Create(context context.Context, actor access.Actor, input Input) (*Book, error) {
	if err := service.guard.Create(context, actor, access.KindBook); err != nil {
		return nil, err
	}

	currentYear := service.now().Year()
	if err := validateInput(input, false, currentYear); err != nil {
		return nil, err
	}

	book := &Book{ID: uuid.New()}
	apply(book, input)

	if err := service.prepare(context, book, currentYear); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, book); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_created",
		slog.String("book_id", book.ID),
		slog.String("author_id", book.AuthorID),
		slog.String("actor_id", actor.UserID),
	)
	return book, nil
}

// Update applies the non-nil fields of input.
func (service *Service) Update(context context.Context, actor access.Actor, id string, input Input) (*Book, error) {
	book, err := service.authorize(context, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	currentYear := service.now().Year()
	if err := validateInput(input, true, currentYear); err != nil {
		return nil, err
	}

	apply(book, input)

	if err := service.prepare(context, book, currentYear); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, book); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_updated", slog.String("book_id", book.ID))
	return book, nil
}

func (service *Service) Delete(context context.Context, actor access.Actor, id string) error {
	if _, err := service.authorize(context, actor, access.ActionDelete, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "book_deleted",
		slog.String("book_id", id),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

func (service *Service) authorize(context context.Context, actor access.Actor, action access.Action, id string) (*Book, error) {
	book, err := service.repo.Get(context, id)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var resource *access.Resource
	if book != nil {
		resource = &access.Resource{Kind: access.KindBook, ID: book.ID}
	}

	if err := service.guard.Authorize(context, actor, action, access.KindBook, resource); err != nil {
		return nil, err
	}
	return book, nil
}

// prepare runs the record-level checks and resolves the author's name.
func (service *Service) prepare(context context.Context, book *Book, currentYear int) error {
	if err := checkPublishable(book, currentYear); err != nil {
		return err
	}

	name, err := service.repo.AuthorName(context, book.AuthorID)
	if apperr.IsNotFound(err) {
		return missingAuthor(book.AuthorID)
	}
	if err != nil {
		return err
	}

	book.AuthorName = name
	return nil
}

func apply(book *Book, input Input) {
	if input.Title != nil {
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.PublicationYear != nil {
		book.PublicationYear = *input.PublicationYear
	}
	if input.AuthorID != nil {
		book.AuthorID = strings.ToLower(*input.AuthorID)
	}
}
