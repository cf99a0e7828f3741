// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/uuid"
)

// Service implements the author use cases.
type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

func NewService(repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, logger: logger}
}

func (service *Service) List(context context.Context, plan queryspec.Plan) ([]*Author, int, error) {
	return service.repo.List(context, plan)
}

func (service *Service) Get(context context.Context, id string) (*Author, error) {
	return service.repo.Get(context, id)
}

func (service *Service) Create(context context.Context, actor access.Actor, input Input) (*Author, error) {
	if err := service.guard.Create(context, actor, access.KindAuthor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	author := &Author{ID: uuid.New(), Name: name, Books: []BookSummary{}}
	if err := service.repo.Create(context, author); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "author_created",
		slog.String("author_id", author.ID),
		slog.String("actor_id", actor.UserID),
	)
	return author, nil
}

func (service *Service) Update(context context.Context, actor access.Actor, id string, input Input) (*Author, error) {
	author, err := service.authorize(context, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	author.Name = name
	if err := service.repo.Update(context, author); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "author_updated", slog.String("author_id", author.ID))
	return author, nil
}

func (service *Service) Delete(context context.Context, actor access.Actor, id string) error {
	if _, err := service.authorize(context, actor, access.ActionDelete, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "author_deleted",
		slog.String("author_id", id),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

// authorize loads the author and runs the policy on it. A missing author is
// passed to the policy as nil so anonymous callers still get 401 first.
func (service *Service) authorize(context context.Context, actor access.Actor, action access.Action, id string) (*Author, error) {
	author, err := service.repo.Get(context, id)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var resource *access.Resource
	if author != nil {
		resource = &access.Resource{Kind: access.KindAuthor, ID: author.ID}
	}

	if err := service.guard.Authorize(context, actor, action, access.KindAuthor, resource); err != nil {
		return nil, err
	}
	return author, nil
}

func validateName(name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	return validator.Err()
}
