// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/uuid"
)

// postResource labels errors about the parent post.
const postResource = "Post"

type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

func NewService(repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, logger: logger}
}

// ListForPost returns the comments of a post in plan order. An unknown post
// is NotFound.
func (service *Service) ListForPost(context context.Context, postID string, plan queryspec.Plan) ([]*Comment, error) {
	if err := service.requirePost(context, postID); err != nil {
		return nil, err
	}
	return service.repo.ListForPost(context, postID, plan)
}

func (service *Service) Get(context context.Context, id string) (*Comment, error) {
	return service.repo.Get(context, id)
}

// Create adds a comment by actor under the post.
func (service *Service) Create(context context.Context, actor access.Actor, postID string, input Input) (*Comment, error) {
	if err := service.guard.Create(context, actor, access.KindComment); err != nil {
		return nil, err
	}

	if err := service.requirePost(context, postID); err != nil {
		return nil, err
	}

	content, err := ValidateContent(input.Content)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: actor.UserID,
		Content:  content,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID),
		slog.String("author_id", actor.UserID),
	)
	return comment, nil
}

func (service *Service) Update(context context.Context, actor access.Actor, id string, input Input) (*Comment, error) {
	comment, err := service.authorize(context, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	content, err := ValidateContent(input.Content)
	if err != nil {
		return nil, err
	}
	comment.Content = content

	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_updated", slog.String("comment_id", id))
	return comment, nil
}

// Delete removes the comment and returns it so callers can redirect back
// to its post.
func (service *Service) Delete(context context.Context, actor access.Actor, id string) (*Comment, error) {
	comment, err := service.authorize(context, actor, access.ActionDelete, id)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("comment_id", id),
		slog.String("post_id", comment.PostID),
	)
	return comment, nil
}

// authorize checks ownership against the stored comment, never against
// anything the client sent.
func (service *Service) authorize(context context.Context, actor access.Actor, action access.Action, id string) (*Comment, error) {
	comment, err := service.repo.Get(context, id)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var resource *access.Resource
	if comment != nil {
		resource = &access.Resource{Kind: access.KindComment, ID: comment.ID, OwnerID: comment.AuthorID}
	}

	if err := service.guard.Authorize(context, actor, action, access.KindComment, resource); err != nil {
		return nil, err
	}
	return comment, nil
}

func (service *Service) requirePost(context context.Context, postID string) error {
	exists, err := service.repo.PostExists(context, postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(postResource)
	}
	return nil
}
