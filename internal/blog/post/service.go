// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/pagination"
	"github.com/taibuivan/libris/pkg/uuid"
)

// CommentLister loads the comments shown under a post.
type CommentLister interface {
	ListForPost(context context.Context, postID string, plan queryspec.Plan) ([]*comment.Comment, error)
}

type Service struct {
	repo     Repository
	comments CommentLister
	guard    *access.Guard
	logger   *slog.Logger
}

func NewService(repo Repository, comments CommentLister, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{repo: repo, comments: comments, guard: guard, logger: logger}
}

func (service *Service) List(context context.Context, plan queryspec.Plan) ([]*Post, int, error) {
	return service.repo.List(context, plan)
}

// ListByTag returns the posts carrying the tag, newest first. The tag may
// be given by name or slug; an unknown tag is NotFound.
func (service *Service) ListByTag(context context.Context, tag string, page pagination.Params) (*Tag, []*Post, int, error) {
	found, err := service.repo.FindTag(context, strings.TrimSpace(tag))
	if err != nil {
		return nil, nil, 0, err
	}

	posts, total, err := service.repo.ListByTag(context, *found, page)
	if err != nil {
		return nil, nil, 0, err
	}
	return found, posts, total, nil
}

func (service *Service) ListByAuthor(context context.Context, authorID string) ([]*Post, error) {
	return service.repo.ListByAuthor(context, authorID)
}

// Get returns the post with its comments, oldest comment first.
func (service *Service) Get(context context.Context, id string) (*Post, error) {
	post, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	post.Comments, err = service.comments.ListForPost(context, id, comment.QuerySchema.DefaultPlan())
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create stores a post written by actor.
func (service *Service) Create(context context.Context, actor access.Actor, input Input) (*Post, error) {
	if err := service.guard.Create(context, actor, access.KindPost); err != nil {
		return nil, err
	}

	if err := validateInput(input, false); err != nil {
		return nil, err
	}

	post := &Post{
		ID:       uuid.New(),
		AuthorID: actor.UserID,
		Title:    strings.TrimSpace(*input.Title),
		Content:  *input.Content,
		Tags:     NormalizeTags(input.Tags),
	}

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
		slog.Int("tags", len(post.Tags)),
	)
	return post, nil
}

/*
Update changes a post owned by actor.

Ownership is read from the stored post. Tags, when present in input,
replace the previous set.
*/
func (service *Service) Update(context context.Context, actor access.Actor, id string, input Input) (*Post, error) {
	post, err := service.authorize(context, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if err := validateInput(input, true); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}

	replaceTags := input.Tags != nil
	if replaceTags {
		post.Tags = NormalizeTags(input.Tags)
	}

	if err := service.repo.Update(context, post, replaceTags); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "post_updated",
		slog.String("post_id", post.ID),
		slog.Bool("tags_replaced", replaceTags),
	)
	return post, nil
}

func (service *Service) Delete(context context.Context, actor access.Actor, id string) error {
	if _, err := service.authorize(context, actor, access.ActionDelete, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "post_deleted",
		slog.String("post_id", id),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

func (service *Service) authorize(context context.Context, actor access.Actor, action access.Action, id string) (*Post, error) {
	post, err := service.repo.Get(context, id)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var resource *access.Resource
	if post != nil {
		resource = &access.Resource{Kind: access.KindPost, ID: post.ID, OwnerID: post.AuthorID}
	}

	if err := service.guard.Authorize(context, actor, action, access.KindPost, resource); err != nil {
		return nil, err
	}
	return post, nil
}
