// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/pagination"
)

type Repository interface {
	List(context context.Context, plan queryspec.Plan) ([]*Post, int, error)
	ListByTag(context context.Context, tag Tag, page pagination.Params) ([]*Post, int, error)
	ListByAuthor(context context.Context, authorID string) ([]*Post, error)
	Get(context context.Context, id string) (*Post, error)

	// Create stores the post with its tags; stored tag names replace the
	// submitted spelling in post.Tags.
	Create(context context.Context, post *Post) error

	// Update stores title and content; with replaceTags set the tag set is
	// replaced as well.
	Update(context context.Context, post *Post, replaceTags bool) error

	Delete(context context.Context, id string) error

	// FindTag looks a tag up by slug or by case-insensitive name.
	FindTag(context context.Context, nameOrSlug string) (*Tag, error)
}
