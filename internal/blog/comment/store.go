// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"

	"github.com/taibuivan/libris/internal/queryspec"
)

type Repository interface {
	ListForPost(context context.Context, postID string, plan queryspec.Plan) ([]*Comment, error)
	Get(context context.Context, id string) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, id string) error

	// PostExists reports whether the post is still there.
	PostExists(context context.Context, postID string) (bool, error)
}
