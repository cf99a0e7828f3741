// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"

	"github.com/taibuivan/libris/internal/queryspec"
)

// Repository persists authors. Get and List return NotFound-wrapped errors
// through dberr; Delete reports NotFound when no row was removed.
type Repository interface {
	List(context context.Context, plan queryspec.Plan) ([]*Author, int, error)
	Get(context context.Context, id string) (*Author, error)
	Create(context context.Context, author *Author) error
	Update(context context.Context, author *Author) error
	Delete(context context.Context, id string) error
}
