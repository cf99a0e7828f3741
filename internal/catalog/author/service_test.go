// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
)

type fakeRepository struct {
	authors map[string]*author.Author
}

func newFakeRepository(seed ...*author.Author) *fakeRepository {
	repository := &fakeRepository{authors: map[string]*author.Author{}}
	for _, a := range seed {
		repository.authors[a.ID] = a
	}
	return repository
}

func (repository *fakeRepository) List(_ context.Context, plan queryspec.Plan) ([]*author.Author, int, error) {
	var all []*author.Author
	for _, a := range repository.authors {
		all = append(all, a)
	}
	result := queryspec.Apply(all, plan, func(a *author.Author, field string) []any {
		return []any{a.Name}
	})
	return result, len(result), nil
}

func (repository *fakeRepository) Get(_ context.Context, id string) (*author.Author, error) {
	a, ok := repository.authors[id]
	if !ok {
		return nil, apperr.NotFound("Author")
	}
	clone := *a
	return &clone, nil
}

func (repository *fakeRepository) Create(_ context.Context, a *author.Author) error {
	repository.authors[a.ID] = a
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, a *author.Author) error {
	repository.authors[a.ID] = a
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.authors[id]; !ok {
		return apperr.NotFound("Author")
	}
	delete(repository.authors, id)
	return nil
}

func newService(repository author.Repository) *author.Service {
	return author.NewService(repository, access.NewGuard(access.DefaultPolicy), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestService_Create requires an identity and a valid name.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository())

	_, err := service.Create(ctx, access.Anonymous, author.Input{Name: "Tolkien"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Create(ctx, access.Actor{UserID: "u1"}, author.Input{Name: "   "})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	created, err := service.Create(ctx, access.Actor{UserID: "u1"}, author.Input{Name: " J.R.R. Tolkien "})
	require.NoError(t, err)
	assert.Equal(t, "J.R.R. Tolkien", created.Name)
	assert.NotEmpty(t, created.ID)
}

/*
TestService_UpdateDelete applies capability checks and reports repeated deletes.
*/
func TestService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository(&author.Author{ID: "a1", Name: "Tolkien"}))

	editor := access.Actor{UserID: "u1", Capabilities: []access.Capability{access.CapEdit}}
	plain := access.Actor{UserID: "u2"}
	staff := access.Actor{UserID: "u3", Staff: true}

	_, err := service.Update(ctx, plain, "a1", author.Input{Name: "Tolkien, J."})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.Update(ctx, editor, "a1", author.Input{Name: "Tolkien, J."})
	require.NoError(t, err)
	assert.Equal(t, "Tolkien, J.", updated.Name)

	_, err = service.Update(ctx, access.Anonymous, "missing", author.Input{Name: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Update(ctx, editor, "missing", author.Input{Name: "x"})
	assert.True(t, apperr.IsNotFound(err))

	assert.True(t, apperr.HasCode(service.Delete(ctx, editor, "a1"), apperr.CodeForbidden))
	require.NoError(t, service.Delete(ctx, staff, "a1"))
	assert.True(t, apperr.IsNotFound(service.Delete(ctx, staff, "a1")))
}
