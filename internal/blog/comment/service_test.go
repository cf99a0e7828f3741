// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
)

type fakeRepository struct {
	posts    map[string]bool
	comments map[string]*comment.Comment
	clock    time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		posts:    map[string]bool{"p1": true},
		comments: map[string]*comment.Comment{},
		clock:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *fakeRepository) ListForPost(_ context.Context, postID string, plan queryspec.Plan) ([]*comment.Comment, error) {
	var result []*comment.Comment
	for _, c := range repository.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return queryspec.Apply(result, plan, func(c *comment.Comment, field string) []any {
		return []any{c.CreatedAt}
	}), nil
}

func (repository *fakeRepository) Get(_ context.Context, id string) (*comment.Comment, error) {
	c, ok := repository.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	clone := *c
	return &clone, nil
}

func (repository *fakeRepository) Create(_ context.Context, c *comment.Comment) error {
	repository.clock = repository.clock.Add(time.Minute)
	c.CreatedAt = repository.clock
	repository.comments[c.ID] = c
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, c *comment.Comment) error {
	repository.comments[c.ID] = c
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, id)
	return nil
}

func (repository *fakeRepository) PostExists(_ context.Context, postID string) (bool, error) {
	return repository.posts[postID], nil
}

func newService(repository comment.Repository) *comment.Service {
	return comment.NewService(repository, access.NewGuard(access.DefaultPolicy), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	user1 = access.Actor{UserID: "user1"}
	user2 = access.Actor{UserID: "user2"}
)

/*
TestValidateContent checks the length boundary after trimming.
*/
func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"empty", "", comment.MessageEmpty},
		{"blank", "   \n\t", comment.MessageEmpty},
		{"four_chars", "abcd", comment.MessageTooShort},
		{"four_chars_padded", "  abcd  ", comment.MessageTooShort},
		{"five_chars", "abcde", ""},
		{"five_runes", "héllo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := comment.ValidateContent(tt.content)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Len(t, []rune(content), 5)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, comment.FieldContent, appErr.Details[0].Field)
			assert.Equal(t, tt.message, appErr.Details[0].Message)
		})
	}
}

/*
TestService_Create needs an identity and an existing post.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository())

	_, err := service.Create(ctx, access.Anonymous, "p1", comment.Input{Content: "Lovely post"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Create(ctx, user1, "missing", comment.Input{Content: "Lovely post"})
	assert.True(t, apperr.IsNotFound(err))

	created, err := service.Create(ctx, user1, "p1", comment.Input{Content: "  Lovely post  "})
	require.NoError(t, err)
	assert.Equal(t, "Lovely post", created.Content)
	assert.Equal(t, "user1", created.AuthorID)
}

/*
TestService_Ownership lets only the author edit or delete a comment.
*/
func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository())

	created, err := service.Create(ctx, user1, "p1", comment.Input{Content: "First!!"})
	require.NoError(t, err)

	_, err = service.Update(ctx, user2, created.ID, comment.Input{Content: "Hijacked"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.Update(ctx, access.Actor{UserID: "staff", Staff: true}, created.ID, comment.Input{Content: "Moderated"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.Update(ctx, user1, created.ID, comment.Input{Content: "abc"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	updated, err := service.Update(ctx, user1, created.ID, comment.Input{Content: "Second thoughts"})
	require.NoError(t, err)
	assert.Equal(t, "Second thoughts", updated.Content)

	_, err = service.Delete(ctx, user2, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	deleted, err := service.Delete(ctx, user1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", deleted.PostID)

	_, err = service.Delete(ctx, user1, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ListForPost orders oldest first unless asked otherwise.
*/
func TestService_ListForPost(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository())

	for _, content := range []string{"first comment", "second comment", "third comment"} {
		_, err := service.Create(ctx, user1, "p1", comment.Input{Content: content})
		require.NoError(t, err)
	}

	listed, err := service.ListForPost(ctx, "p1", comment.QuerySchema.DefaultPlan())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "first comment", listed[0].Content)

	plan, err := comment.QuerySchema.Parse(map[string][]string{"ordering": {"-created_at"}})
	require.NoError(t, err)
	listed, err = service.ListForPost(ctx, "p1", plan)
	require.NoError(t, err)
	assert.Equal(t, "third comment", listed[0].Content)

	_, err = service.ListForPost(ctx, "missing", plan)
	assert.True(t, apperr.IsNotFound(err))
}
