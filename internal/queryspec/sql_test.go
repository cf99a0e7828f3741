// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queryspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/queryspec"
)

var bookColumns = queryspec.Columns{
	"author":           {Expr: "b.author_id"},
	"publication_year": {Expr: "b.publication_year"},
	"title":            {Expr: "b.title"},
	"author_name":      {Expr: "a.name"},
	"tag":              {Match: "EXISTS (SELECT 1 FROM blog.post_tag t WHERE t.post_id = p.id AND t.name ILIKE %s)"},
}

/*
TestWhere_FilterAndSearch renders a conjunction with a shared search pattern.
*/
func TestWhere_FilterAndSearch(t *testing.T) {
	plan, err := bookSchema.Parse(values("search=Hobbit&publication_year=1937"))
	require.NoError(t, err)

	where, args := plan.Where(bookColumns, 3)

	assert.Equal(t, "b.publication_year = $3 AND (b.title ILIKE $4 OR a.name ILIKE $4)", where)
	assert.Equal(t, []any{1937, "%Hobbit%"}, args)
}

/*
TestWhere_Empty returns no condition and no arguments.
*/
func TestWhere_Empty(t *testing.T) {
	where, args := bookSchema.DefaultPlan().Where(bookColumns, 1)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

/*
TestWhere_EscapesPattern keeps LIKE metacharacters literal.
*/
func TestWhere_EscapesPattern(t *testing.T) {
	plan := queryspec.Plan{Search: queryspec.SearchSpec{Term: `50%_off\`, Fields: []string{"title"}}}

	_, args := plan.Where(bookColumns, 1)
	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}

/*
TestWhere_MatchTemplate uses the column's custom search expression.
*/
func TestWhere_MatchTemplate(t *testing.T) {
	plan := queryspec.Plan{Search: queryspec.SearchSpec{Term: "go", Fields: []string{"title", "tag"}}}

	where, args := plan.Where(bookColumns, 1)
	assert.Equal(t, "(b.title ILIKE $1 OR EXISTS (SELECT 1 FROM blog.post_tag t WHERE t.post_id = p.id AND t.name ILIKE $1))", where)
	assert.Len(t, args, 1)
}

/*
TestOrderBy appends the tie-breaker after the requested keys.
*/
func TestOrderBy(t *testing.T) {
	plan := queryspec.Plan{Order: queryspec.OrderSpec{queryspec.Desc("publication_year"), queryspec.Asc("title")}}
	assert.Equal(t, "b.publication_year DESC, b.title ASC, b.id ASC", plan.OrderBy(bookColumns, "b.id"))

	unknown := queryspec.Plan{Order: queryspec.OrderSpec{queryspec.Asc("isbn")}}
	assert.Equal(t, "b.id ASC", unknown.OrderBy(bookColumns, "b.id"))
}
