// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queryspec_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/pagination"
)

var bookSchema = queryspec.Schema{
	Resource: "book",
	Filters: []queryspec.FilterField{
		{Param: "author", Type: queryspec.ID},
		{Param: "publication_year", Type: queryspec.Int},
	},
	SearchParam:  "search",
	SearchFields: []string{"title", "author_name"},
	Orderings:    []string{"title", "publication_year"},
	Default:      queryspec.OrderSpec{queryspec.Asc("title")},
}

func values(raw string) url.Values {
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return parsed
}

/*
TestParseFilter covers typed values, ignored parameters and malformed input.
*/
func TestParseFilter(t *testing.T) {
	authorID := "0190c0de-7b1a-7c3e-9f00-000000000001"

	tests := []struct {
		name    string
		query   string
		want    queryspec.FilterSpec
		invalid string
	}{
		{name: "empty", query: ""},
		{name: "unknown_ignored", query: "colour=red&isbn=123"},
		{name: "blank_ignored", query: "publication_year=&author=%20"},
		{
			name:  "year",
			query: "publication_year=1937",
			want:  queryspec.FilterSpec{Terms: []queryspec.FilterTerm{{Field: "publication_year", Value: 1937}}},
		},
		{
			name:  "author_and_year_in_schema_order",
			query: "publication_year=1937&author=" + authorID,
			want: queryspec.FilterSpec{Terms: []queryspec.FilterTerm{
				{Field: "author", Value: authorID},
				{Field: "publication_year", Value: 1937},
			}},
		},
		{name: "year_not_a_number", query: "publication_year=nineteen", invalid: "publication_year"},
		{name: "year_beyond_int32", query: "publication_year=99999999999", invalid: "publication_year"},
		{name: "year_below_int32", query: "publication_year=-2147483649", invalid: "publication_year"},
		{name: "author_not_a_uuid", query: "author=tolkien", invalid: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := bookSchema.ParseFilter(values(tt.query))

			if tt.invalid != "" {
				require.Error(t, err)
				appErr := apperr.As(err)
				assert.Equal(t, apperr.CodeValidation, appErr.Code)
				require.Len(t, appErr.Details, 1)
				assert.Equal(t, tt.invalid, appErr.Details[0].Field)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, spec); diff != "" {
				t.Errorf("ParseFilter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

/*
TestParseSearch trims the term and disables blank searches.
*/
func TestParseSearch(t *testing.T) {
	assert.False(t, bookSchema.ParseSearch(values("search=")).Active())
	assert.False(t, bookSchema.ParseSearch(values("search=%20%20")).Active())
	assert.False(t, bookSchema.ParseSearch(values("q=hobbit")).Active())

	spec := bookSchema.ParseSearch(values("search=%20Hobbit%20"))
	assert.True(t, spec.Active())
	assert.Equal(t, "Hobbit", spec.Term)
	assert.Equal(t, []string{"title", "author_name"}, spec.Fields)

	noSearch := queryspec.Schema{}
	assert.False(t, noSearch.ParseSearch(values("search=x")).Active())
}

/*
TestParseOrdering keeps allow-listed terms and falls back to the default.
*/
func TestParseOrdering(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  queryspec.OrderSpec
	}{
		{"absent", "", queryspec.OrderSpec{queryspec.Asc("title")}},
		{"bogus", "ordering=bogus", queryspec.OrderSpec{queryspec.Asc("title")}},
		{"descending", "ordering=-publication_year", queryspec.OrderSpec{queryspec.Desc("publication_year")}},
		{"list", "ordering=publication_year,-title", queryspec.OrderSpec{queryspec.Asc("publication_year"), queryspec.Desc("title")}},
		{"invalid_terms_dropped", "ordering=isbn,title,,-", queryspec.OrderSpec{queryspec.Asc("title")}},
		{"duplicates_keep_first", "ordering=-title,title", queryspec.OrderSpec{queryspec.Desc("title")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bookSchema.ParseOrdering(values(tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOrdering() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

/*
TestParse_Plan assembles every part and flags ordering fallbacks.
*/
func TestParse_Plan(t *testing.T) {
	plan, err := bookSchema.Parse(values("search=hobbit&publication_year=1937&ordering=bogus&page=2&limit=5"))
	require.NoError(t, err)

	assert.Equal(t, "hobbit", plan.Search.Term)
	year, ok := plan.Filter.Value("publication_year")
	assert.True(t, ok)
	assert.Equal(t, 1937, year)
	assert.Equal(t, "title", plan.Order.String())
	assert.Equal(t, pagination.Params{Page: 2, Limit: 5}, plan.Page)
	assert.True(t, plan.OrderingFallback)

	plain, err := bookSchema.Parse(values(""))
	require.NoError(t, err)
	assert.False(t, plain.OrderingFallback)
	assert.Equal(t, bookSchema.DefaultPlan(), plain)

	_, err = bookSchema.Parse(values("publication_year=soon"))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestParse_DefaultIsNotShared guards against callers mutating the schema default.
*/
func TestParse_DefaultIsNotShared(t *testing.T) {
	first := bookSchema.ParseOrdering(values(""))
	first[0].Desc = true

	second := bookSchema.ParseOrdering(values(""))
	assert.False(t, second[0].Desc)
}
