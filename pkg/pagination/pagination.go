// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list endpoints.
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage bounds the page number so that the offset cannot overflow.
	MaxPage = 1_000_000
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Default is the first page with the default limit.
var Default = Params{Page: DefaultPage, Limit: DefaultLimit}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (min(p.Page, MaxPage) - 1) * min(p.Limit, MaxLimit)
}

// Window returns the [start, end) bounds of the page within n items.
func (p Params) Window(n int) (start, end int) {
	start = max(min(p.Offset(), n), 0)
	end = max(min(start+p.Limit, n), start)
	return start, end
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Meta builds response metadata for these params.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	return FromValues(r.URL.Query())
}

// FromValues parses "page" and "limit" from already decoded query values.
//
// # Clamping
//
// Invalid, negative, or excessive values are clamped to [DefaultPage],
// [DefaultLimit], [MaxPage] or [MaxLimit].
func FromValues(values url.Values) Params {
	page := parseIntParam(values, "page", DefaultPage)
	limit := parseIntParam(values, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if page > MaxPage {
		page = MaxPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

func parseIntParam(values url.Values, key string, defaultVal int) int {
	raw := values.Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
