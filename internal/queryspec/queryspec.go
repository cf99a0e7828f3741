// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package queryspec turns raw list parameters into a bounded query [Plan].

A [Schema] enumerates, per resource, which parameters are honoured:

  - Filters are exact matches on named fields. Unknown parameters are ignored.
  - Search is one free-text term matched case-insensitively as a substring
    against an allow-list of fields.
  - Ordering accepts allow-listed fields, optionally prefixed with "-" for
    descending. When nothing valid remains the schema default applies.

Filter, search and ordering compose conjunctively. A plan can be rendered to
SQL ([Plan.Where], [Plan.OrderBy]) or evaluated over a slice ([Apply]).

Parsing is pure and safe for concurrent use.
*/
package queryspec

import (
	"strings"

	"github.com/taibuivan/libris/pkg/pagination"
)

// # Schema

// FieldType selects how a filter value is parsed.
type FieldType int

const (
	// Text values are kept verbatim after trimming.
	Text FieldType = iota
	// Int values must parse as base-10 integers.
	Int
	// ID values must be UUID strings.
	ID
)

// FilterField is one exact-match filter a resource accepts.
type FilterField struct {
	Param string
	Type  FieldType
}

// Schema describes the list parameters a resource accepts.
type Schema struct {
	// Resource labels metrics and log lines.
	Resource string

	Filters []FilterField

	// SearchParam is the query parameter holding the search term.
	// An empty SearchParam disables search.
	SearchParam  string
	SearchFields []string

	// OrderingParam defaults to "ordering".
	OrderingParam string
	Orderings     []string
	Default       OrderSpec
}

const defaultOrderingParam = "ordering"

func (schema Schema) orderingParam() string {
	if schema.OrderingParam == "" {
		return defaultOrderingParam
	}
	return schema.OrderingParam
}

// # Specs

// FilterTerm is one exact-match condition. Value is a string or an int.
type FilterTerm struct {
	Field string
	Value any
}

// FilterSpec is the conjunction of its terms.
type FilterSpec struct {
	Terms []FilterTerm
}

// Empty reports whether no filter applies.
func (spec FilterSpec) Empty() bool { return len(spec.Terms) == 0 }

// Value returns the value filtered on for field.
func (spec FilterSpec) Value(field string) (any, bool) {
	for _, term := range spec.Terms {
		if term.Field == field {
			return term.Value, true
		}
	}
	return nil, false
}

// SearchSpec matches Term against any of Fields.
type SearchSpec struct {
	Term   string
	Fields []string
}

// Active reports whether the search restricts the result.
func (spec SearchSpec) Active() bool {
	return spec.Term != "" && len(spec.Fields) > 0
}

// OrderTerm sorts by Field, descending when Desc is set.
type OrderTerm struct {
	Field string
	Desc  bool
}

// String renders the term in parameter form ("title", "-publication_year").
func (term OrderTerm) String() string {
	if term.Desc {
		return "-" + term.Field
	}
	return term.Field
}

// Asc and Desc build order terms.
func Asc(field string) OrderTerm  { return OrderTerm{Field: field} }
func Desc(field string) OrderTerm { return OrderTerm{Field: field, Desc: true} }

// OrderSpec is a list of sort keys, most significant first.
type OrderSpec []OrderTerm

// String renders the spec in parameter form.
func (spec OrderSpec) String() string {
	parts := make([]string, len(spec))
	for i, term := range spec {
		parts[i] = term.String()
	}
	return strings.Join(parts, ",")
}

// Plan is the parsed form of one list request.
type Plan struct {
	Filter FilterSpec
	Search SearchSpec
	Order  OrderSpec
	Page   pagination.Params

	// OrderingFallback is set when an ordering was requested but none of its
	// terms was allowed, so the default was used.
	OrderingFallback bool
}
