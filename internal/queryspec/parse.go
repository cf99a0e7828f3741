// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queryspec

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/libris/internal/platform/metrics"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/pagination"
)

// ParseFilter reads the schema's filter parameters.
//
// Unknown parameters and empty values are ignored. A malformed value for a
// known parameter (a year that is not a number, an id that is not a UUID)
// is a validation error naming that parameter.
func (schema Schema) ParseFilter(values url.Values) (FilterSpec, error) {
	var spec FilterSpec
	validator := &validate.Validator{}

	for _, field := range schema.Filters {
		raw := strings.TrimSpace(values.Get(field.Param))
		if raw == "" {
			continue
		}

		switch field.Type {
		case Int:
			// Int columns are 32-bit in Postgres.
			number, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				validator.Custom(field.Param, true, "Enter a whole number.")
				continue
			}
			spec.Terms = append(spec.Terms, FilterTerm{Field: field.Param, Value: int(number)})

		case ID:
			if !validate.IsUUID(raw) {
				validator.Custom(field.Param, true, "Must be a valid UUID")
				continue
			}
			spec.Terms = append(spec.Terms, FilterTerm{Field: field.Param, Value: strings.ToLower(raw)})

		default:
			spec.Terms = append(spec.Terms, FilterTerm{Field: field.Param, Value: raw})
		}
	}

	if err := validator.Err(); err != nil {
		return FilterSpec{}, err
	}
	return spec, nil
}

// ParseSearch reads the search term. A blank term yields an inactive spec.
func (schema Schema) ParseSearch(values url.Values) SearchSpec {
	if schema.SearchParam == "" {
		return SearchSpec{}
	}

	term := strings.TrimSpace(values.Get(schema.SearchParam))
	if term == "" {
		return SearchSpec{}
	}

	return SearchSpec{Term: term, Fields: slices.Clone(schema.SearchFields)}
}

// ParseOrdering reads a comma separated list of allow-listed fields.
// Terms outside the allow-list are dropped; if none remain the schema
// default is returned. It never fails.
func (schema Schema) ParseOrdering(values url.Values) OrderSpec {
	spec, _ := schema.parseOrdering(values)
	return spec
}

func (schema Schema) parseOrdering(values url.Values) (OrderSpec, bool) {
	raw := strings.TrimSpace(values.Get(schema.orderingParam()))

	var spec OrderSpec
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		term := OrderTerm{Field: part}
		if strings.HasPrefix(part, "-") {
			term = OrderTerm{Field: strings.TrimPrefix(part, "-"), Desc: true}
		}

		if !slices.Contains(schema.Orderings, term.Field) || seen[term.Field] {
			continue
		}

		seen[term.Field] = true
		spec = append(spec, term)
	}

	if len(spec) == 0 {
		return slices.Clone(schema.Default), raw != ""
	}
	return spec, false
}

// Parse combines filter, search, ordering and pagination.
func (schema Schema) Parse(values url.Values) (Plan, error) {
	filter, err := schema.ParseFilter(values)
	if err != nil {
		return Plan{}, err
	}

	order, fallback := schema.parseOrdering(values)

	return Plan{
		Filter:           filter,
		Search:           schema.ParseSearch(values),
		Order:            order,
		Page:             pagination.FromValues(values),
		OrderingFallback: fallback,
	}, nil
}

// FromRequest parses the request's query string and records ordering
// fallbacks in [metrics.OrderingFallbacksTotal].
func (schema Schema) FromRequest(request *http.Request) (Plan, error) {
	plan, err := schema.Parse(request.URL.Query())
	if err != nil {
		return Plan{}, err
	}

	if plan.OrderingFallback {
		metrics.OrderingFallbacksTotal.WithLabelValues(schema.Resource).Inc()
	}

	return plan, nil
}

// DefaultPlan is the plan of a request without parameters.
func (schema Schema) DefaultPlan() Plan {
	return Plan{
		Order: slices.Clone(schema.Default),
		Page:  pagination.Default,
	}
}
