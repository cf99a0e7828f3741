// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queryspec

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// # In-memory evaluation

// Accessor returns the values of field on item. Single-valued fields return
// one element; tag-like fields return one element per value.
type Accessor[T any] func(item T, field string) []any

// Apply filters, searches and sorts items according to plan. Pagination is
// left to the caller. Each input item appears at most once in the result,
// however many of its values match.
func Apply[T any](items []T, plan Plan, accessor Accessor[T]) []T {
	// A Caser is stateful; one per call.
	folder := cases.Fold()
	term := folder.String(plan.Search.Term)

	result := make([]T, 0, len(items))
	for _, item := range items {
		if matchFilter(item, plan.Filter, accessor) && matchSearch(item, plan.Search, term, folder, accessor) {
			result = append(result, item)
		}
	}

	Sort(result, plan.Order, accessor)
	return result
}

// Sort orders items in place by spec. The sort is stable, so items equal on
// every key keep their input order.
func Sort[T any](items []T, spec OrderSpec, accessor Accessor[T]) {
	if len(spec) == 0 {
		return
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for _, term := range spec {
			result := compareValues(first(accessor(a, term.Field)), first(accessor(b, term.Field)))
			if term.Desc {
				result = -result
			}
			if result != 0 {
				return result
			}
		}
		return 0
	})
}

func matchFilter[T any](item T, spec FilterSpec, accessor Accessor[T]) bool {
	for _, term := range spec.Terms {
		want := fmt.Sprint(term.Value)

		if !slices.ContainsFunc(accessor(item, term.Field), func(value any) bool {
			return fmt.Sprint(value) == want
		}) {
			return false
		}
	}
	return true
}

func matchSearch[T any](item T, spec SearchSpec, term string, folder cases.Caser, accessor Accessor[T]) bool {
	if !spec.Active() {
		return true
	}

	for _, field := range spec.Fields {
		for _, value := range accessor(item, field) {
			if strings.Contains(folder.String(fmt.Sprint(value)), term) {
				return true
			}
		}
	}
	return false
}

func first(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// compareValues orders nil first, then compares like types natively and
// everything else by its string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch left := a.(type) {
	case int:
		if right, ok := b.(int); ok {
			return cmp.Compare(left, right)
		}
	case string:
		if right, ok := b.(string); ok {
			return cmp.Compare(left, right)
		}
	case time.Time:
		if right, ok := b.(time.Time); ok {
			return left.Compare(right)
		}
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
