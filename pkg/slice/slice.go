// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the small
generic helpers the services share.
*/
package slice

import "strings"

// Map transforms every element of input.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns the elements for which predicate holds.
func Filter[T any](input []T, predicate func(T) bool) []T {
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// Unique returns input without repeated keys, keeping first occurrences.
func Unique[T any, K comparable](input []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(input))

	var result []T
	for _, v := range input {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}
	return result
}

// SplitTrim splits a comma separated string into trimmed, non-empty parts.
func SplitTrim(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if clean := strings.TrimSpace(part); clean != "" {
			result = append(result, clean)
		}
	}
	return result
}
