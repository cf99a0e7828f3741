// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queryspec

import (
	"fmt"
	"strings"
)

// # SQL rendering

// Column maps a logical field to SQL.
type Column struct {
	// Expr is the column expression used for equality, ILIKE and ORDER BY.
	Expr string

	// Match, when set, replaces "Expr ILIKE $n" for search. It must contain
	// exactly one %s which receives the placeholder. Multi-valued fields
	// (tags) use it to search through an EXISTS subquery.
	Match string

	// Equal, when set, replaces "Expr = $n" for filters. Same %s rule.
	Equal string
}

// Columns is keyed by the field names used in the [Schema].
type Columns map[string]Column

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

/*
Where renders the plan's filter and search as one SQL condition.

Parameters:
  - columns: field to SQL mapping
  - firstArg: the number of the first placeholder ($n)

Returns:
  - string: the condition joined with AND, empty when nothing applies
  - []any: the positional arguments in placeholder order

Fields missing from columns are skipped.
*/
func (plan Plan) Where(columns Columns, firstArg int) (string, []any) {
	var conditions []string
	var args []any

	placeholder := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", firstArg+len(args)-1)
	}

	for _, term := range plan.Filter.Terms {
		column, ok := columns[term.Field]
		if !ok {
			continue
		}

		marker := placeholder(term.Value)
		if column.Equal != "" {
			conditions = append(conditions, fmt.Sprintf(column.Equal, marker))
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = %s", column.Expr, marker))
	}

	if plan.Search.Active() {
		var alternatives []string
		var marker string

		for _, field := range plan.Search.Fields {
			column, ok := columns[field]
			if !ok {
				continue
			}

			// One pattern argument shared by every alternative.
			if marker == "" {
				marker = placeholder("%" + EscapeLike(plan.Search.Term) + "%")
			}

			if column.Match != "" {
				alternatives = append(alternatives, fmt.Sprintf(column.Match, marker))
				continue
			}
			alternatives = append(alternatives, fmt.Sprintf("%s ILIKE %s", column.Expr, marker))
		}

		if len(alternatives) > 0 {
			conditions = append(conditions, "("+strings.Join(alternatives, " OR ")+")")
		}
	}

	return strings.Join(conditions, " AND "), args
}

// OrderBy renders the ordering as an ORDER BY list (without the keywords).
// tieBreak, usually the primary key, is appended ascending so pages are
// stable across requests.
func (plan Plan) OrderBy(columns Columns, tieBreak string) string {
	var parts []string

	for _, term := range plan.Order {
		column, ok := columns[term.Field]
		if !ok {
			continue
		}

		direction := "ASC"
		if term.Desc {
			direction = "DESC"
		}
		parts = append(parts, column.Expr+" "+direction)
	}

	if tieBreak != "" {
		parts = append(parts, tieBreak+" ASC")
	}

	return strings.Join(parts, ", ")
}
