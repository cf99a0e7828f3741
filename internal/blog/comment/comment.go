// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages comments on blog posts. Any signed-in user may
// comment; only the comment's author may edit or delete it.
package comment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/internal/queryspec"
)

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post"`
	AuthorID   string    `json:"author"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Input struct {
	Content string `json:"content"`
}

const (
	FieldContent = "content"

	MinContentLength = 5
	MaxContentLength = 5000

	MessageEmpty    = "Comment cannot be empty."
	MessageTooShort = "Comment is too short. Please write at least 5 characters."
)

// QuerySchema orders the comments of a post, oldest first by default.
var QuerySchema = queryspec.Schema{
	Resource:  "comment",
	Orderings: []string{"created_at"},
	Default:   queryspec.OrderSpec{queryspec.Asc("created_at")},
}

// ValidateContent returns the trimmed content or a field error. Length is
// counted in characters.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)

	switch length := utf8.RuneCountInString(content); {
	case length == 0:
		return "", validate.FieldError(FieldContent, MessageEmpty)
	case length < MinContentLength:
		return "", validate.FieldError(FieldContent, MessageTooShort)
	case length > MaxContentLength:
		return "", validate.FieldError(FieldContent, "Comment is too long.")
	}

	return content, nil
}
