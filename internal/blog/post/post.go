// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages blog posts and their tags.

Posts are owned by the user who wrote them. Nobody else may change or
delete a post: not staff, not holders of any capability.

Tags are a set per post. A tag is identified by its case-folded name, so
"Go" and "go" are the same tag and the first spelling stored becomes the
display name. Names that slug alike ("C", "C++", "C#") stay distinct tags
and get numbered slugs.
*/
package post

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/slice"
	"github.com/taibuivan/libris/pkg/slug"
)

type Post struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	AuthorID   string             `json:"author"`
	AuthorName string             `json:"author_name"`
	Tags       []Tag              `json:"tags"`
	Comments   []*comment.Comment `json:"comments,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Input carries the writable fields. On update nil fields are kept and a
// non-nil Tags replaces the whole set.
type Input struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTags    = "tags"

	MinTitleLength = 5
	MaxTitleLength = 200
	MaxTagLength   = 100
)

// QuerySchema drives GET /posts and the search page: q looks through
// titles, bodies and tag names.
var QuerySchema = queryspec.Schema{
	Resource:     "post",
	SearchParam:  "q",
	SearchFields: []string{"title", "content", "tag"},
	Orderings:    []string{"created_at", "title"},
	Default:      queryspec.OrderSpec{queryspec.Desc("created_at")},
}

// Values exposes the queryable fields of p to [queryspec.Apply].
func Values(p *Post, field string) []any {
	switch field {
	case "title":
		return []any{p.Title}
	case "content":
		return []any{p.Content}
	case "created_at":
		return []any{p.CreatedAt}
	case "tag":
		return slice.Map(p.Tags, func(tag Tag) any { return tag.Name })
	}
	return nil
}

// NormalizeTags trims names, drops blanks and keeps the first spelling of
// every case-folded name. Slugs that collide within the set get a numeric
// suffix in input order.
func NormalizeTags(names []string) []Tag {
	tags := slice.Map(slice.Filter(names, func(name string) bool {
		return strings.TrimSpace(name) != ""
	}), func(name string) Tag {
		name = strings.TrimSpace(name)
		return Tag{Name: name, Slug: TagSlug(name)}
	})

	tags = slice.Unique(tags, func(tag Tag) string { return TagKey(tag.Name) })
	if tags == nil {
		return []Tag{}
	}

	used := make(map[string]bool, len(tags))
	for i := range tags {
		tags[i].Slug = slug.Unique(tags[i].Slug, func(candidate string) bool { return used[candidate] })
		used[tags[i].Slug] = true
	}
	return tags
}

// TagSlug is the base slug of a tag name. Names without any ASCII letter or
// digit keep their lowercased form.
func TagSlug(name string) string {
	if tagSlug := slug.From(name); tagSlug != "" {
		return tagSlug
	}
	return strings.ToLower(name)
}

// TagKey is the identity of a tag name.
func TagKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// HasTag reports whether name or slug identifies one of the post's tags.
func (p *Post) HasTag(nameOrSlug string) bool {
	for _, tag := range p.Tags {
		if strings.EqualFold(tag.Name, nameOrSlug) || tag.Slug == nameOrSlug {
			return true
		}
	}
	return false
}

func validateInput(input Input, partial bool) error {
	validator := &validate.Validator{}

	if input.Title != nil || !partial {
		title := ""
		if input.Title != nil {
			title = strings.TrimSpace(*input.Title)
		}
		validator.Required(FieldTitle, title)
		if !validator.Has(FieldTitle) {
			validator.
				MinLen(FieldTitle, title, MinTitleLength).
				MaxLen(FieldTitle, title, MaxTitleLength)
		}
	}

	if input.Content != nil || !partial {
		content := ""
		if input.Content != nil {
			content = *input.Content
		}
		validator.Required(FieldContent, content)
	}

	for _, name := range input.Tags {
		validator.MaxLen(FieldTags, strings.TrimSpace(name), MaxTagLength)
	}

	return validator.Err()
}
