// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/postgres"
	"github.com/taibuivan/libris/internal/queryspec"
	"github.com/taibuivan/libris/pkg/pagination"
	"github.com/taibuivan/libris/pkg/slug"
	"github.com/taibuivan/libris/pkg/uuid"
)

const (
	ResourceName = "Post"
	tagResource  = "Tag"
)

var (
	posts    = schema.BlogPost
	tags     = schema.BlogTag
	postTags = schema.BlogPostTag
	accounts = schema.UserAccount

	// Tag search goes through EXISTS so a post matching several tags is
	// returned once.
	listColumns = queryspec.Columns{
		"title":      {Expr: "p." + posts.Title},
		"content":    {Expr: "p." + posts.Content},
		"created_at": {Expr: "p." + posts.CreatedAt},
		"tag": {Match: fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s pt JOIN %s t ON t.%s = pt.%s WHERE pt.%s = p.%s AND t.%s ILIKE %%s)`,
			postTags.Table, tags.Table, tags.ID, postTags.TagID, postTags.PostID, posts.ID, tags.Name,
		)},
	}

	selectPost = fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, u.%s, p.%s, p.%s
		FROM %s p
		JOIN %s u ON u.%s = p.%s
	`,
		posts.ID, posts.Title, posts.Content, posts.AuthorID, accounts.Username, posts.CreatedAt, posts.UpdatedAt,
		posts.Table,
		accounts.Table, accounts.ID, posts.AuthorID,
	)

	countPosts = fmt.Sprintf(`SELECT count(*) FROM %s p`, posts.Table)

	findTagQuery = fmt.Sprintf(`
		SELECT %s, %s FROM %s
		WHERE %s = $1 OR lower(%s) = lower($1)
		ORDER BY (%s = $1) DESC
		LIMIT 1
	`,
		tags.Name, tags.Slug, tags.Table,
		tags.Slug, tags.Name,
		tags.Slug,
	)

	tagByNameQuery = fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE lower(%s) = lower($1)`,
		tags.ID, tags.Name, tags.Slug, tags.Table, tags.Name,
	)

	// Siblings are the base slug and every base-N variant of it.
	siblingSlugsQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 OR left(%s, length($1) + 1) = $1 || '-'`,
		tags.Slug, tags.Table, tags.Slug, tags.Slug,
	)

	// A concurrent insert of the same name returns the row that won.
	insertTagQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT ((lower(%s))) DO UPDATE SET %s = %s.%s
		RETURNING %s, %s, %s
	`,
		tags.Table, tags.ID, tags.Name, tags.Slug,
		tags.Name, tags.Name, tags.Table, tags.Name,
		tags.ID, tags.Name, tags.Slug,
	)

	linkTagQuery = fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postTags.Table, postTags.PostID, postTags.TagID,
	)
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, plan queryspec.Plan) ([]*Post, int, error) {
	where, args := plan.Where(listColumns, 1)
	if where != "" {
		where = "WHERE " + where
	}

	var total int
	if err := repository.db.QueryRow(context, countPosts+" "+where, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceName)
	}

	query := fmt.Sprintf(`%s %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		selectPost, where, plan.OrderBy(listColumns, "p."+posts.ID), len(args)+1, len(args)+2,
	)

	result, err := repository.query(context, query, append(args, plan.Page.Limit, plan.Page.Offset())...)
	return result, total, err
}

func (repository *PostgresRepository) ListByTag(context context.Context, tag Tag, page pagination.Params) ([]*Post, int, error) {
	where := fmt.Sprintf(`WHERE EXISTS (
		SELECT 1 FROM %s pt JOIN %s t ON t.%s = pt.%s
		WHERE pt.%s = p.%s AND t.%s = $1
	)`,
		postTags.Table, tags.Table, tags.ID, postTags.TagID,
		postTags.PostID, posts.ID, tags.Slug,
	)

	var total int
	if err := repository.db.QueryRow(context, countPosts+" "+where, tag.Slug).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceName)
	}

	query := fmt.Sprintf(`%s %s ORDER BY p.%s DESC, p.%s LIMIT $2 OFFSET $3`, selectPost, where, posts.CreatedAt, posts.ID)

	result, err := repository.query(context, query, tag.Slug, page.Limit, page.Offset())
	return result, total, err
}

func (repository *PostgresRepository) ListByAuthor(context context.Context, authorID string) ([]*Post, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1 ORDER BY p.%s DESC, p.%s`, selectPost, posts.AuthorID, posts.CreatedAt, posts.ID)
	return repository.query(context, query, authorID)
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Post, error) {
	result, err := repository.query(context, fmt.Sprintf(`%s WHERE p.%s = $1`, selectPost, posts.ID), id)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, dberr.Wrap(pgx.ErrNoRows, ResourceName)
	}
	return result[0], nil
}

func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING %s, %s
		`,
			posts.Table, posts.ID, posts.Title, posts.Content, posts.AuthorID, posts.CreatedAt, posts.UpdatedAt,
			posts.CreatedAt, posts.UpdatedAt,
		)

		if err := tx.QueryRow(context, query, post.ID, post.Title, post.Content, post.AuthorID).
			Scan(&post.CreatedAt, &post.UpdatedAt); err != nil {
			return dberr.Wrap(err, ResourceName)
		}

		if err := tx.QueryRow(context,
			fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accounts.Username, accounts.Table, accounts.ID), post.AuthorID,
		).Scan(&post.AuthorName); err != nil {
			return dberr.Wrap(err, ResourceName)
		}

		return writeTags(context, tx, post)
	})
}

func (repository *PostgresRepository) Update(context context.Context, post *Post, replaceTags bool) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1 RETURNING %s`,
			posts.Table, posts.Title, posts.Content, posts.UpdatedAt, posts.ID, posts.UpdatedAt,
		)

		if err := tx.QueryRow(context, query, post.ID, post.Title, post.Content).Scan(&post.UpdatedAt); err != nil {
			return dberr.Wrap(err, ResourceName)
		}

		if !replaceTags {
			return nil
		}

		if _, err := tx.Exec(context,
			fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, postTags.Table, postTags.PostID), post.ID,
		); err != nil {
			return dberr.Wrap(err, ResourceName)
		}

		return writeTags(context, tx, post)
	})
}

// Delete removes the post; tag links and comments go with it by cascade.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, posts.Table, posts.ID), id)
	if err != nil {
		return dberr.Wrap(err, ResourceName)
	}
	return dberr.Affected(tag, ResourceName)
}

// FindTag resolves a tag by slug or case-insensitive name. An exact slug
// wins over a name that happens to look like another tag's slug.
func (repository *PostgresRepository) FindTag(context context.Context, nameOrSlug string) (*Tag, error) {
	tag := &Tag{}
	if err := repository.db.QueryRow(context, findTagQuery, nameOrSlug).Scan(&tag.Name, &tag.Slug); err != nil {
		return nil, dberr.Wrap(err, tagResource)
	}
	return tag, nil
}

// query loads posts and then their tags in one extra round trip.
func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Post, error) {
		post := &Post{Tags: []Tag{}}
		err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.AuthorName, &post.CreatedAt, &post.UpdatedAt)
		return post, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}
	if len(result) == 0 {
		return []*Post{}, nil
	}

	byID := make(map[string]*Post, len(result))
	ids := make([]string, len(result))
	for i, post := range result {
		byID[post.ID] = post
		ids[i] = post.ID
	}

	tagQuery := fmt.Sprintf(`
		SELECT pt.%s, t.%s, t.%s
		FROM %s pt
		JOIN %s t ON t.%s = pt.%s
		WHERE pt.%s = ANY($1::uuid[])
		ORDER BY t.%s
	`,
		postTags.PostID, tags.Name, tags.Slug,
		postTags.Table,
		tags.Table, tags.ID, postTags.TagID,
		postTags.PostID,
		tags.Name,
	)

	tagRows, err := repository.db.Query(context, tagQuery, ids)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceName)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var postID string
		var tag Tag
		if err := tagRows.Scan(&postID, &tag.Name, &tag.Slug); err != nil {
			return nil, dberr.Wrap(err, ResourceName)
		}
		byID[postID].Tags = append(byID[postID].Tags, tag)
	}

	return result, dberr.Wrap(tagRows.Err(), ResourceName)
}

// writeTags resolves every tag by name, creating the missing ones under a
// free slug, and links it to the post.
func writeTags(context context.Context, tx pgx.Tx, post *Post) error {
	for i, tag := range post.Tags {
		tagID, stored, err := resolveTag(context, tx, tag.Name)
		if err != nil {
			return err
		}
		post.Tags[i] = stored

		if _, err := tx.Exec(context, linkTagQuery, post.ID, tagID); err != nil {
			return dberr.Wrap(err, tagResource)
		}
	}
	return nil
}

// resolveTag returns the tag stored under name, inserting it first when
// there is none.
func resolveTag(context context.Context, tx pgx.Tx, name string) (string, Tag, error) {
	var (
		tagID  string
		stored Tag
	)

	err := tx.QueryRow(context, tagByNameQuery, name).Scan(&tagID, &stored.Name, &stored.Slug)
	if err == nil {
		return tagID, stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", Tag{}, dberr.Wrap(err, tagResource)
	}

	base := TagSlug(name)
	rows, err := tx.Query(context, siblingSlugsQuery, base)
	if err != nil {
		return "", Tag{}, dberr.Wrap(err, tagResource)
	}
	siblings, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return "", Tag{}, dberr.Wrap(err, tagResource)
	}

	taken := make(map[string]bool, len(siblings))
	for _, sibling := range siblings {
		taken[sibling] = true
	}
	tagSlug := slug.Unique(base, func(candidate string) bool { return taken[candidate] })

	if err := tx.QueryRow(context, insertTagQuery, uuid.New(), name, tagSlug).Scan(&tagID, &stored.Name, &stored.Slug); err != nil {
		return "", Tag{}, dberr.Wrap(err, tagResource)
	}
	return tagID, stored, nil
}
