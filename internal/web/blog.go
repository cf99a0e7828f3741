// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/blog/comment"
	"github.com/taibuivan/libris/internal/blog/post"
	"github.com/taibuivan/libris/internal/platform/apperr"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/pkg/pagination"
	"github.com/taibuivan/libris/pkg/slice"
)

// PostList is the data of the post list, search and tag pages.
type PostList struct {
	Posts []*post.Post
	Query string
	Meta  pagination.Meta

	// Tag is set on the tag page only.
	Tag *post.Tag
}

// PostForm is the data of the new and edit post pages.
type PostForm struct {
	Post   *post.Post
	Action string
}

// CommentForm is the data of the edit comment page.
type CommentForm struct {
	Comment *comment.Comment
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	handler.renderPostList(writer, request, "posts", "Posts")
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	handler.renderPostList(writer, request, "search", "Search")
}

func (handler *Handler) renderPostList(writer http.ResponseWriter, request *http.Request, name, title string) {
	plan, err := post.QuerySchema.FromRequest(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	posts, total, err := handler.Posts.List(request.Context(), plan)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, name, Page{
		Title: title,
		Data:  PostList{Posts: posts, Query: plan.Search.Term, Meta: plan.Page.Meta(total)},
	})
}

func (handler *Handler) postsByTag(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	tag, posts, total, err := handler.Posts.ListByTag(request.Context(), requestutil.Param(request, "tag"), page)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "tag", Page{
		Title: "Tagged " + tag.Name,
		Data:  PostList{Posts: posts, Tag: tag, Meta: page.Meta(total)},
	})
}

func (handler *Handler) showPost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", post.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	current, err := handler.Posts.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "post", Page{Title: current.Title, Data: current})
}

func (handler *Handler) newPostForm(writer http.ResponseWriter, request *http.Request) {
	if err := handler.Guard.Create(request.Context(), requestutil.Actor(request), access.KindPost); err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "post_form", Page{
		Title: "New post",
		Data:  PostForm{Post: &post.Post{}, Action: "/posts/new"},
	})
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	input, err := parsePostInput(request)
	var created *post.Post
	if err == nil {
		created, err = handler.Posts.Create(request.Context(), requestutil.Actor(request), input)
	}
	if err != nil {
		handler.formFailed(writer, request, "post_form", Page{
			Title: "New post",
			Data:  PostForm{Post: &post.Post{}, Action: "/posts/new"},
		}, err)
		return
	}

	http.Redirect(writer, request, "/posts/"+created.ID, http.StatusSeeOther)
}

func (handler *Handler) editPostForm(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", post.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	current, err := handler.Posts.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	resource := &access.Resource{Kind: access.KindPost, ID: current.ID, OwnerID: current.AuthorID}
	if err := handler.Guard.Authorize(request.Context(), requestutil.Actor(request), access.ActionUpdate, access.KindPost, resource); err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "post_form", Page{
		Title: "Edit " + current.Title,
		Data:  PostForm{Post: current, Action: "/posts/" + current.ID + "/edit"},
	})
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", post.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	input, err := parsePostInput(request)
	if err == nil {
		_, err = handler.Posts.Update(request.Context(), requestutil.Actor(request), id, input)
	}
	if err != nil {
		handler.formFailed(writer, request, "post_form", Page{
			Title: "Edit post",
			Data:  PostForm{Post: &post.Post{ID: id}, Action: "/posts/" + id + "/edit"},
		}, err)
		return
	}

	http.Redirect(writer, request, "/posts/"+id, http.StatusSeeOther)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", post.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := handler.Posts.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	http.Redirect(writer, request, "/posts", http.StatusSeeOther)
}

// parsePostInput reads the post form. The tags box is a comma separated
// list and always replaces the stored set, so an empty box clears it.
func parsePostInput(request *http.Request) (post.Input, error) {
	if err := request.ParseForm(); err != nil {
		return post.Input{}, apperr.ValidationError("Malformed form submission")
	}

	title := request.PostForm.Get(post.FieldTitle)
	content := request.PostForm.Get(post.FieldContent)

	tags := slice.SplitTrim(request.PostForm.Get(post.FieldTags))
	if tags == nil {
		tags = []string{}
	}

	return post.Input{Title: &title, Content: &content, Tags: tags}, nil
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.UUIDParam(request, "id", post.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := request.ParseForm(); err != nil {
		handler.fail(writer, request, apperr.ValidationError("Malformed form submission"))
		return
	}

	input := comment.Input{Content: request.PostForm.Get("content")}
	if _, err := handler.Comments.Create(request.Context(), requestutil.Actor(request), postID, input); err != nil {
		if apperr.HasCode(err, apperr.CodeValidation) {
			handler.postWithCommentError(writer, request, postID, err)
			return
		}
		handler.fail(writer, request, err)
		return
	}

	http.Redirect(writer, request, "/posts/"+postID+"#comments", http.StatusSeeOther)
}

// postWithCommentError re-renders the post page with the rejected comment.
func (handler *Handler) postWithCommentError(writer http.ResponseWriter, request *http.Request, postID string, err error) {
	current, getErr := handler.Posts.Get(request.Context(), postID)
	if getErr != nil {
		handler.fail(writer, request, getErr)
		return
	}
	handler.formFailed(writer, request, "post", Page{Title: current.Title, Data: current}, err)
}

func (handler *Handler) editCommentForm(writer http.ResponseWriter, request *http.Request) {
	current, ok := handler.loadComment(writer, request, access.ActionUpdate)
	if !ok {
		return
	}

	handler.render(writer, request, http.StatusOK, "comment_form", Page{
		Title: "Edit comment",
		Data:  CommentForm{Comment: current},
	})
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", comment.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := request.ParseForm(); err != nil {
		handler.fail(writer, request, apperr.ValidationError("Malformed form submission"))
		return
	}

	updated, err := handler.Comments.Update(request.Context(), requestutil.Actor(request), id, comment.Input{
		Content: request.PostForm.Get("content"),
	})
	if err != nil {
		handler.formFailed(writer, request, "comment_form", Page{
			Title: "Edit comment",
			Data:  CommentForm{Comment: &comment.Comment{ID: id}},
		}, err)
		return
	}

	http.Redirect(writer, request, "/posts/"+updated.PostID+"#comments", http.StatusSeeOther)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", comment.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	deleted, err := handler.Comments.Delete(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	http.Redirect(writer, request, "/posts/"+deleted.PostID+"#comments", http.StatusSeeOther)
}

func (handler *Handler) loadComment(writer http.ResponseWriter, request *http.Request, action access.Action) (*comment.Comment, bool) {
	id, err := requestutil.UUIDParam(request, "id", comment.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	current, err := handler.Comments.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	resource := &access.Resource{Kind: access.KindComment, ID: current.ID, OwnerID: current.AuthorID}
	if err := handler.Guard.Authorize(request.Context(), requestutil.Actor(request), action, access.KindComment, resource); err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	return current, true
}

// tagList renders tags for the post form's text box.
func tagList(tags []post.Tag) string {
	return strings.Join(slice.Map(tags, func(tag post.Tag) string { return tag.Name }), ", ")
}
