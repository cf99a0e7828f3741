// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/libris/internal/access"
	"github.com/taibuivan/libris/internal/catalog/author"
	"github.com/taibuivan/libris/internal/catalog/book"
	"github.com/taibuivan/libris/internal/catalog/library"
	"github.com/taibuivan/libris/internal/platform/apperr"
	requestutil "github.com/taibuivan/libris/internal/platform/request"
	"github.com/taibuivan/libris/pkg/pagination"
)

// BookList is the data of the book list page.
type BookList struct {
	Books []*book.Book
	Query string
	Meta  pagination.Meta
}

// BookForm is the data of the new and edit book pages.
type BookForm struct {
	Book    *book.Book
	Authors []*author.Author
	Action  string
}

// LibraryDetail is the data of the library page.
type LibraryDetail struct {
	Library *library.Library
	Books   []*book.Book
	Query   string
	Meta    pagination.Meta
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	plan, err := book.PageSchema.FromRequest(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	books, total, err := handler.Books.List(request.Context(), plan)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "books", Page{
		Title: "Books",
		Data: BookList{
			Books: books,
			Query: plan.Search.Term,
			Meta:  plan.Page.Meta(total),
		},
	})
}

func (handler *Handler) newBookForm(writer http.ResponseWriter, request *http.Request) {
	actor := requestutil.Actor(request)
	if err := handler.Guard.Create(request.Context(), actor, access.KindBook); err != nil {
		handler.fail(writer, request, err)
		return
	}

	form, err := handler.bookForm(request, &book.Book{}, "/books/new")
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	handler.render(writer, request, http.StatusOK, "book_form", Page{Title: "New book", Data: form})
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	input, err := parseBookInput(request)
	if err == nil {
		_, err = handler.Books.Create(request.Context(), requestutil.Actor(request), input)
	}
	if err != nil {
		handler.bookFormFailed(writer, request, "New book", &book.Book{}, "/books/new", err)
		return
	}

	http.Redirect(writer, request, "/books", http.StatusSeeOther)
}

func (handler *Handler) editBookForm(writer http.ResponseWriter, request *http.Request) {
	existing, ok := handler.loadBook(writer, request, access.ActionUpdate)
	if !ok {
		return
	}

	action := "/books/" + existing.ID + "/edit"
	form, err := handler.bookForm(request, existing, action)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	handler.render(writer, request, http.StatusOK, "book_form", Page{Title: "Edit " + existing.Title, Data: form})
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", book.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	input, err := parseBookInput(request)
	if err == nil {
		_, err = handler.Books.Update(request.Context(), requestutil.Actor(request), id, input)
	}
	if err != nil {
		handler.bookFormFailed(writer, request, "Edit book", &book.Book{ID: id}, "/books/"+id+"/edit", err)
		return
	}

	http.Redirect(writer, request, "/books", http.StatusSeeOther)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", book.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	if err := handler.Books.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	http.Redirect(writer, request, "/books", http.StatusSeeOther)
}

// loadBook fetches the book named in the path and checks that the visitor
// may perform action on it, rendering the failure page otherwise.
func (handler *Handler) loadBook(writer http.ResponseWriter, request *http.Request, action access.Action) (*book.Book, bool) {
	id, err := requestutil.UUIDParam(request, "id", book.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	existing, err := handler.Books.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	resource := &access.Resource{Kind: access.KindBook, ID: existing.ID}
	if err := handler.Guard.Authorize(request.Context(), requestutil.Actor(request), action, access.KindBook, resource); err != nil {
		handler.fail(writer, request, err)
		return nil, false
	}

	return existing, true
}

// bookForm loads the author choices for the book form.
func (handler *Handler) bookForm(request *http.Request, current *book.Book, action string) (BookForm, error) {
	plan := author.QuerySchema.DefaultPlan()
	plan.Page = pagination.Params{Page: 1, Limit: pagination.MaxLimit}

	authors, _, err := handler.Authors.List(request.Context(), plan)
	if err != nil {
		return BookForm{}, err
	}
	return BookForm{Book: current, Authors: authors, Action: action}, nil
}

func (handler *Handler) bookFormFailed(writer http.ResponseWriter, request *http.Request, title string, current *book.Book, action string, err error) {
	form, loadErr := handler.bookForm(request, current, action)
	if loadErr != nil {
		handler.fail(writer, request, loadErr)
		return
	}
	handler.formFailed(writer, request, "book_form", Page{Title: title, Data: form}, err)
}

// parseBookInput reads the book form. Blank fields are left nil so the
// service reports them as required on create and unchanged on edit.
func parseBookInput(request *http.Request) (book.Input, error) {
	if err := request.ParseForm(); err != nil {
		return book.Input{}, apperr.ValidationError("Malformed form submission")
	}

	var input book.Input
	if title, ok := formValue(request.PostForm, book.FieldTitle); ok {
		input.Title = &title
	}
	if authorID, ok := formValue(request.PostForm, book.FieldAuthor); ok {
		input.AuthorID = &authorID
	}
	if raw, ok := formValue(request.PostForm, book.FieldPublicationYear); ok {
		year, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return book.Input{}, apperr.ValidationError("Invalid input", apperr.FieldError{
				Field:   book.FieldPublicationYear,
				Message: "Enter a whole number.",
			})
		}
		publicationYear := int(year)
		input.PublicationYear = &publicationYear
	}

	return input, nil
}

// formValue returns the trimmed value of field and whether it was filled in.
func formValue(form url.Values, field string) (string, bool) {
	value := strings.TrimSpace(form.Get(field))
	return value, value != ""
}

func (handler *Handler) showLibrary(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, "id", library.ResourceName)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	plan, err := book.PageSchema.FromRequest(request)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	current, err := handler.Libraries.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	books, total, err := handler.Libraries.ListBooks(request.Context(), id, plan)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.render(writer, request, http.StatusOK, "library", Page{
		Title: current.Name,
		Data: LibraryDetail{
			Library: current,
			Books:   books,
			Query:   plan.Search.Term,
			Meta:    plan.Page.Meta(total),
		},
	})
}
