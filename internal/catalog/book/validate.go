// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"strings"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/validate"
)

// MinPublicationYear is the earliest year a book may carry; negative years
// are BCE.
const MinPublicationYear = -9999

// ValidatePublicationYear rejects years after currentYear.
func ValidatePublicationYear(year, currentYear int) error {
	if year < MinPublicationYear {
		return validate.FieldError(FieldPublicationYear, tooOldMessage)
	}
	if year > currentYear {
		return validate.FieldError(FieldPublicationYear,
			fmt.Sprintf("Publication year cannot be in the future. Current year is %d.", currentYear))
	}
	return nil
}

// validateInput checks the fields present in input. With partial unset,
// every field is required.
func validateInput(input Input, partial bool, currentYear int) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
	} else if !partial {
		validator.Required(FieldTitle, "")
	}

	if input.PublicationYear != nil {
		year := *input.PublicationYear
		validator.Custom(FieldPublicationYear, year < MinPublicationYear, tooOldMessage)
		validator.Custom(FieldPublicationYear, year > currentYear,
			fmt.Sprintf("Publication year cannot be in the future. Current year is %d.", currentYear))
	} else if !partial {
		validator.Required(FieldPublicationYear, "")
	}

	if input.AuthorID != nil {
		validator.UUID(FieldAuthor, *input.AuthorID)
	} else if !partial {
		validator.Required(FieldAuthor, "")
	}

	return validator.Err()
}

// checkPublishable is the whole-record check run on the merged book right
// before it is written.
func checkPublishable(book *Book, currentYear int) error {
	if book.PublicationYear > currentYear {
		return apperr.ValidationError("Publication year cannot be in the future.")
	}
	if book.PublicationYear < MinPublicationYear {
		return apperr.ValidationError(tooOldMessage)
	}
	return nil
}

var tooOldMessage = fmt.Sprintf("Publication year cannot be before %d.", MinPublicationYear)

func missingAuthor(id string) error {
	return validate.FieldError(FieldAuthor, fmt.Sprintf("Invalid pk %q - object does not exist.", id))
}
