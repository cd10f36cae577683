// Package articlerequest binds and validates the article write payload.
package articlerequest

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ArticleFields are the writable article fields. Pointers distinguish a field
// that is absent from one that is present but empty: on update, absent fields
// are left untouched.
type ArticleFields struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	Body        *string `json:"body"`
}

// ArticleRequest is the request payload for create and update, wrapped the
// way clients send it: {"article": {...}}.
type ArticleRequest struct {
	Article *ArticleFields `json:"article"`
}

// Bind runs after unmarshalling and rejects payloads without the article
// wrapper before a handler can trip over a nil pointer.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Article == nil {
		return errors.New("missing required article fields")
	}

	return validate.Struct(a.Article)
}
