package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Article is the stored article document. The favorites count is not part of
// the document: it is derived from the favorites relation at read time, so it
// can never drift from the authoritative sets.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewArticle builds a fresh article authored by the given user. The slug is
// derived deterministically from the title and never changes afterwards, even
// if the title does.
func NewArticle(title, description, body string, author *User) *Article {
	now := time.Now().UTC()

	return &Article{
		ID:          uuid.NewString(),
		Slug:        slug.Make(title),
		Title:       title,
		Description: description,
		Body:        body,
		AuthorID:    author.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwnedBy reports whether the given user authored this article.
func (a *Article) IsOwnedBy(userID string) bool {
	return userID != "" && a.AuthorID == userID
}
