// Package articleresponse renders the viewer-relative article view.
package articleresponse

import (
	"net/http"
	"time"

	"github.com/realworld-apps/articles-api/internal/model"
	"github.com/realworld-apps/articles-api/internal/userpayload"
)

// ArticleView is the serialized article as one viewer sees it. Favorited is
// relative to the viewer and always false for anonymous readers;
// FavoritesCount is derived from the favorites relation, never stored.
type ArticleView struct {
	ID             string                   `json:"id"`
	Slug           string                   `json:"slug"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Body           string                   `json:"body"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
	Favorited      bool                     `json:"favorited"`
	FavoritesCount int64                    `json:"favoritesCount"`
	Author         *userpayload.UserPayload `json:"author"`
}

// ArticleResponse wraps a single view the way clients expect: {"article": {...}}.
type ArticleResponse struct {
	Article *ArticleView `json:"article"`
}

// NewArticleResponse builds the response from already-resolved state. It does
// no I/O of its own, so the same inputs always produce the same view.
func NewArticleResponse(article *model.Article, author *model.User, favorited bool, favoritesCount int64) *ArticleResponse {
	return &ArticleResponse{
		Article: &ArticleView{
			ID:             article.ID,
			Slug:           article.Slug,
			Title:          article.Title,
			Description:    article.Description,
			Body:           article.Body,
			CreatedAt:      article.CreatedAt,
			UpdatedAt:      article.UpdatedAt,
			Favorited:      favorited,
			FavoritesCount: favoritesCount,
			Author:         userpayload.NewUserPayloadResponse(author),
		},
	}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ArticleListResponse wraps a page of views plus the total match count.
type ArticleListResponse struct {
	Articles      []*ArticleView `json:"articles"`
	ArticlesCount int64          `json:"articlesCount"`
}

func NewArticleListResponse(views []*ArticleView, total int64) *ArticleListResponse {
	if views == nil {
		views = []*ArticleView{}
	}

	return &ArticleListResponse{Articles: views, ArticlesCount: total}
}

func (rd *ArticleListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
