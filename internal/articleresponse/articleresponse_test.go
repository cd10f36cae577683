package articleresponse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworld-apps/articles-api/internal/model"
)

func TestNewArticleResponse(t *testing.T) {
	now := time.Now().UTC()
	a := &model.Article{
		ID:          "a-1",
		Slug:        "hi",
		Title:       "Hi",
		Description: "d",
		Body:        "b",
		AuthorID:    "u-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	author := &model.User{ID: "u-1", Username: "peter", Bio: "bio", Image: "img"}

	resp := NewArticleResponse(a, author, true, 3)

	assert.Equal(t, "hi", resp.Article.Slug)
	assert.Equal(t, "Hi", resp.Article.Title)
	assert.True(t, resp.Article.Favorited)
	assert.EqualValues(t, 3, resp.Article.FavoritesCount)
	assert.Equal(t, "peter", resp.Article.Author.Username)
}

// The author's id must not leak through the serialized view.
func TestViewHidesAuthorID(t *testing.T) {
	a := &model.Article{ID: "a-1", Slug: "hi", AuthorID: "u-1"}
	author := &model.User{ID: "u-1", Username: "peter"}

	raw, err := json.Marshal(NewArticleResponse(a, author, false, 0))
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded["article"], "authorId")
	assert.NotContains(t, decoded["article"]["author"], "id")
}

func TestNewArticleListResponseNeverNil(t *testing.T) {
	resp := NewArticleListResponse(nil, 0)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"articles":[],"articlesCount":0}`, string(raw))
}
