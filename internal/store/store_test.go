package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworld-apps/articles-api/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testArticle(id, slug string, createdAt time.Time) *model.Article {
	return &model.Article{
		ID:          id,
		Slug:        slug,
		Title:       slug,
		Description: "d",
		Body:        "b",
		AuthorID:    "u-1",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestSaveAndGetArticleBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := testArticle("a-1", "hi", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.SaveArticle(ctx, want))

	got, err := s.GetArticleBySlug(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetArticleBySlugNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetArticleBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveArticleDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveArticle(ctx, testArticle("a-1", "hi", time.Now())))

	err := s.SaveArticle(ctx, testArticle("a-2", "hi", time.Now()))
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestSaveArticleTwiceKeepsSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("a-1", "hi", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.SaveArticle(ctx, a))

	a.Body = "updated"
	require.NoError(t, s.SaveArticle(ctx, a))

	got, err := s.GetArticleBySlug(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Body)
}

func TestRemoveArticleFreesSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testArticle("a-1", "hi", time.Now())
	require.NoError(t, s.SaveArticle(ctx, a))
	require.NoError(t, s.RemoveArticle(ctx, a))

	_, err := s.GetArticleBySlug(ctx, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetArticleByID(ctx, "a-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// the slug can be claimed again after removal
	assert.NoError(t, s.SaveArticle(ctx, testArticle("a-2", "hi", time.Now())))
}

func TestListArticlesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SaveArticle(ctx, testArticle("a-1", "one", base)))
	require.NoError(t, s.SaveArticle(ctx, testArticle("a-2", "two", base.Add(time.Second))))
	require.NoError(t, s.SaveArticle(ctx, testArticle("a-3", "three", base.Add(2*time.Second))))

	articles, total, err := s.ListArticles(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, articles, 2)
	assert.Equal(t, "three", articles[0].Slug)
	assert.Equal(t, "two", articles[1].Slug)

	articles, total, err = s.ListArticles(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, articles, 1)
	assert.Equal(t, "one", articles[0].Slug)
}

func TestSaveAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := &model.User{ID: "u-1", Username: "peter", Bio: "bio", Image: "img"}
	require.NoError(t, s.SaveUser(ctx, want))

	got, err := s.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.GetUser(ctx, "u-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Favorite(ctx, "u-1", "a-1"))
	require.NoError(t, s.Favorite(ctx, "u-1", "a-1"))

	count, err := s.FavoritesCount(ctx, "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	favorited, err := s.IsFavorited(ctx, "u-1", "a-1")
	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestUnfavoriteNeverFavoritedIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Favorite(ctx, "u-1", "a-1"))
	require.NoError(t, s.Unfavorite(ctx, "u-2", "a-1"))

	count, err := s.FavoritesCount(ctx, "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUnfavoriteRemovesBothSides(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Favorite(ctx, "u-1", "a-1"))
	require.NoError(t, s.Unfavorite(ctx, "u-1", "a-1"))

	count, err := s.FavoritesCount(ctx, "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	favorited, err := s.IsFavorited(ctx, "u-1", "a-1")
	require.NoError(t, err)
	assert.False(t, favorited)
}
