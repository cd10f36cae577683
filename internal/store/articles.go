package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/realworld-apps/articles-api/internal/model"
)

// SaveArticle persists an article document and its slug index entry. The slug
// index is claimed with SETNX, so two articles can never share a slug; saving
// the same article again under its own slug is fine.
func (s *Store) SaveArticle(ctx context.Context, a *model.Article) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, slugKey(a.Slug), a.ID, 0).Result()
	if err != nil {
		return err
	}

	if !ok {
		owner, err := s.client.Get(ctx, slugKey(a.Slug)).Result()
		if err != nil {
			return err
		}
		if owner != a.ID {
			return ErrDuplicateSlug
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, articleKey(a.ID), doc, 0)
	pipe.ZAdd(ctx, recentKey, redis.Z{
		Score:  float64(a.CreatedAt.UnixNano()),
		Member: a.ID,
	})

	_, err = pipe.Exec(ctx)

	return err
}

// GetArticleByID loads an article document.
func (s *Store) GetArticleByID(ctx context.Context, id string) (*model.Article, error) {
	doc, err := s.client.Get(ctx, articleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a model.Article
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// GetArticleBySlug resolves a slug through the index and loads the article.
func (s *Store) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	id, err := s.client.Get(ctx, slugKey(slug)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.GetArticleByID(ctx, id)
}

// RemoveArticle deletes the article document, its slug index entry, its
// favorited-by set and its recency index entry in one pipeline.
func (s *Store) RemoveArticle(ctx context.Context, a *model.Article) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, articleKey(a.ID), slugKey(a.Slug), favoritedByKey(a.ID))
	pipe.ZRem(ctx, recentKey, a.ID)

	_, err := pipe.Exec(ctx)

	return err
}

// ListArticles returns articles newest first, plus the total count.
func (s *Store) ListArticles(ctx context.Context, limit, offset int64) ([]*model.Article, int64, error) {
	total, err := s.client.ZCard(ctx, recentKey).Result()
	if err != nil {
		return nil, 0, err
	}

	ids, err := s.client.ZRevRange(ctx, recentKey, offset, offset+limit-1).Result()
	if err != nil {
		return nil, 0, err
	}

	articles := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetArticleByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// index entry outlived the document; skip it
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}

	return articles, total, nil
}
