package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/realworld-apps/articles-api/internal/model"
)

// SaveUser persists a user document.
func (s *Store) SaveUser(ctx context.Context, u *model.User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, userKey(u.ID), doc, 0).Err()
}

// GetUser loads a user document.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	doc, err := s.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := json.Unmarshal(doc, &u); err != nil {
		return nil, err
	}

	return &u, nil
}
