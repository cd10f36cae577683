// Package store persists article and user documents in Redis. Documents are
// JSON values under typed keys; the favorites relation is a pair of sets kept
// in sync inside one MULTI/EXEC pipeline.
package store

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateSlug is returned when another article already owns a slug.
	ErrDuplicateSlug = errors.New("store: duplicate slug")
)

// Store is a document store backed by a single Redis client.
type Store struct {
	client *redis.Client
}

// New creates a Store connected to the given address.
func New(addr string) *Store {
	return &Store{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewWithURL creates a Store from a redis:// URL.
func NewWithURL(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return &Store{client: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing client. The caller keeps ownership of the
// client's lifecycle; Close still closes it.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func articleKey(id string) string            { return "article:" + id }
func slugKey(slug string) string             { return "article:slug:" + slug }
func userKey(id string) string               { return "user:" + id }
func favoritesKey(userID string) string      { return "user:" + userID + ":favorites" }
func favoritedByKey(articleID string) string { return "article:" + articleID + ":favoritedby" }

const recentKey = "articles:recent"
