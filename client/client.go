// Package client is a small typed client for the articles API, mirroring the
// wire shapes the server renders.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to one articles-api instance. Token, when set, is sent as a
// bearer credential on every request.
type Client struct {
	http.Client
	Addr  string
	Token string
}

// Article is the view returned by the server.
type Article struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int64     `json:"favoritesCount"`
	Author         Author    `json:"author"`
}

// Author is the article author's public profile.
type Author struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// ArticleFields are the writable fields for create and update. Nil fields are
// omitted from the request and left unchanged by the server.
type ArticleFields struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
}

type articleEnvelope struct {
	Article *Article `json:"article"`
}

type articleList struct {
	Articles      []*Article `json:"articles"`
	ArticlesCount int64      `json:"articlesCount"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func (c *Client) do(method, path string, body interface{}) (*http.Response, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.Addr+path, buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()

		return nil, &StatusError{Code: resp.StatusCode}
	}

	return resp, nil
}

func (c *Client) article(method, path string, body interface{}) (*Article, error) {
	resp, err := c.do(method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope articleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}

	return envelope.Article, nil
}

// Ping checks the server is up.
func (c *Client) Ping() (string, error) {
	resp, err := c.do(http.MethodGet, "/ping", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Create posts a new article.
func (c *Client) Create(fields ArticleFields) (*Article, error) {
	return c.article(http.MethodPost, "/articles", map[string]interface{}{"article": fields})
}

// Get fetches an article by slug.
func (c *Client) Get(slug string) (*Article, error) {
	return c.article(http.MethodGet, "/articles/"+slug, nil)
}

// Update applies the non-nil fields to an article owned by the caller.
func (c *Client) Update(slug string, fields ArticleFields) (*Article, error) {
	return c.article(http.MethodPut, "/articles/"+slug, map[string]interface{}{"article": fields})
}

// Delete removes an article owned by the caller.
func (c *Client) Delete(slug string) error {
	resp, err := c.do(http.MethodDelete, "/articles/"+slug, nil)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

// Favorite marks an article as favorited by the caller.
func (c *Client) Favorite(slug string) (*Article, error) {
	return c.article(http.MethodPost, "/articles/"+slug+"/favorite", nil)
}

// Unfavorite removes an article from the caller's favorites.
func (c *Client) Unfavorite(slug string) (*Article, error) {
	return c.article(http.MethodDelete, "/articles/"+slug+"/favorite", nil)
}

// List fetches a page of articles, newest first, and the total count.
func (c *Client) List(limit, offset int64) ([]*Article, int64, error) {
	resp, err := c.do(http.MethodGet, fmt.Sprintf("/articles?limit=%d&offset=%d", limit, offset), nil)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var list articleList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, 0, err
	}

	return list.Articles, list.ArticlesCount, nil
}

// String pointers for ArticleFields literals.
func String(s string) *string {
	return &s
}
