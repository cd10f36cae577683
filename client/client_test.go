// client_test.go
//go:build !integration

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/articles/hi", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"article": map[string]interface{}{"slug": "hi", "title": "Hi"},
		})
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL, Token: "tok"}

	a, err := c.Get("hi")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "hi", a.Slug)
	assert.Equal(t, "Hi", a.Title)
}

func TestCreateOmitsNilFields(t *testing.T) {
	var gotBody map[string]map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"article": map[string]interface{}{"slug": "hi"},
		})
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}

	_, err := c.Create(ArticleFields{Title: String("Hi")})
	require.NoError(t, err)

	fields := gotBody["article"]
	assert.Equal(t, "Hi", fields["title"])
	_, hasDescription := fields["description"]
	assert.False(t, hasDescription)
}

func TestNonSuccessBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}

	_, err := c.Update("hi", ArticleFields{Title: String("Stolen")})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "4", r.URL.Query().Get("offset"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"articles":      []map[string]interface{}{{"slug": "hi"}},
			"articlesCount": 7,
		})
	}))
	defer srv.Close()

	c := Client{Addr: srv.URL}

	articles, total, err := c.List(2, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	require.Len(t, articles, 1)
	assert.Equal(t, "hi", articles[0].Slug)
}
