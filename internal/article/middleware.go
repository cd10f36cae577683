package article

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/realworld-apps/articles-api/internal/errresponse"
	"github.com/realworld-apps/articles-api/internal/model"
	"github.com/realworld-apps/articles-api/internal/store"
)

type ctxKey int

const (
	articleCtxKey ctxKey = iota
	authorCtxKey
	pageCtxKey
)

// ArticleCtx middleware resolves the slug URL parameter into a loaded Article
// and its author, and attaches both to the request context. If the slug does
// not resolve, it stops here with a 404 and the downstream handler never
// runs.
func (rs *Resource) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "articleSlug")
		if slug == "" {
			err := render.Render(w, r, errresponse.ErrNotFound)
			if err != nil {
				log.Println(err)
			}

			return
		}

		a, err := rs.Store.GetArticleBySlug(r.Context(), slug)
		if errors.Is(err, store.ErrNotFound) {
			err = render.Render(w, r, errresponse.ErrNotFound)
			if err != nil {
				log.Println(err)
			}

			return
		}
		if err != nil {
			rs.renderError(w, r, err)

			return
		}

		author, err := rs.Store.GetUser(r.Context(), a.AuthorID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			rs.renderError(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), articleCtxKey, a)
		ctx = context.WithValue(ctx, authorCtxKey, author)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func articleFromContext(ctx context.Context) *model.Article {
	// ArticleCtx always ran first on these routes; a missing value is a
	// routing bug and the Recoverer middleware will surface it.
	return ctx.Value(articleCtxKey).(*model.Article)
}

func authorFromContext(ctx context.Context) *model.User {
	author, _ := ctx.Value(authorCtxKey).(*model.User)

	return author
}

type page struct {
	limit  int64
	offset int64
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// paginate reads the limit and offset query parameters, clamps them to sane
// bounds and passes them down the chain.
func paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := page{limit: defaultPageLimit}

		if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
			p.limit = v
		}
		if p.limit > maxPageLimit {
			p.limit = maxPageLimit
		}

		if v, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64); err == nil && v > 0 {
			p.offset = v
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), pageCtxKey, p)))
	})
}

func pageFromContext(ctx context.Context) page {
	p, ok := ctx.Value(pageCtxKey).(page)
	if !ok {
		return page{limit: defaultPageLimit}
	}

	return p
}
