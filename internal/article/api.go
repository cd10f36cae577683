// Package article implements the articles resource: create, read, update,
// delete, list and favorite/unfavorite, all keyed by slug.
package article

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/realworld-apps/articles-api/internal/articlerequest"
	"github.com/realworld-apps/articles-api/internal/articleresponse"
	"github.com/realworld-apps/articles-api/internal/auth"
	"github.com/realworld-apps/articles-api/internal/errresponse"
	"github.com/realworld-apps/articles-api/internal/model"
	"github.com/realworld-apps/articles-api/internal/store"
)

// Resource bundles the dependencies of the articles handlers.
type Resource struct {
	Store  *store.Store
	Logger *zap.SugaredLogger
}

// Routes returns a router for the resource, meant to be mounted at /articles.
func (rs *Resource) Routes(verifier *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.With(verifier.Optional, paginate).Get("/", rs.ListArticles)
	r.With(verifier.Required).Post("/", rs.CreateArticle)

	r.Route("/{articleSlug}", func(r chi.Router) {
		r.Use(rs.ArticleCtx) // load the *model.Article on the request context
		r.With(verifier.Optional).Get("/", rs.GetArticle)
		r.With(verifier.Required).Put("/", rs.UpdateArticle)
		r.With(verifier.Required).Delete("/", rs.DeleteArticle)

		r.Route("/favorite", func(r chi.Router) {
			r.Use(verifier.Required)
			r.Post("/", rs.FavoriteArticle)
			r.Delete("/", rs.UnfavoriteArticle)
		})
	})

	return r
}

// CreateArticle persists a new article authored by the acting user and
// returns its view. The principal must resolve to a stored user.
func (rs *Resource) CreateArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := rs.actingUser(w, r)
	if !ok {
		return
	}

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if data.Article.Title == nil || *data.Article.Title == "" {
		err := render.Render(w, r, errresponse.ErrInvalidRequest(errors.New("title is required")))
		if err != nil {
			log.Println(err)
		}

		return
	}

	a := model.NewArticle(
		*data.Article.Title,
		deref(data.Article.Description),
		deref(data.Article.Body),
		user,
	)

	if err := rs.Store.SaveArticle(r.Context(), a); err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
			if err != nil {
				log.Println(err)
			}

			return
		}
		rs.renderError(w, r, err)

		return
	}

	rs.renderArticle(w, r, a, user, user.ID)
}

// GetArticle returns the view of the article loaded by ArticleCtx, relative
// to the viewer when one authenticated.
func (rs *Resource) GetArticle(w http.ResponseWriter, r *http.Request) {
	a := articleFromContext(r.Context())

	viewerID := ""
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		viewerID = principal.UserID
	}

	rs.renderArticle(w, r, a, authorFromContext(r.Context()), viewerID)
}

// UpdateArticle applies the fields present in the request body to an article
// owned by the acting user. Absent fields are left unchanged.
func (rs *Resource) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := rs.actingUser(w, r)
	if !ok {
		return
	}

	a := articleFromContext(r.Context())
	if !a.IsOwnedBy(user.ID) {
		err := render.Render(w, r, errresponse.ErrForbidden)
		if err != nil {
			log.Println(err)
		}

		return
	}

	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if data.Article.Title != nil {
		a.Title = *data.Article.Title
	}
	if data.Article.Description != nil {
		a.Description = *data.Article.Description
	}
	if data.Article.Body != nil {
		a.Body = *data.Article.Body
	}
	a.UpdatedAt = time.Now().UTC()

	if err := rs.Store.SaveArticle(r.Context(), a); err != nil {
		rs.renderError(w, r, err)

		return
	}

	rs.renderArticle(w, r, a, authorFromContext(r.Context()), user.ID)
}

// DeleteArticle removes an article owned by the acting user and replies with
// an empty 204.
func (rs *Resource) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := rs.actingUser(w, r)
	if !ok {
		return
	}

	a := articleFromContext(r.Context())
	if !a.IsOwnedBy(user.ID) {
		err := render.Render(w, r, errresponse.ErrForbidden)
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := rs.Store.RemoveArticle(r.Context(), a); err != nil {
		rs.renderError(w, r, err)

		return
	}

	render.NoContent(w, r)
}

// FavoriteArticle adds the article to the acting user's favorites. Doing it
// twice is harmless.
func (rs *Resource) FavoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := rs.actingUser(w, r)
	if !ok {
		return
	}

	a := articleFromContext(r.Context())
	if err := rs.Store.Favorite(r.Context(), user.ID, a.ID); err != nil {
		rs.renderError(w, r, err)

		return
	}

	rs.renderArticle(w, r, a, authorFromContext(r.Context()), user.ID)
}

// UnfavoriteArticle removes the article from the acting user's favorites, a
// no-op when it was never there.
func (rs *Resource) UnfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := rs.actingUser(w, r)
	if !ok {
		return
	}

	a := articleFromContext(r.Context())
	if err := rs.Store.Unfavorite(r.Context(), user.ID, a.ID); err != nil {
		rs.renderError(w, r, err)

		return
	}

	rs.renderArticle(w, r, a, authorFromContext(r.Context()), user.ID)
}

// ListArticles returns a page of articles, newest first.
func (rs *Resource) ListArticles(w http.ResponseWriter, r *http.Request) {
	p := pageFromContext(r.Context())

	viewerID := ""
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		viewerID = principal.UserID
	}

	articles, total, err := rs.Store.ListArticles(r.Context(), p.limit, p.offset)
	if err != nil {
		rs.renderError(w, r, err)

		return
	}

	views := make([]*articleresponse.ArticleView, 0, len(articles))
	for _, a := range articles {
		author, err := rs.Store.GetUser(r.Context(), a.AuthorID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			rs.renderError(w, r, err)

			return
		}

		resp, err := rs.view(r.Context(), a, author, viewerID)
		if err != nil {
			rs.renderError(w, r, err)

			return
		}
		views = append(views, resp.Article)
	}

	if err := render.Render(w, r, articleresponse.NewArticleListResponse(views, total)); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			log.Println(err)
		}
	}
}

// actingUser resolves the authenticated principal to a stored user. A
// principal whose user record no longer exists is rejected with 401 rather
// than compared against the author blindly.
func (rs *Resource) actingUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		err := render.Render(w, r, errresponse.ErrUnauthorized)
		if err != nil {
			log.Println(err)
		}

		return nil, false
	}

	user, err := rs.Store.GetUser(r.Context(), principal.UserID)
	if errors.Is(err, store.ErrNotFound) {
		err = render.Render(w, r, errresponse.ErrUnauthorized)
		if err != nil {
			log.Println(err)
		}

		return nil, false
	}
	if err != nil {
		rs.renderError(w, r, err)

		return nil, false
	}

	return user, true
}

// view assembles the viewer-relative response for an article: the favorited
// flag is looked up for the viewer and the count derived from the relation.
func (rs *Resource) view(ctx context.Context, a *model.Article, author *model.User, viewerID string) (*articleresponse.ArticleResponse, error) {
	favorited := false
	if viewerID != "" {
		var err error
		favorited, err = rs.Store.IsFavorited(ctx, viewerID, a.ID)
		if err != nil {
			return nil, err
		}
	}

	count, err := rs.Store.FavoritesCount(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	if author == nil {
		author = &model.User{}
	}

	return articleresponse.NewArticleResponse(a, author, favorited, count), nil
}

func (rs *Resource) renderArticle(w http.ResponseWriter, r *http.Request, a *model.Article, author *model.User, viewerID string) {
	resp, err := rs.view(r.Context(), a, author, viewerID)
	if err != nil {
		rs.renderError(w, r, err)

		return
	}

	if err := render.Render(w, r, resp); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			log.Println(err)
		}
	}
}

// renderError forwards a datastore failure to the generic error response
// after logging it; no domain translation happens here.
func (rs *Resource) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if rs.Logger != nil {
		rs.Logger.Errorw("request failed", "path", r.URL.Path, "error", err)
	}

	if err := render.Render(w, r, errresponse.ErrInternal(err)); err != nil {
		log.Println(err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
