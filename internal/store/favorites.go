package store

import "context"

// Favorite adds the article to the user's favorites set and the user to the
// article's favorited-by set. Both writes run in one MULTI/EXEC pipeline and
// set semantics make the operation idempotent.
func (s *Store) Favorite(ctx context.Context, userID, articleID string) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, favoritesKey(userID), articleID)
	pipe.SAdd(ctx, favoritedByKey(articleID), userID)

	_, err := pipe.Exec(ctx)

	return err
}

// Unfavorite removes the article from the user's favorites set and the user
// from the article's favorited-by set. Unfavoriting something never favorited
// is a no-op.
func (s *Store) Unfavorite(ctx context.Context, userID, articleID string) error {
	pipe := s.client.TxPipeline()
	pipe.SRem(ctx, favoritesKey(userID), articleID)
	pipe.SRem(ctx, favoritedByKey(articleID), userID)

	_, err := pipe.Exec(ctx)

	return err
}

// IsFavorited reports whether the user currently favorites the article.
func (s *Store) IsFavorited(ctx context.Context, userID, articleID string) (bool, error) {
	return s.client.SIsMember(ctx, favoritesKey(userID), articleID).Result()
}

// FavoritesCount derives the favorite count from the favorited-by set. It is
// never stored, so it cannot drift from the relation.
func (s *Store) FavoritesCount(ctx context.Context, articleID string) (int64, error) {
	return s.client.SCard(ctx, favoritedByKey(articleID)).Result()
}
