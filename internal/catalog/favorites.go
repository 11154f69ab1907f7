package catalog

import (
	"context"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/entities"
)

// AddFavorite bookmarks an entry for a user. Adding an existing bookmark is a
// no-op, including when two adds race.
func (s *Service) AddFavorite(ctx context.Context, wordID, userID string) error {
	if !ValidID(userID) {
		return ErrInvalidCaller
	}
	entry, err := s.load(ctx, wordID)
	if err != nil {
		return err
	}
	userID = IDOf(userID)

	existing, err := s.favorites.FindFavorite(ctx, entry.ID, userID)
	if err != nil {
		return storeError("find favorite", err)
	}
	if existing != nil {
		return nil
	}

	created, err := s.favorites.CreateFavorite(ctx, &entities.FavoriteRecord{
		WordID:  entry.ID,
		UserID:  userID,
		AddedAt: s.clock(),
	})
	if err != nil {
		return storeError("create favorite", err)
	}
	if created {
		s.logger.WithFields(logrus.Fields{
			"op":       "add_favorite",
			"entry_id": entry.ID,
			"user_id":  userID,
		}).Debug("favorite added")
	}
	return nil
}

// RemoveFavorite reports whether a bookmark was actually removed. Malformed
// ids never match a record.
func (s *Service) RemoveFavorite(ctx context.Context, wordID, userID string) (bool, error) {
	if !ValidID(wordID) || !ValidID(userID) {
		return false, nil
	}
	removed, err := s.favorites.DeleteFavorite(ctx, IDOf(wordID), IDOf(userID))
	if err != nil {
		return false, storeError("delete favorite", err)
	}
	return removed, nil
}

// ListFavorites pages through a user's bookmarks, most recently added first.
// Bookmarks whose entry no longer exists are skipped; Total still counts them.
func (s *Service) ListFavorites(ctx context.Context, userID string, page, limit int) (*Page, error) {
	if !ValidID(userID) {
		return nil, ErrInvalidCaller
	}
	userID = IDOf(userID)
	req := clampPage(page, limit, s.maxLimit)

	records, err := s.favorites.ListFavorites(ctx, userID, req.limit, req.offset())
	if err != nil {
		return nil, storeError("list favorites", err)
	}
	total, err := s.favorites.CountFavorites(ctx, userID)
	if err != nil {
		return nil, storeError("count favorites", err)
	}
	if len(records) == 0 {
		return newPage(nil, total, req), nil
	}

	ids := lo.Map(records, func(r entities.FavoriteRecord, _ int) string { return IDOf(r.WordID) })
	found, err := s.entries.GetEntriesByIDs(ctx, lo.Uniq(ids))
	if err != nil {
		return nil, storeError("get favorite entries", err)
	}

	// The bulk fetch returns entries in store order; restore bookmark order.
	byID := lo.KeyBy(found, func(e entities.WordEntry) string { return IDOf(e.ID) })
	words := make([]entities.WordEntry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			words = append(words, entry)
		}
	}

	if err := s.hydrateSlice(ctx, words); err != nil {
		return nil, err
	}
	return newPage(words, total, req), nil
}

// IsFavorite reports whether userID has bookmarked wordID. Malformed ids
// yield false.
func (s *Service) IsFavorite(ctx context.Context, wordID, userID string) (bool, error) {
	if !ValidID(wordID) || !ValidID(userID) {
		return false, nil
	}
	record, err := s.favorites.FindFavorite(ctx, IDOf(wordID), IDOf(userID))
	if err != nil {
		return false, storeError("find favorite", err)
	}
	return record != nil, nil
}
