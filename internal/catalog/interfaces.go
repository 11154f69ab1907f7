package catalog

import (
	"context"

	"github.com/mrlokans/lexicon/internal/entities"
)

// EntryStore persists word entries. Lookups return (nil, nil) when the entry
// does not exist. Create and Update return ErrDuplicateEntry when the store's
// uniqueness constraint on (word, language) rejects the write.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *entities.WordEntry) error
	GetEntryByID(ctx context.Context, id string) (*entities.WordEntry, error)
	FindEntryByWord(ctx context.Context, word, language string) (*entities.WordEntry, error)
	UpdateEntry(ctx context.Context, entry *entities.WordEntry, replaceMeanings bool) error
	DeleteEntry(ctx context.Context, id string) (bool, error)
	ListEntries(ctx context.Context, p Predicate, limit, offset int) ([]entities.WordEntry, int64, error)
	// GetEntriesByIDs returns the entries that exist, in no particular order.
	GetEntriesByIDs(ctx context.Context, ids []string) ([]entities.WordEntry, error)
}

// FavoritesLedger persists (word, user) bookmarks.
type FavoritesLedger interface {
	FindFavorite(ctx context.Context, wordID, userID string) (*entities.FavoriteRecord, error)
	// CreateFavorite reports false without error when the pair already exists.
	CreateFavorite(ctx context.Context, record *entities.FavoriteRecord) (bool, error)
	DeleteFavorite(ctx context.Context, wordID, userID string) (bool, error)
	// ListFavorites returns a user's records ordered by AddedAt descending.
	ListFavorites(ctx context.Context, userID string, limit, offset int) ([]entities.FavoriteRecord, error)
	CountFavorites(ctx context.Context, userID string) (int64, error)
	DeleteFavoritesByWord(ctx context.Context, wordID string) (int64, error)
}

// CategoryLookup resolves categories for display. Unknown ids are omitted.
type CategoryLookup interface {
	GetCategoriesByIDs(ctx context.Context, ids []string) ([]entities.Category, error)
}

// CreatorLookup resolves user display names keyed by user id. Unknown ids are omitted.
type CreatorLookup interface {
	GetUsernames(ctx context.Context, ids []string) (map[string]string, error)
}

// CascadeScheduler retries favorites cleanup for a deleted entry out of band.
type CascadeScheduler interface {
	SchedulePurgeFavorites(ctx context.Context, wordID string) error
}

// EnrichmentScheduler fills in details missing from a new entry out of band.
type EnrichmentScheduler interface {
	ScheduleEnrichment(ctx context.Context, wordID string) error
}

// Auditor records entry lifecycle events. Implementations must not block.
type Auditor interface {
	LogEntryEvent(userID string, eventType entities.AuditEventType, action, entryID, description string)
}
