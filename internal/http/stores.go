package http

import (
	"context"

	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/dictionary"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Each controller declares the slice of the catalog it needs;
// *catalog.Service satisfies all of them.

// WordCatalog serves the public word routes.
type WordCatalog interface {
	Create(ctx context.Context, in catalog.EntryInput, caller catalog.Caller) (*entities.WordEntry, error)
	FindOne(ctx context.Context, id string) (*entities.WordEntry, error)
	FindAll(ctx context.Context, page, limit int, status entities.WordStatus) (*catalog.Page, error)
	GetFeatured(ctx context.Context, limit int) ([]entities.WordEntry, error)
	Search(ctx context.Context, criteria catalog.SearchCriteria) (*catalog.Page, error)
	Update(ctx context.Context, id string, upd catalog.EntryUpdate, caller catalog.Caller) (*entities.WordEntry, error)
	Remove(ctx context.Context, id string, caller catalog.Caller) (bool, error)
}

// FavoritesCatalog serves the per-user bookmark routes.
type FavoritesCatalog interface {
	AddFavorite(ctx context.Context, wordID, userID string) error
	RemoveFavorite(ctx context.Context, wordID, userID string) (bool, error)
	ListFavorites(ctx context.Context, userID string, page, limit int) (*catalog.Page, error)
	IsFavorite(ctx context.Context, wordID, userID string) (bool, error)
}

// ModerationCatalog serves the admin review routes.
type ModerationCatalog interface {
	ListPending(ctx context.Context, page, limit int) (*catalog.Page, error)
	SetStatusBy(ctx context.Context, id string, status entities.WordStatus, actorID string) (*entities.WordEntry, error)
}

// EntryHistory returns the audit trail of one entry.
type EntryHistory interface {
	GetEntryHistory(ctx context.Context, entryID string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// CategoryLister provides the category taxonomy.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

// StatusCounter reports how many entries sit in each moderation status.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[entities.WordStatus]int64, error)
}

// Pinger checks backing store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DictionaryLookup drafts entry details; *dictionary.Registry implements it.
type DictionaryLookup interface {
	Lookup(ctx context.Context, word, language string) (*dictionary.LookupResult, error)
	Languages() []string
}
