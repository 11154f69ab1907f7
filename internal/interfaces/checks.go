package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/database"
	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/database/categories"
	"github.com/mrlokans/lexicon/internal/database/entries"
	"github.com/mrlokans/lexicon/internal/database/favorites"
	"github.com/mrlokans/lexicon/internal/database/users"
	"github.com/mrlokans/lexicon/internal/dictionary"
	"github.com/mrlokans/lexicon/internal/http"
	"github.com/mrlokans/lexicon/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.EntryStore = (*entries.Repository)(nil)
var _ catalog.FavoritesLedger = (*favorites.Repository)(nil)
var _ catalog.CategoryLookup = (*categories.Repository)(nil)
var _ catalog.CreatorLookup = (*users.Repository)(nil)

var _ audit.Store = (*auditrepo.Repository)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ catalog.CascadeScheduler = (*tasks.FavoritesCascade)(nil)
var _ catalog.Auditor = (*audit.Service)(nil)

var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ tasks.FavoritePurger = (*favorites.Repository)(nil)
var _ tasks.OrphanStore = (*favorites.Repository)(nil)
var _ tasks.SweepReporter = (*audit.Service)(nil)
var _ tasks.AuditPruner = (*audit.Service)(nil)

var _ catalog.EnrichmentScheduler = (*tasks.PronunciationScheduler)(nil)
var _ tasks.PronunciationStore = (*entries.Repository)(nil)
var _ tasks.Lookuper = (*dictionary.Registry)(nil)

// =============================================================================
// Dictionaries
// =============================================================================

var _ dictionary.Client = (*dictionary.FreeDictionaryClient)(nil)
var _ dictionary.Client = (*dictionary.ReadingClient)(nil)

// =============================================================================
// HTTP
// =============================================================================

var _ http.WordCatalog = (*catalog.Service)(nil)
var _ http.FavoritesCatalog = (*catalog.Service)(nil)
var _ http.ModerationCatalog = (*catalog.Service)(nil)
var _ http.EntryHistory = (*audit.Service)(nil)
var _ http.CategoryLister = (*categories.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.StatusCounter = (*entries.Repository)(nil)
var _ http.DictionaryLookup = (*dictionary.Registry)(nil)

var _ auth.TokenValidator = (*users.Repository)(nil)
