// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog ports (internal/catalog/interfaces.go)
//
//   - EntryStore: word entries with their meanings and definitions
//   - FavoritesLedger: per-user bookmarks
//   - CategoryLookup: bulk category resolution for hydration
//   - CreatorLookup: bulk username resolution for hydration
//   - CascadeScheduler: optional retry of favorites cleanup after a delete
//   - Auditor: optional lifecycle event sink
//
// ## HTTP ports (internal/http/stores.go)
//
//   - WordCatalog, FavoritesCatalog, ModerationCatalog: slices of *catalog.Service
//   - EntryHistory, CategoryLister, Pinger, StatusCounter
//
// ## Background work (internal/tasks)
//
//   - Enqueuer: saves backlite tasks, implemented by *tasks.Client
//   - FavoritePurger, OrphanStore: favorites cleanup
//   - SweepReporter, AuditPruner: audit side of maintenance
//
// # Adding a New Store Driver
//
// Repositories take a *gorm.DB, so a new SQL driver only needs a dialector
// case in internal/database/database.go. A non-gorm store implements the
// catalog ports directly:
//
//	type RedisEntryStore struct { client *redis.Client }
//
//	func (s *RedisEntryStore) GetEntryByID(ctx context.Context, id string) (*entities.WordEntry, error)
//
//	var _ catalog.EntryStore = (*RedisEntryStore)(nil)
//
// Search must agree with catalog.Predicate.Matches; the entries repository
// tests show how to cross-check a store against it.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
