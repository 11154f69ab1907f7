// Package database provides the data access layer for the dictionary.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Driver selection, migrations, category seeding
//	├── entries/         # Word entries with their meanings and definitions
//	├── favorites/       # Per-user favorite records
//	├── categories/      # Category taxonomy lookups
//	├── users/           # Users and API tokens
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database, logger, nil)
//
//	entriesRepo := entries.NewRepository(db.DB)
//	favoritesRepo := favorites.NewRepository(db.DB)
//
//	svc := catalog.NewService(entriesRepo, favoritesRepo, categoriesRepo, usersRepo)
//
// # Interface Implementations
//
//   - entries.Repository: implements catalog.EntryStore
//   - favorites.Repository: implements catalog.FavoritesLedger
//   - categories.Repository: implements catalog.CategoryLookup
//   - users.Repository: implements catalog.CreatorLookup and auth.UserStore
//   - audit.Repository: implements audit.Store
//
// The checks live in internal/interfaces/checks.go.
//
// # Errors
//
// Connections are opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey on both SQLite and Postgres. Lookups of a single
// record return (nil, nil) when it does not exist.
package database
