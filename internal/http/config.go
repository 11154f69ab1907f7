package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Catalog operations; *catalog.Service implements all three.
	Words      WordCatalog
	Favorites  FavoritesCatalog
	Moderation ModerationCatalog

	// Optional audit trail for the entry history route.
	History EntryHistory

	Categories CategoryLister

	// Optional external dictionary lookups.
	Dictionary DictionaryLookup

	// Authentication
	Auth *auth.Middleware

	// Health checks
	Database Pinger
	Entries  StatusCounter

	// Application info
	Version string

	// AllowedOrigins enables CORS for browser clients when non-empty.
	AllowedOrigins []string

	// FeaturedLimit is the default size of GET /api/words/featured.
	FeaturedLimit int

	Logger logrus.FieldLogger
}
