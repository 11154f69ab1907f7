package config

const (
	// DefaultDatabasePath is the default path for the SQLite dictionary database
	DefaultDatabasePath = "./lexicon.db"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultCategories are created on first start when missing.
var DefaultCategories = []string{
	"General",
	"Animals",
	"Food",
	"Travel",
	"Business",
	"Science",
	"Slang",
}
