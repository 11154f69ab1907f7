package config

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Log
		Catalog
		Tasks
		Sweep
		Audit
		Dictionary
		Auth
	}

	HTTP struct {
		Port           int32
		Host           string
		Mode           string   // gin mode: debug, release or test
		AllowedOrigins []string // CORS origins; empty disables CORS headers
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		Path   string // SQLite file path
		DSN    string // Postgres connection string
		Seed   bool   // Create default categories on start
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
	Catalog struct {
		MaxPageSize   int
		FeaturedLimit int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		MaxRetries      int
		RetryDelay      time.Duration
		MaxRetryDelay   time.Duration
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Sweep struct {
		Enabled   bool
		Schedule  string // Cron format: "*/30 * * * *" = every 30 minutes
		BatchSize int
	}
	Audit struct {
		RetentionDays int
		Schedule      string
	}
	Dictionary struct {
		Enabled     bool
		BaseURL     string   // Free Dictionary API endpoint
		Languages   []string // languages served by the Free Dictionary API
		Readings    bool     // offline Japanese readings
		Timeout     time.Duration
		MinInterval time.Duration // minimum gap between API calls
	}
	Auth struct {
		MaxFailures   int           // invalid tokens from one IP before lockout
		FailureWindow time.Duration // failures older than this are forgotten
		Lockout       time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_seed", true)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("catalog_max_page_size", 100)
	v.SetDefault("catalog_featured_limit", 6)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 5)
	v.SetDefault("task_retry_delay", "30s")
	v.SetDefault("task_timeout", "1m")
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_max_retry_delay", "10m")

	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_schedule", "*/30 * * * *")
	v.SetDefault("sweep_batch_size", 500)

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("cors_allowed_origins", "")

	v.SetDefault("auth_max_failures", 10)
	v.SetDefault("auth_failure_window", "15m")
	v.SetDefault("auth_lockout", "15m")

	v.SetDefault("dictionary_enabled", true)
	v.SetDefault("dictionary_base_url", "https://api.dictionaryapi.dev/api/v2/entries")
	v.SetDefault("dictionary_languages", "en")
	v.SetDefault("dictionary_readings", true)
	v.SetDefault("dictionary_timeout", "10s")
	v.SetDefault("dictionary_min_interval", "500ms")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
			Mode: v.GetString("GIN_MODE"),

			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: Database{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
			Seed:   v.GetBool("DATABASE_SEED"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Catalog: Catalog{
			MaxPageSize:   v.GetInt("CATALOG_MAX_PAGE_SIZE"),
			FeaturedLimit: v.GetInt("CATALOG_FEATURED_LIMIT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			MaxRetries:      v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:      v.GetDuration("TASK_RETRY_DELAY"),
			MaxRetryDelay:   v.GetDuration("TASK_MAX_RETRY_DELAY"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sweep: Sweep{
			Enabled:   v.GetBool("SWEEP_ENABLED"),
			Schedule:  v.GetString("SWEEP_SCHEDULE"),
			BatchSize: v.GetInt("SWEEP_BATCH_SIZE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
			Schedule:      v.GetString("AUDIT_SCHEDULE"),
		},
		Dictionary: Dictionary{
			Enabled:     v.GetBool("DICTIONARY_ENABLED"),
			BaseURL:     v.GetString("DICTIONARY_BASE_URL"),
			Languages:   splitList(v.GetString("DICTIONARY_LANGUAGES")),
			Readings:    v.GetBool("DICTIONARY_READINGS"),
			Timeout:     v.GetDuration("DICTIONARY_TIMEOUT"),
			MinInterval: v.GetDuration("DICTIONARY_MIN_INTERVAL"),
		},
		Auth: Auth{
			MaxFailures:   v.GetInt("AUTH_MAX_FAILURES"),
			FailureWindow: v.GetDuration("AUTH_FAILURE_WINDOW"),
			Lockout:       v.GetDuration("AUTH_LOCKOUT"),
		},
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}
