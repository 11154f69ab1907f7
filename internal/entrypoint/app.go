package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/audit"
	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/database"
	auditrepo "github.com/mrlokans/lexicon/internal/database/audit"
	"github.com/mrlokans/lexicon/internal/database/categories"
	"github.com/mrlokans/lexicon/internal/database/entries"
	"github.com/mrlokans/lexicon/internal/database/favorites"
	"github.com/mrlokans/lexicon/internal/database/users"
	"github.com/mrlokans/lexicon/internal/dictionary"
	http_controllers "github.com/mrlokans/lexicon/internal/http"
	"github.com/mrlokans/lexicon/internal/logging"
	"github.com/mrlokans/lexicon/internal/scheduler"
	"github.com/mrlokans/lexicon/internal/tasks"
)

const (
	jobSweepFavorites = "sweep_orphan_favorites"
	jobPruneAudit     = "prune_audit"
)

// App holds the wired application. Commands that only touch the database
// use NewApp and Close; the server additionally calls StartBackground.
type App struct {
	Config *config.Config
	Logger *logrus.Logger

	Database   *database.Database
	Entries    *entries.Repository
	Users      *users.Repository
	Categories *categories.Repository
	Favorites  *favorites.Repository
	Audit      *audit.Service
	Catalog    *catalog.Service

	// Dictionary is nil when lookups are disabled.
	Dictionary *dictionary.Registry

	tasks     *tasks.Client
	scheduler *scheduler.MaintenanceScheduler
}

// NewApp opens the database and wires the catalog with its collaborators.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(cfg.Database, logger, logging.GormLogger(logger))
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Logger:     logger,
		Database:   db,
		Entries:    entries.NewRepository(db.DB),
		Users:      users.NewRepository(db.DB),
		Categories: categories.NewRepository(db.DB),
		Favorites:  favorites.NewRepository(db.DB),
	}

	app.Audit = audit.NewService(auditrepo.NewRepository(db.DB))
	app.Audit.SetLogger(logger.WithField("component", "audit"))

	app.Catalog = catalog.NewService(
		app.Entries,
		app.Favorites,
		app.Categories,
		app.Users,
	)
	app.Catalog.SetAuditor(app.Audit)
	app.Catalog.SetLogger(logger.WithField("component", "catalog"))
	app.Catalog.SetMaxLimit(cfg.Catalog.MaxPageSize)

	app.Dictionary = newDictionary(cfg.Dictionary, logger)

	return app, nil
}

// newDictionary registers the offline reading client ahead of the Free
// Dictionary API so that Japanese readings win. It returns nil when no
// language is served.
func newDictionary(cfg config.Dictionary, logger logrus.FieldLogger) *dictionary.Registry {
	if !cfg.Enabled {
		return nil
	}
	registry := dictionary.NewRegistry()
	registry.SetLogger(logger.WithField("component", "dictionary"))
	if cfg.Readings {
		registry.Register(dictionary.NewReadingClient(), "ja")
	}
	if len(cfg.Languages) > 0 {
		registry.Register(dictionary.NewFreeDictionaryClient(cfg.BaseURL, cfg.Timeout, cfg.MinInterval), cfg.Languages...)
	}
	if len(registry.Languages()) == 0 {
		return nil
	}
	return registry
}

// Router builds the HTTP API over the wired services.
func (a *App) Router(version string) *gin.Engine {
	authMiddleware := auth.NewMiddleware(a.Users, auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     a.Config.Auth.MaxFailures,
		WindowDuration:  a.Config.Auth.FailureWindow,
		LockoutDuration: a.Config.Auth.Lockout,
	}))
	authMiddleware.SetLogger(a.Logger.WithField("component", "auth"))

	var dict http_controllers.DictionaryLookup
	if a.Dictionary != nil {
		dict = a.Dictionary
	}

	return http_controllers.NewRouter(http_controllers.RouterConfig{
		Words:          a.Catalog,
		Favorites:      a.Catalog,
		Moderation:     a.Catalog,
		History:        a.Audit,
		Categories:     a.Categories,
		Dictionary:     dict,
		Auth:           authMiddleware,
		Database:       a.Database,
		Entries:        a.Entries,
		Version:        version,
		AllowedOrigins: a.Config.HTTP.AllowedOrigins,
		FeaturedLimit:  a.Config.Catalog.FeaturedLimit,
		Logger:         a.Logger,
	})
}

// tasksDBPath places the queue database next to the SQLite catalog, or at
// the default location when the catalog lives in Postgres.
func tasksDBPath(cfg config.Database) string {
	path := cfg.Path
	if cfg.Driver == config.DriverPostgres || path == "" {
		path = config.DefaultDatabasePath
	}
	return tasks.TasksDBPath(filepath.Clean(path))
}

// StartBackground starts the task queue and the maintenance scheduler as
// configured. Both stop when ctx is cancelled or Close is called.
func (a *App) StartBackground(ctx context.Context) error {
	cfg := a.Config

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
			Cascade: tasks.RetryPolicy{
				MaxAttempts: cfg.Tasks.MaxRetries,
				Backoff:     cfg.Tasks.RetryDelay,
				MaxBackoff:  cfg.Tasks.MaxRetryDelay,
				Timeout:     cfg.Tasks.TaskTimeout,
			},
		}

		client, err := tasks.NewClient(tasksDBPath(cfg.Database), taskCfg, a.Logger)
		if err != nil {
			return fmt.Errorf("init task queue: %w", err)
		}
		a.tasks = client

		cascade := tasks.NewFavoritesCascade(client, a.Favorites, taskCfg.Cascade)
		cascade.SetLogger(a.Logger.WithField("component", "cascade"))

		client.Register(
			tasks.NewPurgeFavoritesQueue(cascade),
			tasks.NewSweepOrphanFavoritesQueue(a.Favorites, a.Audit, a.Logger),
			tasks.NewPruneAuditQueue(a.Audit, a.Logger),
		)
		a.Catalog.SetCascadeScheduler(cascade)

		if a.Dictionary != nil {
			client.Register(tasks.NewEnrichPronunciationQueue(a.Entries, a.Dictionary, a.Logger.WithField("component", "enrich")))
			a.Catalog.SetEnrichmentScheduler(tasks.NewPronunciationScheduler(client))
		}
		client.Start(ctx)
	} else {
		a.Logger.Warn("task queue disabled, failed favorites cleanup is left to the orphan sweep")
	}

	a.scheduler = scheduler.NewMaintenanceScheduler(a.Logger)
	if cfg.Sweep.Enabled {
		if err := a.scheduler.Add(scheduler.Job{
			Name:     jobSweepFavorites,
			Schedule: cfg.Sweep.Schedule,
			Run:      a.sweepJob,
		}); err != nil {
			return err
		}
	}
	if cfg.Audit.RetentionDays > 0 {
		if err := a.scheduler.Add(scheduler.Job{
			Name:     jobPruneAudit,
			Schedule: cfg.Audit.Schedule,
			Run:      a.auditPruneJob,
		}); err != nil {
			return err
		}
	}
	a.scheduler.Start(ctx)
	return nil
}

// sweepJob hands the sweep to the queue when it runs, or sweeps inline.
func (a *App) sweepJob(ctx context.Context) error {
	task := tasks.SweepOrphanFavoritesTask{BatchSize: a.Config.Sweep.BatchSize}
	if a.tasks != nil {
		return a.tasks.Enqueue(ctx, 0, task)
	}
	return tasks.SweepOrphanFavoritesProcessor(a.Favorites, a.Audit, a.Logger)(ctx, task)
}

func (a *App) auditPruneJob(ctx context.Context) error {
	task := tasks.PruneAuditTask{RetentionDays: a.Config.Audit.RetentionDays}
	if a.tasks != nil {
		return a.tasks.Enqueue(ctx, 0, task)
	}
	return tasks.PruneAuditProcessor(a.Audit, a.Logger)(ctx, task)
}

// Close stops background work and releases the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.tasks != nil {
		a.tasks.Stop(ctx)
		if err := a.tasks.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close task queue: %w", err))
		}
	}

	a.Audit.Wait()

	if err := a.Database.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
