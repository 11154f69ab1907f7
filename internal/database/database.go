package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/lexicon/internal/config"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Models lists every table the application owns, in migration order.
var Models = []any{
	&entities.User{},
	&entities.Category{},
	&entities.WordEntry{},
	&entities.Meaning{},
	&entities.Definition{},
	&entities.FavoriteRecord{},
	&entities.AuditEvent{},
}

type Database struct {
	DB     *gorm.DB
	logger logrus.FieldLogger
}

// NewDatabase opens the configured driver, migrates the schema and, when
// enabled, seeds the default categories.
func NewDatabase(cfg config.Database, logger *logrus.Logger, gormLogger gormlogger.Interface) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	if gormLogger == nil {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, logger: logger}
	if logger == nil {
		database.logger = logrus.StandardLogger()
	}

	if cfg.Seed {
		if err := database.SeedCategories(config.DefaultCategories); err != nil {
			return nil, fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	database.logger.WithField("driver", driverName(cfg)).Info("database initialized")
	return database, nil
}

func driverName(cfg config.Database) string {
	if cfg.Driver == "" {
		return config.DriverSQLite
	}
	return cfg.Driver
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case config.DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		// Foreign keys are off by default in SQLite; children are deleted
		// explicitly so the schema behaves the same on both drivers.
		return sqlite.Open(path + sqliteParams(path)), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("database dsn is required for postgres")
		}
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func sqliteParams(path string) string {
	if strings.Contains(path, "?") {
		return ""
	}
	return "?_busy_timeout=5000&_journal_mode=WAL"
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedCategories creates any of names that do not exist yet.
func (d *Database) SeedCategories(names []string) error {
	for _, name := range names {
		var existing entities.Category
		err := d.DB.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category := entities.Category{Name: name}
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", name, err)
			}
			d.logger.WithField("category", name).Debug("created category")
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique constraint violation. Drivers
// that do not translate errors are matched on their message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique_violation")
}
