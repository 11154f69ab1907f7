package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// Enqueuer saves tasks to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, wait time.Duration, tasks ...backlite.Task) error
}

// Client runs lexicon's background queues on backlite. Queue state lives in
// its own SQLite file so the catalog database can be Postgres.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	logger   logrus.FieldLogger
	running  atomic.Bool
}

// TasksDBPath derives the queue file from the catalog database path,
// e.g. data/lexicon.db becomes data/lexicon-tasks.db.
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func NewClient(tasksDBPath string, cfg Config, logger logrus.FieldLogger) (*Client, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	workers := max(cfg.Workers, 1)

	db, err := openQueueDB(tasksDBPath, workers)
	if err != nil {
		return nil, fmt.Errorf("open task queue database: %w", err)
	}

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &queueLogger{logger: logger.WithField("component", "tasks")},
	})
	if err == nil {
		err = bl.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init task queue: %w", err)
	}

	return &Client{
		backlite: bl,
		db:       db,
		workers:  workers,
		logger:   logger,
	}, nil
}

// Register adds queues. Queues registered after Start are ignored by backlite.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// Start launches the workers without blocking. Later calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.logger.WithField("workers", c.workers).Info("task queue started")
	c.backlite.Start(ctx)
}

// Stop waits for in-flight tasks until ctx expires and reports whether they
// all finished.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.CompareAndSwap(true, false) {
		return true
	}
	if c.backlite.Stop(ctx) {
		c.logger.Info("task queue stopped")
		return true
	}
	c.logger.Warn("task queue stop timed out with tasks in flight")
	return false
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue saves tasks, delaying their execution by wait when positive.
func (c *Client) Enqueue(ctx context.Context, wait time.Duration, tasks ...backlite.Task) error {
	op := c.backlite.Add(tasks...).Ctx(ctx)
	if wait > 0 {
		op = op.Wait(wait)
	}
	_, err := op.Save()
	return err
}

// queueLogger adapts backlite's key/value logging onto logrus fields.
type queueLogger struct {
	logger logrus.FieldLogger
}

func (l *queueLogger) Info(message string, params ...any) {
	l.logger.WithFields(pairs(params)).Info(message)
}

func (l *queueLogger) Error(message string, params ...any) {
	l.logger.WithFields(pairs(params)).Error(message)
}

func pairs(params []any) logrus.Fields {
	fields := make(logrus.Fields, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		fields[fmt.Sprint(params[i])] = params[i+1]
	}
	if len(params)%2 == 1 {
		fields["extra"] = params[len(params)-1]
	}
	return fields
}
