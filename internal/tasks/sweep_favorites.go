package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// OrphanStore finds and removes favorites whose word no longer exists.
type OrphanStore interface {
	FindOrphanWordIDs(ctx context.Context, limit int) ([]string, error)
	DeleteFavoritesByWord(ctx context.Context, wordID string) (int64, error)
}

// SweepReporter records the outcome of a sweep.
type SweepReporter interface {
	LogSweep(words int, favoritesRemoved int64, err error)
}

// SweepResult summarises one orphan sweep.
type SweepResult struct {
	Words   int
	Removed int64
}

// SweepOrphanFavorites deletes favorites pointing at missing words, in
// batches of batchSize, until none are left or ctx is done.
func SweepOrphanFavorites(ctx context.Context, store OrphanStore, batchSize int) (SweepResult, error) {
	var result SweepResult
	if batchSize < 1 {
		batchSize = 500
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ids, err := store.FindOrphanWordIDs(ctx, batchSize)
		if err != nil {
			return result, fmt.Errorf("find orphan favorites: %w", err)
		}
		if len(ids) == 0 {
			return result, nil
		}

		for _, id := range ids {
			removed, err := store.DeleteFavoritesByWord(ctx, id)
			if err != nil {
				return result, fmt.Errorf("delete favorites of %s: %w", id, err)
			}
			result.Words++
			result.Removed += removed
		}

		if len(ids) < batchSize {
			return result, nil
		}
	}
}

// SweepOrphanFavoritesTask runs SweepOrphanFavorites in the background.
type SweepOrphanFavoritesTask struct {
	BatchSize int `json:"batch_size"`
}

// Config returns the queue configuration for orphan sweep tasks.
func (t SweepOrphanFavoritesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_orphan_favorites",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepOrphanFavoritesProcessor creates a processor function for SweepOrphanFavoritesTask.
func SweepOrphanFavoritesProcessor(store OrphanStore, reporter SweepReporter, logger logrus.FieldLogger) backlite.QueueProcessor[SweepOrphanFavoritesTask] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(ctx context.Context, task SweepOrphanFavoritesTask) error {
		if store == nil {
			return fmt.Errorf("orphan store not configured")
		}

		result, err := SweepOrphanFavorites(ctx, store, task.BatchSize)
		if reporter != nil && (err != nil || result.Words > 0) {
			reporter.LogSweep(result.Words, result.Removed, err)
		}
		if err != nil {
			return fmt.Errorf("sweep orphan favorites: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"words":   result.Words,
			"removed": result.Removed,
		}).Info("orphan favorites sweep complete")
		return nil
	}
}

// NewSweepOrphanFavoritesQueue creates a backlite queue for orphan sweep tasks.
func NewSweepOrphanFavoritesQueue(store OrphanStore, reporter SweepReporter, logger logrus.FieldLogger) backlite.Queue {
	return backlite.NewQueue(SweepOrphanFavoritesProcessor(store, reporter, logger))
}
