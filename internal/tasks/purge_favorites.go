package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// FavoritePurger removes every favorite that points at a word.
type FavoritePurger interface {
	DeleteFavoritesByWord(ctx context.Context, wordID string) (int64, error)
}

// PurgeFavoritesTask deletes the favorites left behind by a removed word.
type PurgeFavoritesTask struct {
	WordID  string `json:"word_id"`
	Attempt int    `json:"attempt"`
}

// Config returns the queue configuration for favorites purge tasks.
// Retries are driven by FavoritesCascade so that backoff follows its RetryPolicy.
func (t PurgeFavoritesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_favorites",
		MaxAttempts: 1,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FavoritesCascade finishes word removal in the background when the
// synchronous favorites cleanup fails.
type FavoritesCascade struct {
	queue  Enqueuer
	purger FavoritePurger
	policy RetryPolicy
	logger logrus.FieldLogger
}

func NewFavoritesCascade(queue Enqueuer, purger FavoritePurger, policy RetryPolicy) *FavoritesCascade {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &FavoritesCascade{
		queue:  queue,
		purger: purger,
		policy: policy,
		logger: logrus.StandardLogger(),
	}
}

func (c *FavoritesCascade) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		c.logger = logger
	}
}

// SchedulePurgeFavorites enqueues the first purge attempt for wordID.
func (c *FavoritesCascade) SchedulePurgeFavorites(ctx context.Context, wordID string) error {
	if wordID == "" {
		return errors.New("schedule purge: empty word id")
	}
	if err := c.queue.Enqueue(ctx, c.policy.Delay(1), PurgeFavoritesTask{WordID: wordID, Attempt: 1}); err != nil {
		return fmt.Errorf("schedule purge for %s: %w", wordID, err)
	}
	return nil
}

// Process runs one purge attempt and reschedules it until the policy's
// attempts are spent.
func (c *FavoritesCascade) Process(ctx context.Context, task PurgeFavoritesTask) error {
	if c.purger == nil {
		return fmt.Errorf("favorite purger not configured")
	}

	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}

	log := c.logger.WithFields(logrus.Fields{"word_id": task.WordID, "attempt": task.Attempt})

	removed, err := c.purger.DeleteFavoritesByWord(ctx, task.WordID)
	if err == nil {
		log.WithField("removed", removed).Info("purged favorites of removed word")
		return nil
	}

	if task.Attempt >= c.policy.MaxAttempts {
		log.WithError(err).Error("giving up on favorites purge, leaving it to the orphan sweep")
		return fmt.Errorf("purge favorites of %s: %w", task.WordID, err)
	}

	next := PurgeFavoritesTask{WordID: task.WordID, Attempt: task.Attempt + 1}
	if enqueueErr := c.queue.Enqueue(context.WithoutCancel(ctx), c.policy.Delay(next.Attempt), next); enqueueErr != nil {
		log.WithError(enqueueErr).Error("failed to reschedule favorites purge")
		return errors.Join(err, enqueueErr)
	}
	log.WithError(err).WithField("retry_in", c.policy.Delay(next.Attempt)).Warn("favorites purge failed, rescheduled")
	return nil
}

// NewPurgeFavoritesQueue creates a backlite queue for favorites purge tasks.
func NewPurgeFavoritesQueue(cascade *FavoritesCascade) backlite.Queue {
	return backlite.NewQueue[PurgeFavoritesTask](cascade.Process)
}
