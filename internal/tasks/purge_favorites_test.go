package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enqueued struct {
	wait time.Duration
	task backlite.Task
}

type fakeQueue struct {
	mu    sync.Mutex
	saved []enqueued
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, wait time.Duration, tasks ...backlite.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	for _, task := range tasks {
		q.saved = append(q.saved, enqueued{wait: wait, task: task})
	}
	return nil
}

type fakePurger struct {
	calls   []string
	removed int64
	err     error
}

func (p *fakePurger) DeleteFavoritesByWord(_ context.Context, wordID string) (int64, error) {
	p.calls = append(p.calls, wordID)
	return p.removed, p.err
}

func newTestCascade(queue Enqueuer, purger FavoritePurger) *FavoritesCascade {
	cascade := NewFavoritesCascade(queue, purger, RetryPolicy{
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		MaxBackoff:  time.Minute,
	})
	cascade.SetLogger(quietLogger())
	return cascade
}

func TestSchedulePurgeFavorites(t *testing.T) {
	queue := &fakeQueue{}
	cascade := newTestCascade(queue, &fakePurger{})

	require.NoError(t, cascade.SchedulePurgeFavorites(context.Background(), "w1"))

	require.Len(t, queue.saved, 1)
	assert.Equal(t, 10*time.Second, queue.saved[0].wait)
	assert.Equal(t, PurgeFavoritesTask{WordID: "w1", Attempt: 1}, queue.saved[0].task)

	assert.Error(t, cascade.SchedulePurgeFavorites(context.Background(), ""))

	queue.err = errors.New("disk full")
	err := cascade.SchedulePurgeFavorites(context.Background(), "w2")
	assert.ErrorIs(t, err, queue.err)
}

func TestFavoritesCascadeProcess(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		queue := &fakeQueue{}
		purger := &fakePurger{removed: 4}
		cascade := newTestCascade(queue, purger)

		err := cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"w1"}, purger.calls)
		assert.Empty(t, queue.saved)
	})

	t.Run("failure reschedules next attempt", func(t *testing.T) {
		queue := &fakeQueue{}
		purger := &fakePurger{err: errors.New("locked")}
		cascade := newTestCascade(queue, purger)

		err := cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 2})
		require.NoError(t, err)
		require.Len(t, queue.saved, 1)
		assert.Equal(t, PurgeFavoritesTask{WordID: "w1", Attempt: 3}, queue.saved[0].task)
		assert.Equal(t, 40*time.Second, queue.saved[0].wait)
	})

	t.Run("last attempt fails the task", func(t *testing.T) {
		queue := &fakeQueue{}
		purger := &fakePurger{err: errors.New("locked")}
		cascade := newTestCascade(queue, purger)

		err := cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 3})
		assert.ErrorIs(t, err, purger.err)
		assert.Empty(t, queue.saved)
	})

	t.Run("reschedule failure is reported", func(t *testing.T) {
		queue := &fakeQueue{err: errors.New("queue closed")}
		purger := &fakePurger{err: errors.New("locked")}
		cascade := newTestCascade(queue, purger)

		err := cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 1})
		assert.ErrorIs(t, err, purger.err)
		assert.ErrorIs(t, err, queue.err)
	})

	t.Run("missing purger", func(t *testing.T) {
		cascade := newTestCascade(&fakeQueue{}, nil)
		assert.Error(t, cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 1}))
	})
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{Backoff: 30 * time.Second, MaxBackoff: 2 * time.Minute}

	assert.Equal(t, 30*time.Second, policy.Delay(0))
	assert.Equal(t, 30*time.Second, policy.Delay(1))
	assert.Equal(t, time.Minute, policy.Delay(2))
	assert.Equal(t, 2*time.Minute, policy.Delay(3))
	assert.Equal(t, 2*time.Minute, policy.Delay(50))

	uncapped := RetryPolicy{Backoff: time.Second}
	assert.Equal(t, 8*time.Second, uncapped.Delay(4))
}

func TestNewFavoritesCascade_AtLeastOneAttempt(t *testing.T) {
	queue := &fakeQueue{}
	purger := &fakePurger{err: errors.New("locked")}
	cascade := NewFavoritesCascade(queue, purger, RetryPolicy{})
	cascade.SetLogger(quietLogger())

	err := cascade.Process(context.Background(), PurgeFavoritesTask{WordID: "w1", Attempt: 1})
	assert.ErrorIs(t, err, purger.err)
	assert.Empty(t, queue.saved)
}
