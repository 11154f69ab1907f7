package tasks

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "lexicon-tasks.db"), TasksDBPath(filepath.Join("data", "lexicon.db")))
	assert.Equal(t, "lexicon-tasks", TasksDBPath("lexicon"))
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Workers = 1
	client, err := NewClient(TasksDBPath(filepath.Join(t.TempDir(), "lexicon.db")), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		client.Stop(ctx)
		client.Close()
	})
	return client
}

func TestNewClient_CreatesQueueDatabase(t *testing.T) {
	dir := t.TempDir()

	client, err := NewClient(TasksDBPath(filepath.Join(dir, "lexicon.db")), Config{}, quietLogger())
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 1, client.workers)
	_, err = os.Stat(filepath.Join(dir, "lexicon-tasks.db"))
	assert.NoError(t, err)
}

func TestClient_StopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type memoryPurger struct {
	purged chan string
}

func (p *memoryPurger) DeleteFavoritesByWord(_ context.Context, wordID string) (int64, error) {
	p.purged <- wordID
	return 1, nil
}

func TestClient_RunsFavoritesCascade(t *testing.T) {
	client := newTestClient(t)
	purger := &memoryPurger{purged: make(chan string, 1)}

	cascade := NewFavoritesCascade(client, purger, RetryPolicy{MaxAttempts: 2})
	cascade.SetLogger(quietLogger())
	client.Register(NewPurgeFavoritesQueue(cascade))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	client.Start(ctx)

	require.NoError(t, cascade.SchedulePurgeFavorites(ctx, "word-1"))

	select {
	case id := <-purger.purged:
		assert.Equal(t, "word-1", id)
	case <-time.After(5 * time.Second):
		t.Fatal("purge task was not executed")
	}
}

func TestClient_EnqueueDelayed(t *testing.T) {
	client := newTestClient(t)
	client.Register(NewSweepOrphanFavoritesQueue(nil, nil, quietLogger()))

	err := client.Enqueue(context.Background(), time.Hour, SweepOrphanFavoritesTask{BatchSize: 10})
	assert.NoError(t, err)
}

func TestQueueLoggerPairs(t *testing.T) {
	fields := pairs([]any{"queue", "purge_favorites", "attempt", 2, "dangling"})

	assert.Equal(t, logrus.Fields{
		"queue":   "purge_favorites",
		"attempt": 2,
		"extra":   "dangling",
	}, fields)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 5, cfg.Cascade.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Cascade.Delay(1))
	assert.Equal(t, 10*time.Minute, cfg.Cascade.Delay(10))
}

func TestTaskQueueConfigs(t *testing.T) {
	purge := PurgeFavoritesTask{}.Config()
	assert.Equal(t, "purge_favorites", purge.Name)
	assert.Equal(t, 1, purge.MaxAttempts)
	assert.NotNil(t, purge.Retention)

	sweep := SweepOrphanFavoritesTask{}.Config()
	assert.Equal(t, "sweep_orphan_favorites", sweep.Name)
	assert.Equal(t, 10*time.Minute, sweep.Timeout)

	prune := PruneAuditTask{}.Config()
	assert.Equal(t, "prune_audit", prune.Name)
	assert.Equal(t, 3, prune.MaxAttempts)

	enrich := EnrichPronunciationTask{}.Config()
	assert.Equal(t, "enrich_pronunciation", enrich.Name)
	assert.Equal(t, 3, enrich.MaxAttempts)
	assert.Equal(t, 30*time.Second, enrich.Backoff)
}
