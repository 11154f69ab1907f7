package favorites

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "favorites.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models...))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db, NewRepository(db)
}

func createWord(t *testing.T, db *gorm.DB, word string) string {
	t.Helper()
	entry := &entities.WordEntry{Word: word, Language: "en", Status: entities.WordStatusApproved}
	require.NoError(t, db.Create(entry).Error)
	return entry.ID
}

func addFavorite(t *testing.T, repo *Repository, wordID, userID string, at time.Time) {
	t.Helper()
	created, err := repo.CreateFavorite(context.Background(), &entities.FavoriteRecord{WordID: wordID, UserID: userID, AddedAt: at})
	require.NoError(t, err)
	require.True(t, created)
}

func TestRepository_CreateFavorite(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	word := createWord(t, db, "cat")
	user := uuid.NewString()

	addFavorite(t, repo, word, user, time.Now())

	created, err := repo.CreateFavorite(ctx, &entities.FavoriteRecord{WordID: word, UserID: user, AddedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.CountFavorites(ctx, user)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepository_CreateFavorite_Concurrent(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	word := createWord(t, db, "cat")
	user := uuid.NewString()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateFavorite(ctx, &entities.FavoriteRecord{WordID: word, UserID: user, AddedAt: time.Now()})
			if err != nil && !database.IsDuplicateKey(err) {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	count, err := repo.CountFavorites(ctx, user)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepository_FindAndDeleteFavorite(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	word := createWord(t, db, "cat")
	user := uuid.NewString()

	record, err := repo.FindFavorite(ctx, word, user)
	require.NoError(t, err)
	assert.Nil(t, record)

	addFavorite(t, repo, word, user, time.Now())

	record, err = repo.FindFavorite(ctx, word, user)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, word, record.WordID)

	deleted, err := repo.DeleteFavorite(ctx, word, user)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteFavorite(ctx, word, user)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_ListFavorites(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	user := uuid.NewString()
	other := uuid.NewString()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := createWord(t, db, "first")
	second := createWord(t, db, "second")
	third := createWord(t, db, "third")

	addFavorite(t, repo, second, user, base.Add(2*time.Hour))
	addFavorite(t, repo, first, user, base.Add(time.Hour))
	addFavorite(t, repo, third, user, base.Add(3*time.Hour))
	addFavorite(t, repo, first, other, base.Add(4*time.Hour))

	records, err := repo.ListFavorites(ctx, user, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, third, records[0].WordID)
	assert.Equal(t, second, records[1].WordID)
	assert.Equal(t, first, records[2].WordID)

	records, err = repo.ListFavorites(ctx, user, 2, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first, records[0].WordID)
}

func TestRepository_DeleteFavoritesByWord(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	cat := createWord(t, db, "cat")
	dog := createWord(t, db, "dog")

	for i := 0; i < 3; i++ {
		addFavorite(t, repo, cat, uuid.NewString(), time.Now())
	}
	keeper := uuid.NewString()
	addFavorite(t, repo, dog, keeper, time.Now())

	removed, err := repo.DeleteFavoritesByWord(ctx, cat)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	count, err := repo.CountFavorites(ctx, keeper)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepository_FindOrphanWordIDs(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)
	live := createWord(t, db, "live")
	gone := uuid.NewString()

	addFavorite(t, repo, live, uuid.NewString(), time.Now())
	addFavorite(t, repo, gone, uuid.NewString(), time.Now())
	addFavorite(t, repo, gone, uuid.NewString(), time.Now())

	ids, err := repo.FindOrphanWordIDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{gone}, ids)
}
