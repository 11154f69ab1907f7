package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/entities"
)

func TestService_AddFavorite(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	entry := mustCreate(t, svc, entryInput("cat", "en"), newCaller(RoleAdmin))
	user := uuid.NewString()

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))
		require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))
		require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))

		assert.Equal(t, 1, store.favoriteCount(entry.ID))

		page, err := svc.ListFavorites(ctx, user, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
	})

	t.Run("errors", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddFavorite(ctx, entry.ID, ""), ErrInvalidCaller)
		assert.ErrorIs(t, svc.AddFavorite(ctx, "word", user), ErrInvalidID)
		assert.ErrorIs(t, svc.AddFavorite(ctx, uuid.NewString(), user), ErrNotFound)
	})
}

func TestService_RemoveFavorite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	entry := mustCreate(t, svc, entryInput("cat", "en"), newCaller(RoleAdmin))
	user := uuid.NewString()

	removed, err := svc.RemoveFavorite(ctx, entry.ID, user)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))

	removed, err = svc.RemoveFavorite(ctx, entry.ID, user)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFavorite(ctx, entry.ID, user)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveFavorite(ctx, "garbage", user)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestService_ListFavorites(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	admin := newCaller(RoleAdmin)
	user := uuid.NewString()

	var added []string
	for _, w := range []string{"alpha", "bravo", "charlie", "delta"} {
		entry := mustCreate(t, svc, entryInput(w, "en"), admin)
		require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))
		added = append(added, entry.ID)
	}
	require.NoError(t, svc.AddFavorite(ctx, added[0], uuid.NewString()))

	storeIDs := func(ids []string) []string {
		found, err := store.GetEntriesByIDs(ctx, ids)
		require.NoError(t, err)
		out := make([]string, 0, len(found))
		for _, e := range found {
			out = append(out, e.ID)
		}
		return out
	}

	t.Run("most recently added first despite store order", func(t *testing.T) {
		want := []string{added[3], added[2], added[1], added[0]}
		require.NotEqual(t, want, storeIDs(want), "store must not echo request order")

		page, err := svc.ListFavorites(ctx, user, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		assert.Equal(t, 1, page.TotalPages)

		got := make([]string, 0, len(page.Words))
		for _, w := range page.Words {
			got = append(got, w.ID)
		}
		assert.Equal(t, want, got)
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := svc.ListFavorites(ctx, user, 2, 3)
		require.NoError(t, err)
		require.Len(t, page.Words, 1)
		assert.Equal(t, "alpha", page.Words[0].Word)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("skips entries that no longer exist", func(t *testing.T) {
		store.mu.Lock()
		delete(store.entries, added[2])
		store.mu.Unlock()
		require.Equal(t, []string{added[0], added[1], added[3]}, storeIDs([]string{added[3], added[2], added[1], added[0]}))

		page, err := svc.ListFavorites(ctx, user, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		require.Len(t, page.Words, 3)
		assert.Equal(t, "delta", page.Words[0].Word)
		assert.Equal(t, "bravo", page.Words[1].Word)
		assert.Equal(t, "alpha", page.Words[2].Word)
	})

	t.Run("empty and invalid users", func(t *testing.T) {
		page, err := svc.ListFavorites(ctx, uuid.NewString(), 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Words)
		assert.Zero(t, page.Total)

		_, err = svc.ListFavorites(ctx, "", 1, 10)
		assert.ErrorIs(t, err, ErrInvalidCaller)
	})
}

func TestService_IsFavorite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	entry := mustCreate(t, svc, entryInput("cat", "en"), newCaller(RoleAdmin))
	user := uuid.NewString()

	fav, err := svc.IsFavorite(ctx, entry.ID, user)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, svc.AddFavorite(ctx, entry.ID, user))

	fav, err = svc.IsFavorite(ctx, entry.ID, user)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = svc.IsFavorite(ctx, "not-an-id", user)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavoriteScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	userA := newCaller(RoleUser)
	userB := newCaller(RoleUser)

	entry, err := svc.Create(ctx, entryInput("bonjour", "fr", "hello"), userA)
	require.NoError(t, err)
	assert.Equal(t, entities.WordStatusPending, entry.Status)

	approved, err := svc.SetStatus(ctx, entry.ID, entities.WordStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entities.WordStatusApproved, approved.Status)

	page, err := svc.FindAll(ctx, 1, 10, entities.WordStatusApproved)
	require.NoError(t, err)
	require.Len(t, page.Words, 1)
	assert.Equal(t, entry.ID, page.Words[0].ID)

	require.NoError(t, svc.AddFavorite(ctx, entry.ID, userB.UserID))

	favorites, err := svc.ListFavorites(ctx, userB.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, favorites.Words, 1)
	assert.Equal(t, entry.ID, favorites.Words[0].ID)
	assert.Equal(t, "bonjour", favorites.Words[0].Word)
}
