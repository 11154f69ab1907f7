package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/lexicon/internal/entities"
)

// memStore is an in-memory EntryStore, FavoritesLedger, CategoryLookup and
// CreatorLookup. GetEntriesByIDs returns entries sorted by headword, never in
// request order, so callers cannot rely on store ordering.
type memStore struct {
	mu         sync.Mutex
	now        time.Time
	entries    map[string]entities.WordEntry
	favorites  []entities.FavoriteRecord
	categories map[string]string
	users      map[string]string
	nextFavID  uint

	createErr      error
	purgeErr       error
	listErr        error
}

func newMemStore() *memStore {
	return &memStore{
		now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		entries:    map[string]entities.WordEntry{},
		categories: map[string]string{},
		users:      map[string]string{},
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func copyEntry(e entities.WordEntry) *entities.WordEntry {
	e.Meanings = slices.Clone(e.Meanings)
	return &e
}

func (m *memStore) CreateEntry(_ context.Context, entry *entities.WordEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, e := range m.entries {
		if e.Word == entry.Word && e.Language == entry.Language {
			return ErrDuplicateEntry
		}
	}
	_ = entry.BeforeCreate(nil)
	entry.CreatedAt = m.tick()
	entry.UpdatedAt = entry.CreatedAt
	m.entries[entry.ID] = *copyEntry(*entry)
	return nil
}

func (m *memStore) GetEntryByID(_ context.Context, id string) (*entities.WordEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return copyEntry(e), nil
}

func (m *memStore) FindEntryByWord(_ context.Context, word, language string) (*entities.WordEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Word == word && e.Language == language {
			return copyEntry(e), nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateEntry(_ context.Context, entry *entities.WordEntry, replaceMeanings bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[entry.ID]
	if !ok {
		return errors.New("record not found")
	}
	updated := *copyEntry(*entry)
	if !replaceMeanings {
		updated.Meanings = current.Meanings
	}
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = m.tick()
	m.entries[entry.ID] = updated
	return nil
}

func (m *memStore) DeleteEntry(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return false, nil
	}
	delete(m.entries, id)
	return true, nil
}

func (m *memStore) ListEntries(_ context.Context, p Predicate, limit, offset int) ([]entities.WordEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var matched []entities.WordEntry
	for _, e := range m.entries {
		if p.Matches(&e) {
			matched = append(matched, *copyEntry(e))
		}
	}
	slices.SortFunc(matched, func(a, b entities.WordEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], total, nil
}

func (m *memStore) GetEntriesByIDs(_ context.Context, ids []string) ([]entities.WordEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.WordEntry
	for _, id := range ids {
		if e, ok := m.entries[id]; ok {
			out = append(out, *copyEntry(e))
		}
	}
	slices.SortFunc(out, func(a, b entities.WordEntry) int {
		if c := strings.Compare(a.Word, b.Word); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *memStore) FindFavorite(_ context.Context, wordID, userID string) (*entities.FavoriteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favorites {
		if f.WordID == wordID && f.UserID == userID {
			rec := f
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateFavorite(_ context.Context, record *entities.FavoriteRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favorites {
		if f.WordID == record.WordID && f.UserID == record.UserID {
			return false, nil
		}
	}
	m.nextFavID++
	record.ID = m.nextFavID
	m.favorites = append(m.favorites, *record)
	return true, nil
}

func (m *memStore) DeleteFavorite(_ context.Context, wordID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.favorites {
		if f.WordID == wordID && f.UserID == userID {
			m.favorites = slices.Delete(m.favorites, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListFavorites(_ context.Context, userID string, limit, offset int) ([]entities.FavoriteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []entities.FavoriteRecord
	for _, f := range m.favorites {
		if f.UserID == userID {
			mine = append(mine, f)
		}
	}
	slices.SortFunc(mine, func(a, b entities.FavoriteRecord) int {
		if c := b.AddedAt.Compare(a.AddedAt); c != 0 {
			return c
		}
		return int(b.ID) - int(a.ID)
	})
	if offset >= len(mine) {
		return nil, nil
	}
	return mine[offset:min(offset+limit, len(mine))], nil
}

func (m *memStore) CountFavorites(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, f := range m.favorites {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteFavoritesByWord(_ context.Context, wordID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.purgeErr != nil {
		return 0, m.purgeErr
	}
	kept := m.favorites[:0]
	var n int64
	for _, f := range m.favorites {
		if f.WordID == wordID {
			n++
			continue
		}
		kept = append(kept, f)
	}
	m.favorites = kept
	return n, nil
}

func (m *memStore) favoriteCount(wordID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.favorites {
		if f.WordID == wordID {
			n++
		}
	}
	return n
}

func (m *memStore) GetCategoriesByIDs(_ context.Context, ids []string) ([]entities.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Category
	for _, id := range ids {
		if name, ok := m.categories[id]; ok {
			out = append(out, entities.Category{ID: id, Name: name})
		}
	}
	return out, nil
}

func (m *memStore) GetUsernames(_ context.Context, ids []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for _, id := range ids {
		if name, ok := m.users[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type recordingScheduler struct {
	mu       sync.Mutex
	wordIDs  []string
	enriched []string
	err      error
}

func (r *recordingScheduler) ScheduleEnrichment(_ context.Context, wordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enriched = append(r.enriched, wordID)
	return r.err
}

func (r *recordingScheduler) SchedulePurgeFavorites(_ context.Context, wordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wordIDs = append(r.wordIDs, wordID)
	return r.err
}

type auditCall struct {
	userID    string
	eventType entities.AuditEventType
	action    string
	entryID   string
}

type recordingAuditor struct {
	mu    sync.Mutex
	calls []auditCall
}

func (r *recordingAuditor) LogEntryEvent(userID string, eventType entities.AuditEventType, action, entryID, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, auditCall{userID: userID, eventType: eventType, action: action, entryID: entryID})
}

func (r *recordingAuditor) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.action
	}
	return out
}
