// Package catalog implements the dictionary's business rules: entry lifecycle,
// moderation, search and per-user favorites. Persistence is reached only
// through the interfaces in interfaces.go.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/textnorm"
)

// Service is stateless between calls; it is safe for concurrent use once its
// optional collaborators have been set.
type Service struct {
	entries    EntryStore
	favorites  FavoritesLedger
	categories CategoryLookup
	creators   CreatorLookup

	cascade  CascadeScheduler
	enricher EnrichmentScheduler
	auditor  Auditor
	logger   logrus.FieldLogger
	clock    func() time.Time
	maxLimit int
}

// NewService creates a Service over the given stores.
func NewService(entries EntryStore, favorites FavoritesLedger, categories CategoryLookup, creators CreatorLookup) *Service {
	return &Service{
		entries:    entries,
		favorites:  favorites,
		categories: categories,
		creators:   creators,
		logger:     logrus.StandardLogger(),
		clock:      time.Now,
		maxLimit:   DefaultMaxLimit,
	}
}

// SetCascadeScheduler sets the retry path for favorites cleanup (optional).
func (s *Service) SetCascadeScheduler(scheduler CascadeScheduler) {
	s.cascade = scheduler
}

// SetEnrichmentScheduler enables pronunciation lookup for new entries (optional).
func (s *Service) SetEnrichmentScheduler(scheduler EnrichmentScheduler) {
	s.enricher = scheduler
}

// SetAuditor sets the audit sink (optional).
func (s *Service) SetAuditor(auditor Auditor) {
	s.auditor = auditor
}

func (s *Service) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// SetMaxLimit caps page sizes. Values below 1 keep the default.
func (s *Service) SetMaxLimit(limit int) {
	if limit > 0 {
		s.maxLimit = limit
	}
}

// Create stores a new entry submitted by caller. Admin submissions are
// approved immediately; everyone else's wait in pending.
func (s *Service) Create(ctx context.Context, in EntryInput, caller Caller) (*entities.WordEntry, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}

	entry, err := in.toEntry()
	if err != nil {
		return nil, err
	}

	existing, err := s.entries.FindEntryByWord(ctx, entry.Word, entry.Language)
	if err != nil {
		return nil, storeError("find entry by word", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEntry
	}

	creator := IDOf(caller.UserID)
	entry.CreatedBy = &creator
	entry.Status = entities.WordStatusPending
	if caller.IsAdmin() {
		entry.Status = entities.WordStatusApproved
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return nil, ErrDuplicateEntry
		}
		return nil, storeError("create entry", err)
	}

	s.logger.WithFields(logrus.Fields{
		"op":       "create",
		"entry_id": entry.ID,
		"user_id":  creator,
		"status":   entry.Status,
	}).Info("word entry created")
	s.audit(creator, entities.AuditEventCreate, "entry_create", entry.ID,
		fmt.Sprintf("Created %q (%s)", entry.Word, entry.Language))

	if entry.Pronunciation == "" && s.enricher != nil {
		if err := s.enricher.ScheduleEnrichment(ctx, entry.ID); err != nil {
			s.logger.WithError(err).WithField("entry_id", entry.ID).Warn("failed to schedule enrichment")
		}
	}

	if err := s.hydrate(ctx, []*entities.WordEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindOne returns a single entry regardless of its status.
func (s *Service) FindOne(ctx context.Context, id string) (*entities.WordEntry, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, []*entities.WordEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindAll pages through entries of one status, newest first. An empty status
// means approved.
func (s *Service) FindAll(ctx context.Context, page, limit int, status entities.WordStatus) (*Page, error) {
	if status == "" {
		status = entities.WordStatusApproved
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.list(ctx, StatusPredicate(status), clampPage(page, limit, s.maxLimit))
}

// GetFeatured returns the newest approved entries.
func (s *Service) GetFeatured(ctx context.Context, limit int) ([]entities.WordEntry, error) {
	if limit < 1 {
		limit = DefaultFeatured
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	words, _, err := s.entries.ListEntries(ctx, StatusPredicate(entities.WordStatusApproved), limit, 0)
	if err != nil {
		return nil, storeError("list featured entries", err)
	}
	if err := s.hydrateSlice(ctx, words); err != nil {
		return nil, err
	}
	if words == nil {
		words = []entities.WordEntry{}
	}
	return words, nil
}

// Search pages through approved entries matching criteria, newest first.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria) (*Page, error) {
	p, err := BuildSearchPredicate(criteria)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, p, clampPage(criteria.Page, criteria.Limit, s.maxLimit))
}

// Update applies a partial update. Only admins and the entry's creator may
// update; a non-admin's status change is dropped without error.
func (s *Service) Update(ctx context.Context, id string, upd EntryUpdate, caller Caller) (*entities.WordEntry, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}

	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(entry, caller) {
		return nil, ErrForbidden
	}

	log := s.logger.WithFields(logrus.Fields{
		"op":       "update",
		"entry_id": entry.ID,
		"user_id":  IDOf(caller.UserID),
	})

	if upd.Status != nil && !caller.IsAdmin() {
		log.WithField("requested_status", *upd.Status).Debug("dropping status change from non-admin")
		upd.Status = nil
	}

	keyChanged, err := applyUpdate(entry, upd)
	if err != nil {
		return nil, err
	}

	if keyChanged {
		other, err := s.entries.FindEntryByWord(ctx, entry.Word, entry.Language)
		if err != nil {
			return nil, storeError("find entry by word", err)
		}
		if other != nil && other.ID != entry.ID {
			return nil, ErrDuplicateEntry
		}
	}

	if err := s.entries.UpdateEntry(ctx, entry, upd.Meanings != nil); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return nil, ErrDuplicateEntry
		}
		return nil, storeError("update entry", err)
	}

	updated, err := s.load(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	log.Info("word entry updated")
	s.audit(IDOf(caller.UserID), entities.AuditEventUpdate, "entry_update", updated.ID,
		fmt.Sprintf("Updated %q (%s)", updated.Word, updated.Language))

	if err := s.hydrate(ctx, []*entities.WordEntry{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

// applyUpdate mutates entry in place and reports whether the (word, language)
// pair changed.
func applyUpdate(entry *entities.WordEntry, upd EntryUpdate) (bool, error) {
	keyChanged := false

	if upd.Word != nil {
		word := textnorm.Collapse(*upd.Word)
		if word == "" {
			return false, invalidEntry("word is required")
		}
		if word != entry.Word {
			entry.Word = word
			entry.WordKey = textnorm.Fold(word)
			keyChanged = true
		}
	}
	if upd.Language != nil {
		language := strings.TrimSpace(*upd.Language)
		if language == "" {
			return false, invalidEntry("language is required")
		}
		if language != entry.Language {
			entry.Language = language
			keyChanged = true
		}
	}
	if upd.Pronunciation != nil {
		entry.Pronunciation = strings.TrimSpace(*upd.Pronunciation)
	}
	if upd.Etymology != nil {
		entry.Etymology = strings.TrimSpace(*upd.Etymology)
	}
	if upd.CategoryID != nil {
		category, err := normalizeCategory(*upd.CategoryID)
		if err != nil {
			return false, err
		}
		entry.CategoryID = category
	}
	if upd.Meanings != nil {
		meanings, err := normalizeMeanings(*upd.Meanings)
		if err != nil {
			return false, err
		}
		entry.Meanings = meanings
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return false, ErrInvalidStatus
		}
		entry.Status = *upd.Status
	}
	return keyChanged, nil
}

// Remove deletes an entry, then every favorite pointing at it. The second step
// is not atomic with the first: when it fails the entry stays deleted and the
// cleanup is handed to the cascade scheduler.
func (s *Service) Remove(ctx context.Context, id string, caller Caller) (bool, error) {
	if err := caller.validate(); err != nil {
		return false, err
	}

	entry, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if !canModify(entry, caller) {
		return false, ErrForbidden
	}

	deleted, err := s.entries.DeleteEntry(ctx, entry.ID)
	if err != nil {
		return false, storeError("delete entry", err)
	}
	if !deleted {
		return false, ErrNotFound
	}

	log := s.logger.WithFields(logrus.Fields{
		"op":       "remove",
		"entry_id": entry.ID,
		"user_id":  IDOf(caller.UserID),
	})

	purged, err := s.favorites.DeleteFavoritesByWord(ctx, entry.ID)
	if err != nil {
		log.WithError(err).Warn("failed to remove favorites of deleted entry")
		s.scheduleCascade(ctx, entry.ID, log)
	} else {
		log = log.WithField("favorites_removed", purged)
	}

	log.Info("word entry deleted")
	s.audit(IDOf(caller.UserID), entities.AuditEventDelete, "entry_delete", entry.ID,
		fmt.Sprintf("Deleted %q (%s)", entry.Word, entry.Language))
	return true, nil
}

func (s *Service) scheduleCascade(ctx context.Context, wordID string, log logrus.FieldLogger) {
	if s.cascade == nil {
		log.Warn("no cascade scheduler configured; orphaned favorites left for the sweep")
		return
	}
	if err := s.cascade.SchedulePurgeFavorites(ctx, wordID); err != nil {
		log.WithError(err).Error("failed to schedule favorites cleanup")
	}
}

// load validates id and fetches the entry.
func (s *Service) load(ctx context.Context, id string) (*entities.WordEntry, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	entry, err := s.entries.GetEntryByID(ctx, IDOf(id))
	if err != nil {
		return nil, storeError("get entry", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *Service) list(ctx context.Context, p Predicate, req pageRequest) (*Page, error) {
	words, total, err := s.entries.ListEntries(ctx, p, req.limit, req.offset())
	if err != nil {
		return nil, storeError("list entries", err)
	}
	if err := s.hydrateSlice(ctx, words); err != nil {
		return nil, err
	}
	return newPage(words, total, req), nil
}

func (s *Service) hydrateSlice(ctx context.Context, words []entities.WordEntry) error {
	ptrs := make([]*entities.WordEntry, len(words))
	for i := range words {
		ptrs[i] = &words[i]
	}
	return s.hydrate(ctx, ptrs)
}

// hydrate resolves category and creator display references in two bulk lookups.
func (s *Service) hydrate(ctx context.Context, words []*entities.WordEntry) error {
	if len(words) == 0 {
		return nil
	}

	categoryIDs := lo.Uniq(lo.FilterMap(words, func(w *entities.WordEntry, _ int) (string, bool) {
		id := IDOf(w.CategoryID)
		return id, id != ""
	}))
	creatorIDs := lo.Uniq(lo.FilterMap(words, func(w *entities.WordEntry, _ int) (string, bool) {
		id := IDOf(w.CreatedBy)
		return id, id != ""
	}))

	names := map[string]string{}
	if len(categoryIDs) > 0 && s.categories != nil {
		categories, err := s.categories.GetCategoriesByIDs(ctx, categoryIDs)
		if err != nil {
			return storeError("get categories", err)
		}
		for _, c := range categories {
			names[IDOf(c.ID)] = c.Name
		}
	}

	usernames := map[string]string{}
	if len(creatorIDs) > 0 && s.creators != nil {
		found, err := s.creators.GetUsernames(ctx, creatorIDs)
		if err != nil {
			return storeError("get usernames", err)
		}
		for id, name := range found {
			usernames[IDOf(id)] = name
		}
	}

	for _, w := range words {
		if id := IDOf(w.CategoryID); id != "" {
			if name, ok := names[id]; ok {
				w.Category = &entities.CategoryRef{ID: id, Name: name}
			}
		}
		if id := IDOf(w.CreatedBy); id != "" {
			if name, ok := usernames[id]; ok {
				w.Creator = &entities.CreatorRef{ID: id, Username: name}
			}
		}
	}
	return nil
}

func (s *Service) audit(userID string, eventType entities.AuditEventType, action, entryID, description string) {
	if s.auditor != nil {
		s.auditor.LogEntryEvent(userID, eventType, action, entryID, description)
	}
}
