package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/entities"
)

const (
	entityWordEntry = "word_entry"
	entityFavorite  = "favorite"

	asyncWriteTimeout = 5 * time.Second
)

// Store persists audit events.
type Store interface {
	Insert(ctx context.Context, event *entities.AuditEvent) error
	List(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service records catalog changes and maintenance runs. Writes triggered by
// request handling happen in the background so a slow audit table never
// delays a response.
type Service struct {
	store   Store
	logger  logrus.FieldLogger
	now     func() time.Time
	pending sync.WaitGroup
}

func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
}

func (s *Service) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		s.logger = logger
	}
}

// Record writes event synchronously.
func (s *Service) Record(ctx context.Context, event *entities.AuditEvent) error {
	return s.store.Insert(ctx, event)
}

// RecordAsync writes event in the background. Failures are logged.
func (s *Service) RecordAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()
		if err := s.store.Insert(ctx, event); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"action":    event.Action,
				"entity_id": event.EntityID,
			}).Warn("audit write failed")
		}
	}()
}

// Wait blocks until every RecordAsync write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogEntryEvent records a change to a word entry made by actorID.
func (s *Service) LogEntryEvent(actorID string, eventType entities.AuditEventType, action, entryID, description string) {
	event := &entities.AuditEvent{
		ActorID:    actorID,
		EventType:  eventType,
		Action:     action,
		EntityType: entityWordEntry,
		Status:     entities.AuditStatusSuccess,
	}
	if entryID != "" {
		event.EntityID = &entryID
	}
	s.RecordAsync(event.Describe(description))
}

// LogSweep records a run of the orphaned favorites sweep.
func (s *Service) LogSweep(words int, favoritesRemoved int64, err error) {
	event := &entities.AuditEvent{
		EventType:  entities.AuditEventSweep,
		Action:     "favorites_sweep",
		EntityType: entityFavorite,
		Status:     entities.AuditStatusSuccess,
	}
	event.Describe("Removed favorites of deleted word entries").
		Attach(map[string]any{
			"words":             words,
			"favorites_removed": favoritesRemoved,
		}).
		Fail(err)
	s.RecordAsync(event)
}

// Events lists events matching filter, newest first.
func (s *Service) Events(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.store.List(ctx, filter, limit, offset)
}

// GetEntryHistory lists the audit trail of one word entry, newest first.
func (s *Service) GetEntryHistory(ctx context.Context, entryID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.store.List(ctx, entities.AuditFilter{EntityType: entityWordEntry, EntityID: entryID}, limit, offset)
}

// Prune removes events older than retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteBefore(ctx, s.now().Add(-retention))
}
