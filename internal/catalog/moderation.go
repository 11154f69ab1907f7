package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/entities"
)

var transitions = map[entities.WordStatus][]entities.WordStatus{
	entities.WordStatusPending: {entities.WordStatusApproved, entities.WordStatusRejected},
}

// CanTransition reports whether from -> to is part of the moderation workflow.
func CanTransition(from, to entities.WordStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ListPending pages through entries awaiting moderation, newest first.
func (s *Service) ListPending(ctx context.Context, page, limit int) (*Page, error) {
	return s.list(ctx, StatusPredicate(entities.WordStatusPending), clampPage(page, limit, s.maxLimit))
}

// SetStatus records a moderation decision made outside any user session,
// such as from the command line.
func (s *Service) SetStatus(ctx context.Context, id string, status entities.WordStatus) (*entities.WordEntry, error) {
	return s.SetStatusBy(ctx, id, status, "")
}

// SetStatusBy records a moderation decision taken by actorID. It performs no authorization; the
// caller is expected to have checked the moderator's role. Transitions
// outside the workflow are applied but logged.
func (s *Service) SetStatusBy(ctx context.Context, id string, status entities.WordStatus, actorID string) (*entities.WordEntry, error) {
	if status != entities.WordStatusApproved && status != entities.WordStatusRejected {
		return nil, ErrInvalidStatus
	}

	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"op":       "set_status",
		"entry_id": entry.ID,
		"from":     entry.Status,
		"to":       status,
	})
	if !CanTransition(entry.Status, status) {
		log.Warn("status change outside the moderation workflow")
	}

	previous := entry.Status
	entry.Status = status
	if err := s.entries.UpdateEntry(ctx, entry, false); err != nil {
		return nil, storeError("update entry status", err)
	}

	log.Info("word entry moderated")
	s.audit(IDOf(actorID), entities.AuditEventModeration, "entry_moderate", entry.ID,
		fmt.Sprintf("%q: %s -> %s", entry.Word, previous, status))

	if err := s.hydrate(ctx, []*entities.WordEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}
