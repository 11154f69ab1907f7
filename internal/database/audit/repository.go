// Package audit persists audit events.
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

const (
	defaultLimit = 50

	// SQLite holds the write lock for the whole statement, so large
	// prunes are split.
	pruneBatch = 500
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends event, stamping CreatedAt when unset.
func (r *Repository) Insert(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// List returns one page of events matching filter, newest first, and the
// number of matching events.
func (r *Repository) List(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditEvent{}, 0, nil
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	var events []entities.AuditEvent
	err := query.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(max(offset, 0)).
		Find(&events).Error
	return events, total, err
}

// DeleteBefore removes events created before cutoff and returns how many
// were removed.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		var ids []uint
		err := r.db.WithContext(ctx).Model(&entities.AuditEvent{}).
			Where("created_at < ?", cutoff).
			Order("id").
			Limit(pruneBatch).
			Pluck("id", &ids).Error
		if err != nil {
			return removed, err
		}
		if len(ids) == 0 {
			return removed, nil
		}
		result := r.db.WithContext(ctx).Delete(&entities.AuditEvent{}, ids)
		if result.Error != nil {
			return removed, result.Error
		}
		removed += result.RowsAffected
		if len(ids) < pruneBatch {
			return removed, nil
		}
	}
}
