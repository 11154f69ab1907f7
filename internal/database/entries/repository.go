// Package entries provides database operations for word entries.
//
// An entry is stored across three tables: word_entries, meanings and
// definitions. Children carry a position column and are always read back in
// submission order. Definitions keep a denormalized entry_id so that search
// can reach them with a single subquery.
//
// # Usage
//
//	repo := entries.NewRepository(db)
//	words, total, err := repo.ListEntries(ctx, predicate, 10, 0)
package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/textnorm"
)

// Repository handles all word entry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new entries repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Meanings", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Meanings.Definitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		})
}

// CreateEntry inserts an entry with its meanings and definitions.
func (r *Repository) CreateEntry(ctx context.Context, entry *entities.WordEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	stampChildren(entry)

	err := r.db.WithContext(ctx).Create(entry).Error
	if database.IsDuplicateKey(err) {
		return fmt.Errorf("create entry: %w", catalog.ErrDuplicateEntry)
	}
	return err
}

// stampChildren points every definition at its entry.
func stampChildren(entry *entities.WordEntry) {
	for i := range entry.Meanings {
		entry.Meanings[i].ID = 0
		entry.Meanings[i].EntryID = entry.ID
		for j := range entry.Meanings[i].Definitions {
			entry.Meanings[i].Definitions[j].ID = 0
			entry.Meanings[i].Definitions[j].EntryID = entry.ID
		}
	}
}

// GetEntryByID returns the entry or nil when it does not exist.
func (r *Repository) GetEntryByID(ctx context.Context, id string) (*entities.WordEntry, error) {
	var entry entities.WordEntry
	err := withChildren(r.db.WithContext(ctx)).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryByWord returns the entry with exactly this (word, language) pair.
func (r *Repository) FindEntryByWord(ctx context.Context, word, language string) (*entities.WordEntry, error) {
	var entry entities.WordEntry
	err := r.db.WithContext(ctx).
		Where("word = ? AND language = ?", word, language).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry writes the entry's own columns. With replaceMeanings the stored
// meanings and definitions are replaced by entry.Meanings in one transaction.
func (r *Repository) UpdateEntry(ctx context.Context, entry *entities.WordEntry, replaceMeanings bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.WordEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]any{
				"word":          entry.Word,
				"language":      entry.Language,
				"word_key":      entry.WordKey,
				"pronunciation": entry.Pronunciation,
				"etymology":     entry.Etymology,
				"category_id":   entry.CategoryID,
				"status":        entry.Status,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !replaceMeanings {
			return nil
		}
		if err := deleteChildren(tx, entry.ID); err != nil {
			return err
		}
		stampChildren(entry)
		if len(entry.Meanings) == 0 {
			return nil
		}
		return tx.Create(&entry.Meanings).Error
	})
	if database.IsDuplicateKey(err) {
		return fmt.Errorf("update entry: %w", catalog.ErrDuplicateEntry)
	}
	return err
}

func deleteChildren(tx *gorm.DB, entryID string) error {
	if err := tx.Where("entry_id = ?", entryID).Delete(&entities.Definition{}).Error; err != nil {
		return err
	}
	return tx.Where("entry_id = ?", entryID).Delete(&entities.Meaning{}).Error
}

// DeleteEntry removes the entry and its children. It reports false when the
// entry did not exist.
func (r *Repository) DeleteEntry(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.WordEntry{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListEntries returns one page of entries matching p, newest first, and the
// total number of matches.
func (r *Repository) ListEntries(ctx context.Context, p catalog.Predicate, limit, offset int) ([]entities.WordEntry, int64, error) {
	var words []entities.WordEntry
	var total int64

	db := r.db.WithContext(ctx)
	if err := r.filter(db.Model(&entities.WordEntry{}), p).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := withChildren(r.filter(db, p)).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&words).Error
	return words, total, err
}

// filter renders a predicate as WHERE clauses. Text matches compare against
// the folded keys written at save time.
func (r *Repository) filter(query *gorm.DB, p catalog.Predicate) *gorm.DB {
	if p.Status != "" {
		query = query.Where("status = ?", p.Status)
	}
	if p.Text != "" {
		pattern := "%" + textnorm.EscapeLike(p.Text) + "%"
		definitions := r.db.Model(&entities.Definition{}).
			Select("entry_id").
			Where("definition_key LIKE ? ESCAPE '\\'", pattern)
		query = query.Where("(word_key LIKE ? ESCAPE '\\' OR id IN (?))", pattern, definitions)
	}
	if len(p.Languages) > 0 {
		query = query.Where("language IN ?", p.Languages)
	}
	if len(p.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", p.CategoryIDs)
	}
	if len(p.PartsOfSpeech) > 0 {
		meanings := r.db.Model(&entities.Meaning{}).
			Select("entry_id").
			Where("part_of_speech IN ?", p.PartsOfSpeech)
		query = query.Where("id IN (?)", meanings)
	}
	return query
}

// GetEntriesByIDs returns the existing entries among ids.
func (r *Repository) GetEntriesByIDs(ctx context.Context, ids []string) ([]entities.WordEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var words []entities.WordEntry
	err := withChildren(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&words).Error
	return words, err
}

// CountByStatus returns the number of entries per moderation status.
func (r *Repository) CountByStatus(ctx context.Context) (map[entities.WordStatus]int64, error) {
	var rows []struct {
		Status entities.WordStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entities.WordEntry{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[entities.WordStatus]int64{
		entities.WordStatusPending:  0,
		entities.WordStatusApproved: 0,
		entities.WordStatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SetPronunciationIfEmpty stores pronunciation unless the entry already has
// one. It reports whether a row changed.
func (r *Repository) SetPronunciationIfEmpty(ctx context.Context, id, pronunciation string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.WordEntry{}).
		Where("id = ? AND (pronunciation = '' OR pronunciation IS NULL)", id).
		Update("pronunciation", pronunciation)
	return result.RowsAffected > 0, result.Error
}
