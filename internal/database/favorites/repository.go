// Package favorites provides database operations for per-user favorite records.
//
// Records reference word entries by id only. Removing an entry does not remove
// its records in the same transaction; see DeleteFavoritesByWord and
// FindOrphanWordIDs.
//
// # Usage
//
//	repo := favorites.NewRepository(db)
//	records, err := repo.ListFavorites(ctx, userID, 20, 0)
package favorites

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/database"
	"github.com/mrlokans/lexicon/internal/entities"
)

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindFavorite returns the record for the pair or nil.
func (r *Repository) FindFavorite(ctx context.Context, wordID, userID string) (*entities.FavoriteRecord, error) {
	var record entities.FavoriteRecord
	err := r.db.WithContext(ctx).
		Where("word_id = ? AND user_id = ?", wordID, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateFavorite inserts record. A concurrent insert of the same pair loses
// on the unique index and is reported as (false, nil).
func (r *Repository) CreateFavorite(ctx context.Context, record *entities.FavoriteRecord) (bool, error) {
	err := r.db.WithContext(ctx).Create(record).Error
	if database.IsDuplicateKey(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFavorite removes the pair and reports whether a record existed.
func (r *Repository) DeleteFavorite(ctx context.Context, wordID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("word_id = ? AND user_id = ?", wordID, userID).
		Delete(&entities.FavoriteRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFavorites returns a user's records, most recently added first.
func (r *Repository) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]entities.FavoriteRecord, error) {
	var records []entities.FavoriteRecord
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&records).Error
	return records, err
}

// CountFavorites returns the number of records a user has.
func (r *Repository) CountFavorites(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FavoriteRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// DeleteFavoritesByWord removes every record of an entry.
func (r *Repository) DeleteFavoritesByWord(ctx context.Context, wordID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("word_id = ?", wordID).
		Delete(&entities.FavoriteRecord{})
	return result.RowsAffected, result.Error
}

// FindOrphanWordIDs returns up to limit distinct word ids that have records
// but no longer exist as entries.
func (r *Repository) FindOrphanWordIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	entries := r.db.Model(&entities.WordEntry{}).Select("id")
	query := r.db.WithContext(ctx).Model(&entities.FavoriteRecord{}).
		Distinct("word_id").
		Where("word_id NOT IN (?)", entries).
		Order("word_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Pluck("word_id", &ids).Error
	return ids, err
}
