// Package categories provides read access to the category taxonomy and the
// administrative operations used by the CLI.
package categories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

var ErrCategoryExists = errors.New("category already exists")

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCategoriesByIDs returns the categories that exist among ids.
func (r *Repository) GetCategoriesByIDs(ctx context.Context, ids []string) ([]entities.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []entities.Category
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateCategory adds a category with a unique name.
func (r *Repository) CreateCategory(ctx context.Context, name string) (*entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}
	category := &entities.Category{Name: name}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}
