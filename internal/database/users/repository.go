// Package users provides database operations for user management.
//
// API tokens are generated once and only their SHA-256 digest is stored.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, token, err := repo.CreateUser(ctx, "alice", "alice@example.com", entities.UserRoleAdmin)
//	user, err = repo.GetUserByToken(ctx, token)
package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/lexicon/internal/entities"
)

var ErrUsernameTaken = errors.New("username already taken")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a user and returns the plaintext token, which is not
// recoverable afterwards.
func (r *Repository) CreateUser(ctx context.Context, username, email string, role entities.UserRole) (*entities.User, string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	if role == "" {
		role = entities.UserRoleUser
	}

	user := &entities.User{
		Username:  username,
		Email:     email,
		Role:      role,
		TokenHash: HashToken(token),
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	return user, token, nil
}

// RotateToken replaces a user's token and returns the new plaintext value.
func (r *Repository) RotateToken(ctx context.Context, userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	result := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Update("token_hash", HashToken(token))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return token, nil
}

// GetUserByToken returns the user owning token, or nil.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.first(ctx, "token_hash = ?", HashToken(token))
}

// GetUserByID returns the user or nil.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetUserByUsername returns the user or nil.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsernames maps the given ids to usernames. Unknown ids are omitted.
func (r *Repository) GetUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var users []entities.User
	if err := r.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

// ListUsers returns all users ordered by username.
func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// HashToken returns the stored form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
