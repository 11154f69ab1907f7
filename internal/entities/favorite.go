package entities

import "time"

// FavoriteRecord is a user's bookmark of a word entry. It is never mutated in
// place and does not follow the entry's lifecycle.
type FavoriteRecord struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	WordID  string    `gorm:"size:36;not null;uniqueIndex:idx_favorite_word_user;index" json:"word_id"`
	UserID  string    `gorm:"size:36;not null;uniqueIndex:idx_favorite_word_user;index:idx_favorite_user_added,priority:1" json:"user_id"`
	AddedAt time.Time `gorm:"not null;index:idx_favorite_user_added,priority:2" json:"added_at"`
}

func (FavoriteRecord) TableName() string {
	return "favorite_words"
}
