package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WordStatus string

const (
	WordStatusPending  WordStatus = "pending"
	WordStatusApproved WordStatus = "approved"
	WordStatusRejected WordStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s WordStatus) Valid() bool {
	switch s {
	case WordStatusPending, WordStatusApproved, WordStatusRejected:
		return true
	}
	return false
}

// WordEntry is one dictionary headword in one language.
// The (word, language) pair is unique.
type WordEntry struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Word          string     `gorm:"size:255;not null;uniqueIndex:idx_word_language" json:"word"`
	Language      string     `gorm:"size:16;not null;uniqueIndex:idx_word_language;index" json:"language"`
	WordKey       string     `gorm:"size:255;index" json:"-"` // folded headword used for matching
	Pronunciation string     `gorm:"size:255" json:"pronunciation,omitempty"`
	Etymology     string     `gorm:"type:text" json:"etymology,omitempty"`
	CategoryID    *string    `gorm:"size:36;index" json:"category_id,omitempty"`
	Meanings      []Meaning  `gorm:"foreignKey:EntryID" json:"meanings"`
	CreatedBy     *string    `gorm:"size:36;index" json:"created_by,omitempty"`
	Status        WordStatus `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Resolved at read time, never persisted.
	Category *CategoryRef `gorm:"-" json:"category,omitempty"`
	Creator  *CreatorRef  `gorm:"-" json:"creator,omitempty"`
}

func (WordEntry) TableName() string {
	return "word_entries"
}

// BeforeCreate assigns a fresh identifier when none was set.
func (w *WordEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// Meaning is one part-of-speech sense of an entry.
type Meaning struct {
	ID           uint         `gorm:"primaryKey" json:"-"`
	EntryID      string       `gorm:"size:36;index" json:"-"`
	Position     int          `json:"-"`
	PartOfSpeech string       `gorm:"size:50;not null;index" json:"part_of_speech"`
	Definitions  []Definition `gorm:"foreignKey:MeaningID" json:"definitions"`
	Synonyms     StringList   `gorm:"type:text" json:"synonyms"`
	Antonyms     StringList   `gorm:"type:text" json:"antonyms"`
	Examples     StringList   `gorm:"type:text" json:"examples"`
	Phonetics    PhoneticList `gorm:"type:text" json:"phonetics"`
}

func (Meaning) TableName() string {
	return "meanings"
}

type Definition struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	MeaningID     uint       `gorm:"index" json:"-"`
	EntryID       string     `gorm:"size:36;index" json:"-"` // denormalized for search subqueries
	Position      int        `json:"-"`
	Definition    string     `gorm:"type:text;not null" json:"definition"`
	DefinitionKey string     `gorm:"type:text" json:"-"`
	Examples      StringList `gorm:"type:text" json:"examples"`
	SourceURL     string     `gorm:"size:2048" json:"source_url,omitempty"`
}

func (Definition) TableName() string {
	return "definitions"
}

type Phonetic struct {
	Text      string `json:"text"`
	Audio     string `json:"audio,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// CategoryRef is the display projection of a Category attached to an entry.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatorRef is the display projection of the submitting user.
type CreatorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
