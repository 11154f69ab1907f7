// Package dictionary looks words up in external dictionaries to draft
// pronunciations and meanings for catalog entries.
package dictionary

import (
	"context"
	"errors"
	"strings"

	"github.com/mrlokans/lexicon/internal/entities"
)

var (
	ErrEmptyWord           = errors.New("empty word")
	ErrWordNotFound        = errors.New("word not found")
	ErrUnsupportedLanguage = errors.New("no dictionary for language")
)

// LookupResult is a draft of what a dictionary knows about a word. Meanings
// are not persisted and carry no ids.
type LookupResult struct {
	Word          string             `json:"word"`
	Language      string             `json:"language"`
	Pronunciation string             `json:"pronunciation,omitempty"`
	AudioURL      string             `json:"audio_url,omitempty"`
	Meanings      []entities.Meaning `json:"meanings,omitempty"`
	Sources       []string           `json:"sources"`
}

// Client defines the interface for dictionary providers.
type Client interface {
	Lookup(ctx context.Context, word, language string) (*LookupResult, error)
	Name() string
}

// Languages are compared case-insensitively, ignoring any region suffix.
func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return language
}
