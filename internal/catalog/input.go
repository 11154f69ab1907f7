package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/textnorm"
)

// EntryInput is a word entry submission. Any status carried by the payload is
// ignored: the initial status is decided by the caller's role.
type EntryInput struct {
	Word          string
	Language      string
	Pronunciation string
	Etymology     string
	CategoryID    string
	Meanings      []entities.Meaning
}

// EntryUpdate is a partial update; nil fields are left untouched.
// An empty CategoryID clears the category.
type EntryUpdate struct {
	Word          *string
	Language      *string
	Pronunciation *string
	Etymology     *string
	CategoryID    *string
	Meanings      *[]entities.Meaning
	Status        *entities.WordStatus
}

func (in EntryInput) toEntry() (*entities.WordEntry, error) {
	word := textnorm.Collapse(in.Word)
	if word == "" {
		return nil, invalidEntry("word is required")
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		return nil, invalidEntry("language is required")
	}

	category, err := normalizeCategory(in.CategoryID)
	if err != nil {
		return nil, err
	}

	meanings, err := normalizeMeanings(in.Meanings)
	if err != nil {
		return nil, err
	}

	return &entities.WordEntry{
		Word:          word,
		Language:      language,
		WordKey:       textnorm.Fold(word),
		Pronunciation: strings.TrimSpace(in.Pronunciation),
		Etymology:     strings.TrimSpace(in.Etymology),
		CategoryID:    category,
		Meanings:      meanings,
	}, nil
}

func normalizeCategory(id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	canonical := IDOf(id)
	return &canonical, nil
}

// normalizeMeanings validates required fields, assigns positions, converts
// definition markup to plain text and computes folded search keys. The input
// slice is not modified.
func normalizeMeanings(in []entities.Meaning) ([]entities.Meaning, error) {
	out := make([]entities.Meaning, 0, len(in))
	for i, m := range in {
		pos := strings.TrimSpace(m.PartOfSpeech)
		if pos == "" {
			return nil, invalidEntry("part of speech is required")
		}

		definitions := make([]entities.Definition, 0, len(m.Definitions))
		for j, d := range m.Definitions {
			text := textnorm.PlainText(d.Definition)
			if text == "" {
				return nil, invalidEntry("definition text is required")
			}
			definitions = append(definitions, entities.Definition{
				Position:      j,
				Definition:    text,
				DefinitionKey: textnorm.Fold(text),
				Examples:      uniqueStrings(d.Examples),
				SourceURL:     strings.TrimSpace(d.SourceURL),
			})
		}

		phonetics := make(entities.PhoneticList, 0, len(m.Phonetics))
		for _, p := range m.Phonetics {
			if text := strings.TrimSpace(p.Text); text != "" {
				phonetics = append(phonetics, entities.Phonetic{
					Text:      text,
					Audio:     strings.TrimSpace(p.Audio),
					SourceURL: strings.TrimSpace(p.SourceURL),
				})
			}
		}

		out = append(out, entities.Meaning{
			Position:     i,
			PartOfSpeech: pos,
			Definitions:  definitions,
			Synonyms:     uniqueStrings(m.Synonyms),
			Antonyms:     uniqueStrings(m.Antonyms),
			Examples:     uniqueStrings(m.Examples),
			Phonetics:    phonetics,
		})
	}
	return out, nil
}

func uniqueStrings(values []string) entities.StringList {
	cleaned := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = textnorm.Collapse(v)
		return v, v != ""
	})
	return entities.StringList(lo.Uniq(cleaned))
}
