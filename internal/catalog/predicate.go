package catalog

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mrlokans/lexicon/internal/entities"
	"github.com/mrlokans/lexicon/internal/textnorm"
)

// SearchCriteria is the caller-facing search request.
type SearchCriteria struct {
	Query         string
	Languages     []string
	Categories    []string
	PartsOfSpeech []string
	Page          int
	Limit         int
}

// Predicate is the store-agnostic filter an EntryStore renders into a query.
// Dimensions are AND-combined; values inside one set are OR-combined. An empty
// set or empty Text leaves that dimension unconstrained.
type Predicate struct {
	Status        entities.WordStatus
	Text          string // folded; matches the headword OR any definition
	Languages     []string
	CategoryIDs   []string
	PartsOfSpeech []string
}

// StatusPredicate restricts only by status.
func StatusPredicate(status entities.WordStatus) Predicate {
	return Predicate{Status: status}
}

// BuildSearchPredicate turns search criteria into a predicate. It has no side
// effects; a malformed category id yields ErrInvalidID.
func BuildSearchPredicate(c SearchCriteria) (Predicate, error) {
	p := Predicate{Status: entities.WordStatusApproved}

	if q := strings.TrimSpace(c.Query); q != "" {
		p.Text = textnorm.Fold(q)
	}

	p.Languages = cleanSet(c.Languages)
	p.PartsOfSpeech = cleanSet(c.PartsOfSpeech)

	categories := cleanSet(c.Categories)
	for i, id := range categories {
		if !ValidID(id) {
			return Predicate{}, ErrInvalidID
		}
		categories[i] = IDOf(id)
	}
	if len(categories) > 0 {
		p.CategoryIDs = lo.Uniq(categories)
	}

	return p, nil
}

// Matches evaluates the predicate against an entry in memory.
func (p Predicate) Matches(entry *entities.WordEntry) bool {
	if entry == nil {
		return false
	}
	if p.Status != "" && entry.Status != p.Status {
		return false
	}
	if p.Text != "" && !matchesText(entry, p.Text) {
		return false
	}
	if len(p.Languages) > 0 && !slices.Contains(p.Languages, entry.Language) {
		return false
	}
	if len(p.CategoryIDs) > 0 {
		category := IDOf(entry.CategoryID)
		if category == "" || !slices.Contains(p.CategoryIDs, category) {
			return false
		}
	}
	if len(p.PartsOfSpeech) > 0 {
		hit := lo.ContainsBy(entry.Meanings, func(m entities.Meaning) bool {
			return slices.Contains(p.PartsOfSpeech, m.PartOfSpeech)
		})
		if !hit {
			return false
		}
	}
	return true
}

func matchesText(entry *entities.WordEntry, folded string) bool {
	if strings.Contains(textnorm.Fold(entry.Word), folded) {
		return true
	}
	for _, m := range entry.Meanings {
		for _, d := range m.Definitions {
			if strings.Contains(textnorm.Fold(d.Definition), folded) {
				return true
			}
		}
	}
	return false
}

// cleanSet trims values, drops empties and duplicates, keeping first-seen order.
func cleanSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	out = lo.Uniq(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
