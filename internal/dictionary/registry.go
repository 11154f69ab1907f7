package dictionary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Registry routes lookups to the clients registered for a language and merges
// their answers. Clients are consulted in registration order; the first
// non-empty pronunciation and the first non-empty meanings win.
type Registry struct {
	mu      sync.RWMutex
	clients map[string][]Client
	logger  logrus.FieldLogger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: map[string][]Client{},
		logger:  logrus.StandardLogger(),
	}
}

func (r *Registry) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		r.logger = logger
	}
}

// Register adds client for each of the given languages.
func (r *Registry) Register(client Client, languages ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lang := range languages {
		lang = normalizeLanguage(lang)
		if lang == "" {
			continue
		}
		r.clients[lang] = append(r.clients[lang], client)
	}
}

// Languages lists the languages with at least one client, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := lo.Keys(r.clients)
	sort.Strings(langs)
	return langs
}

// Supports reports whether any client serves language.
func (r *Registry) Supports(language string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[normalizeLanguage(language)]) > 0
}

// Lookup asks every client registered for language. It returns
// ErrWordNotFound only when every client reported the word missing; any other
// client failure is returned when nothing was found.
func (r *Registry) Lookup(ctx context.Context, word, language string) (*LookupResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	lang := normalizeLanguage(language)

	r.mu.RLock()
	clients := append([]Client(nil), r.clients[lang]...)
	r.mu.RUnlock()
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	var merged *LookupResult
	var failures []error
	for _, client := range clients {
		result, err := client.Lookup(ctx, word, lang)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, ErrWordNotFound) {
				r.logger.WithError(err).WithFields(logrus.Fields{
					"client":   client.Name(),
					"word":     word,
					"language": lang,
				}).Warn("dictionary lookup failed")
				failures = append(failures, fmt.Errorf("%s: %w", client.Name(), err))
			}
			continue
		}
		merged = merge(merged, result)
	}

	if merged != nil {
		return merged, nil
	}
	if len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
}

func merge(into, next *LookupResult) *LookupResult {
	if into == nil {
		out := *next
		out.Sources = append([]string(nil), next.Sources...)
		return &out
	}
	contributed := false
	if into.Pronunciation == "" && next.Pronunciation != "" {
		into.Pronunciation = next.Pronunciation
		contributed = true
	}
	if into.AudioURL == "" && next.AudioURL != "" {
		into.AudioURL = next.AudioURL
		contributed = true
	}
	if len(into.Meanings) == 0 && len(next.Meanings) > 0 {
		into.Meanings = next.Meanings
		contributed = true
	}
	if contributed {
		into.Sources = lo.Uniq(append(into.Sources, next.Sources...))
	}
	return into
}
