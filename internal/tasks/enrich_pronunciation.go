package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/dictionary"
	"github.com/mrlokans/lexicon/internal/entities"
)

// PronunciationStore reads entries and fills in missing pronunciations.
type PronunciationStore interface {
	GetEntryByID(ctx context.Context, id string) (*entities.WordEntry, error)
	SetPronunciationIfEmpty(ctx context.Context, id, pronunciation string) (bool, error)
}

// Lookuper resolves a word in some dictionary.
type Lookuper interface {
	Lookup(ctx context.Context, word, language string) (*dictionary.LookupResult, error)
	Supports(language string) bool
}

// EnrichPronunciationTask looks up the pronunciation of a newly created entry.
type EnrichPronunciationTask struct {
	WordID string `json:"word_id"`
}

func (t EnrichPronunciationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_pronunciation",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PronunciationScheduler enqueues enrichment for new entries.
type PronunciationScheduler struct {
	queue Enqueuer
}

func NewPronunciationScheduler(queue Enqueuer) *PronunciationScheduler {
	return &PronunciationScheduler{queue: queue}
}

func (s *PronunciationScheduler) ScheduleEnrichment(ctx context.Context, wordID string) error {
	if wordID == "" {
		return errors.New("schedule enrichment: empty word id")
	}
	return s.queue.Enqueue(ctx, 0, EnrichPronunciationTask{WordID: wordID})
}

// EnrichPronunciationProcessor creates a processor for pronunciation enrichment.
// Entries that vanished, already have a pronunciation, or that no dictionary
// knows are skipped without error; only lookup failures are retried.
func EnrichPronunciationProcessor(store PronunciationStore, lookup Lookuper, logger logrus.FieldLogger) backlite.QueueProcessor[EnrichPronunciationTask] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(ctx context.Context, task EnrichPronunciationTask) error {
		log := logger.WithField("entry_id", task.WordID)

		entry, err := store.GetEntryByID(ctx, task.WordID)
		if err != nil {
			return fmt.Errorf("get entry %s: %w", task.WordID, err)
		}
		if entry == nil || entry.Pronunciation != "" {
			return nil
		}
		if !lookup.Supports(entry.Language) {
			log.WithField("language", entry.Language).Debug("no dictionary for language")
			return nil
		}

		result, err := lookup.Lookup(ctx, entry.Word, entry.Language)
		if errors.Is(err, dictionary.ErrWordNotFound) {
			log.WithField("word", entry.Word).Info("word not found in any dictionary")
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup %q: %w", entry.Word, err)
		}
		if result.Pronunciation == "" {
			return nil
		}

		changed, err := store.SetPronunciationIfEmpty(ctx, entry.ID, result.Pronunciation)
		if err != nil {
			return fmt.Errorf("save pronunciation for %s: %w", entry.ID, err)
		}
		if changed {
			log.WithFields(logrus.Fields{
				"word":          entry.Word,
				"pronunciation": result.Pronunciation,
				"sources":       result.Sources,
			}).Info("pronunciation enriched")
		}
		return nil
	}
}

func NewEnrichPronunciationQueue(store PronunciationStore, lookup Lookuper, logger logrus.FieldLogger) backlite.Queue {
	return backlite.NewQueue[EnrichPronunciationTask](EnrichPronunciationProcessor(store, lookup, logger))
}
