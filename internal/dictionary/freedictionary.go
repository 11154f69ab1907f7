package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mrlokans/lexicon/internal/entities"
)

// DefaultFreeDictionaryURL is the public Free Dictionary API.
// API docs: https://dictionaryapi.dev/
const DefaultFreeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries"

// FreeDictionaryClient implements Client using the Free Dictionary API.
type FreeDictionaryClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

// wait blocks until interval has passed since the previous call or ctx ends.
func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

// NewFreeDictionaryClient creates a Free Dictionary API client. An empty
// baseURL selects DefaultFreeDictionaryURL.
func NewFreeDictionaryClient(baseURL string, timeout, minInterval time.Duration) *FreeDictionaryClient {
	if baseURL == "" {
		baseURL = DefaultFreeDictionaryURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FreeDictionaryClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(minInterval),
	}
}

func (c *FreeDictionaryClient) Name() string {
	return "freedictionary"
}

// Lookup fetches a word's phonetics and meanings.
func (c *FreeDictionaryClient) Lookup(ctx context.Context, word, language string) (*LookupResult, error) {
	word = strings.TrimSpace(strings.ToLower(word))
	if word == "" {
		return nil, ErrEmptyWord
	}
	language = normalizeLanguage(language)

	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(language), url.PathEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Lexicon/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch definition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResponse []freeDictionaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResponse) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
	}

	return convertToLookupResult(word, language, apiResponse), nil
}

// convertToLookupResult merges every homograph the API returns, keeping one
// meaning per part of speech in first-seen order.
func convertToLookupResult(word, language string, responses []freeDictionaryResponse) *LookupResult {
	result := &LookupResult{
		Word:     word,
		Language: language,
		Sources:  []string{"freedictionary"},
	}

	byPOS := map[string]int{}
	for _, resp := range responses {
		if result.Pronunciation == "" {
			result.Pronunciation = strings.TrimSpace(resp.Phonetic)
		}
		for _, phonetic := range resp.Phonetics {
			if result.Pronunciation == "" && phonetic.Text != "" {
				result.Pronunciation = phonetic.Text
			}
			if result.AudioURL == "" && phonetic.Audio != "" {
				result.AudioURL = phonetic.Audio
			}
		}

		for _, meaning := range resp.Meanings {
			pos := strings.ToLower(strings.TrimSpace(meaning.PartOfSpeech))
			if pos == "" {
				continue
			}
			i, seen := byPOS[pos]
			if !seen {
				i = len(result.Meanings)
				byPOS[pos] = i
				result.Meanings = append(result.Meanings, entities.Meaning{PartOfSpeech: pos})
			}

			m := &result.Meanings[i]
			for _, def := range meaning.Definitions {
				if strings.TrimSpace(def.Definition) == "" {
					continue
				}
				d := entities.Definition{Definition: def.Definition}
				if def.Example != "" {
					d.Examples = []string{def.Example}
				}
				m.Definitions = append(m.Definitions, d)
			}
			m.Synonyms = lo.Uniq(append(m.Synonyms, meaning.Synonyms...))
			m.Antonyms = lo.Uniq(append(m.Antonyms, meaning.Antonyms...))
		}
	}

	result.Meanings = lo.Filter(result.Meanings, func(m entities.Meaning, _ int) bool {
		return len(m.Definitions) > 0
	})
	return result
}

// Free Dictionary API response types

type freeDictionaryResponse struct {
	Word      string             `json:"word"`
	Phonetic  string             `json:"phonetic"`
	Phonetics []freeDictPhonetic `json:"phonetics"`
	Meanings  []freeDictMeaning  `json:"meanings"`
}

type freeDictPhonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

type freeDictMeaning struct {
	PartOfSpeech string               `json:"partOfSpeech"`
	Definitions  []freeDictDefinition `json:"definitions"`
	Synonyms     []string             `json:"synonyms"`
	Antonyms     []string             `json:"antonyms"`
}

type freeDictDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}
