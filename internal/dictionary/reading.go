package dictionary

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// ReadingClient derives katakana readings for Japanese words from the IPA
// morphological dictionary. It works offline and never returns meanings.
type ReadingClient struct {
	once sync.Once
	t    *tokenizer.Tokenizer
	err  error
}

// NewReadingClient returns a ReadingClient. The dictionary is loaded on first use.
func NewReadingClient() *ReadingClient {
	return &ReadingClient{}
}

func (c *ReadingClient) Name() string {
	return "kagome"
}

func (c *ReadingClient) load() (*tokenizer.Tokenizer, error) {
	c.once.Do(func() {
		c.t, c.err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return c.t, c.err
}

// Lookup joins the readings of the word's morphemes. A word containing an
// unknown morpheme has no reading.
func (c *ReadingClient) Lookup(ctx context.Context, word, language string) (*LookupResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	var reading strings.Builder
	for _, token := range t.Tokenize(word) {
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}
		if token.Class == tokenizer.DUMMY || token.Class == tokenizer.UNKNOWN {
			return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
		}

		// IPA features: 0 part of speech, 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()
		if len(features) <= 7 || features[7] == "*" {
			return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
		}
		reading.WriteString(features[7])
	}
	if reading.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrWordNotFound, word)
	}

	return &LookupResult{
		Word:          word,
		Language:      normalizeLanguage(language),
		Pronunciation: reading.String(),
		Sources:       []string{c.Name()},
	}, nil
}
