package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/dictionary"
)

// LookupController drafts entry details from external dictionaries.
type LookupController struct {
	dictionary DictionaryLookup
	logger     logrus.FieldLogger
}

func NewLookupController(dict DictionaryLookup, logger logrus.FieldLogger) *LookupController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LookupController{dictionary: dict, logger: logger}
}

// Lookup returns what the dictionaries know about a word. Nothing is stored.
// GET /api/lookup?word=cat&language=en
func (lc *LookupController) Lookup(c *gin.Context) {
	word := strings.TrimSpace(c.Query("word"))
	language := strings.TrimSpace(c.Query("language"))
	if word == "" || language == "" {
		respondBadRequest(c, "word and language are required")
		return
	}

	result, err := lc.dictionary.Lookup(c.Request.Context(), word, language)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, dictionary.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "unsupported_language"})
	case errors.Is(err, dictionary.ErrWordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, dictionary.ErrEmptyWord):
		respondBadRequest(c, err.Error())
	default:
		lc.logger.WithError(err).WithField("op", "dictionary lookup").Error("dictionary unavailable")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "dictionary unavailable", Code: "dictionary_unavailable"})
	}
}

// Languages lists the languages lookups can serve.
// GET /api/lookup/languages
func (lc *LookupController) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": lc.dictionary.Languages()})
}
