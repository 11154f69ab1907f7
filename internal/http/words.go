package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/entities"
)

type WordsController struct {
	words         WordCatalog
	featuredLimit int
	logger        logrus.FieldLogger
}

func NewWordsController(words WordCatalog, featuredLimit int, logger logrus.FieldLogger) *WordsController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WordsController{words: words, featuredLimit: featuredLimit, logger: logger}
}

// createWordRequest is the body of POST /api/words. A status field, if
// sent, is ignored.
type createWordRequest struct {
	Word          string             `json:"word"`
	Language      string             `json:"language"`
	Pronunciation string             `json:"pronunciation"`
	Etymology     string             `json:"etymology"`
	CategoryID    string             `json:"category_id"`
	Meanings      []entities.Meaning `json:"meanings"`
}

// updateWordRequest is the body of PATCH /api/words/:id; absent fields are
// left untouched.
type updateWordRequest struct {
	Word          *string              `json:"word"`
	Language      *string              `json:"language"`
	Pronunciation *string              `json:"pronunciation"`
	Etymology     *string              `json:"etymology"`
	CategoryID    *string              `json:"category_id"`
	Meanings      *[]entities.Meaning  `json:"meanings"`
	Status        *entities.WordStatus `json:"status"`
}

// List returns a page of entries.
// GET /api/words?page=&limit=&status=
// Statuses other than approved are visible to admins only.
func (wc *WordsController) List(c *gin.Context) {
	status := entities.WordStatus(c.Query("status"))
	if status != "" && status != entities.WordStatusApproved {
		caller, ok := auth.GetCaller(c)
		if !ok || !caller.IsAdmin() {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "insufficient permissions", Code: "forbidden"})
			return
		}
	}

	page, err := wc.words.FindAll(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"), status)
	if err != nil {
		respondCatalogError(c, wc.logger, err, "list words")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Featured returns the newest approved entries.
// GET /api/words/featured?limit=
func (wc *WordsController) Featured(c *gin.Context) {
	limit := queryInt(c, "limit")
	if limit < 1 {
		limit = wc.featuredLimit
	}

	words, err := wc.words.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		respondCatalogError(c, wc.logger, err, "featured words")
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

// Search filters approved entries.
// GET /api/words/search?q=&language=&category=&part_of_speech=&page=&limit=
func (wc *WordsController) Search(c *gin.Context) {
	page, err := wc.words.Search(c.Request.Context(), catalog.SearchCriteria{
		Query:         c.Query("q"),
		Languages:     queryList(c, "language"),
		Categories:    queryList(c, "category"),
		PartsOfSpeech: queryList(c, "part_of_speech"),
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
	})
	if err != nil {
		respondCatalogError(c, wc.logger, err, "search words")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns one entry.
// GET /api/words/:id
func (wc *WordsController) Get(c *gin.Context) {
	entry, err := wc.words.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, wc.logger, err, "get word")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Create adds an entry owned by the caller.
// POST /api/words
func (wc *WordsController) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req createWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entry, err := wc.words.Create(c.Request.Context(), catalog.EntryInput{
		Word:          req.Word,
		Language:      req.Language,
		Pronunciation: req.Pronunciation,
		Etymology:     req.Etymology,
		CategoryID:    req.CategoryID,
		Meanings:      req.Meanings,
	}, caller)
	if err != nil {
		respondCatalogError(c, wc.logger, err, "create word")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Update changes an entry the caller owns, or any entry for admins.
// PATCH /api/words/:id
func (wc *WordsController) Update(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req updateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entry, err := wc.words.Update(c.Request.Context(), c.Param("id"), catalog.EntryUpdate{
		Word:          req.Word,
		Language:      req.Language,
		Pronunciation: req.Pronunciation,
		Etymology:     req.Etymology,
		CategoryID:    req.CategoryID,
		Meanings:      req.Meanings,
		Status:        req.Status,
	}, caller)
	if err != nil {
		respondCatalogError(c, wc.logger, err, "update word")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete removes an entry and its favorites.
// DELETE /api/words/:id
func (wc *WordsController) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	if _, err := wc.words.Remove(c.Request.Context(), c.Param("id"), caller); err != nil {
		respondCatalogError(c, wc.logger, err, "delete word")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "word deleted"})
}
