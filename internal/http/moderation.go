package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/entities"
)

const historyPageSize = 50

type ModerationController struct {
	moderation ModerationCatalog
	history    EntryHistory
	logger     logrus.FieldLogger
}

// NewModerationController creates the admin controller. history may be nil.
func NewModerationController(moderation ModerationCatalog, history EntryHistory, logger logrus.FieldLogger) *ModerationController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ModerationController{moderation: moderation, history: history, logger: logger}
}

type setStatusRequest struct {
	Status entities.WordStatus `json:"status"`
}

// Pending lists entries waiting for review.
// GET /api/admin/words/pending?page=&limit=
func (mc *ModerationController) Pending(c *gin.Context) {
	page, err := mc.moderation.ListPending(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondCatalogError(c, mc.logger, err, "list pending")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetStatus approves or rejects an entry.
// PATCH /api/admin/words/:id/status
func (mc *ModerationController) SetStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entry, err := mc.moderation.SetStatusBy(c.Request.Context(), c.Param("id"), req.Status, caller.UserID)
	if err != nil {
		respondCatalogError(c, mc.logger, err, "set status")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// History returns the audit trail of an entry, newest first.
// GET /api/admin/words/:id/history?page=
func (mc *ModerationController) History(c *gin.Context) {
	if mc.history == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "audit trail not enabled", Code: "not_found"})
		return
	}

	id := c.Param("id")
	if !catalog.ValidID(id) {
		respondCatalogError(c, mc.logger, catalog.ErrInvalidID, "entry history")
		return
	}

	page := queryInt(c, "page")
	if page < 1 {
		page = 1
	}

	events, total, err := mc.history.GetEntryHistory(c.Request.Context(), catalog.IDOf(id), historyPageSize, (page-1)*historyPageSize)
	if err != nil {
		respondInternalError(c, mc.logger, err, "entry history")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"limit":  historyPageSize,
	})
}
