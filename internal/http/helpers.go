package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/catalog"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "invalid_request"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger logrus.FieldLogger, err error, op string) {
	logger.WithError(err).WithField("op", op).Error("internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// errorMapping pairs a catalog sentinel with its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

var catalogErrors = []errorMapping{
	{catalog.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
	{catalog.ErrInvalidEntry, http.StatusBadRequest, "invalid_entry"},
	{catalog.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{catalog.ErrInvalidCaller, http.StatusUnauthorized, "invalid_caller"},
	{catalog.ErrForbidden, http.StatusForbidden, "forbidden"},
	{catalog.ErrNotFound, http.StatusNotFound, "not_found"},
	{catalog.ErrDuplicateEntry, http.StatusConflict, "duplicate_entry"},
	{catalog.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
}

// respondCatalogError maps a catalog error onto its HTTP status. Store and
// unknown failures are logged; their details are not exposed.
func respondCatalogError(c *gin.Context, logger logrus.FieldLogger, err error, op string) {
	for _, m := range catalogErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		message := err.Error()
		if m.status == http.StatusServiceUnavailable {
			logger.WithError(err).WithField("op", op).Error("store unavailable")
			message = m.target.Error()
		}
		c.JSON(m.status, ErrorResponse{Error: message, Code: m.code})
		return
	}
	respondInternalError(c, logger, err, op)
}

// --- Parameter Parsing ---

// queryInt parses an integer query parameter. Missing or malformed values
// yield 0, which the catalog replaces with its default.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}

// queryList collects a multi-valued query parameter given either repeated
// (?lang=en&lang=fr) or comma separated (?lang=en,fr).
func queryList(c *gin.Context, name string) []string {
	return lo.FlatMap(c.QueryArray(name), func(v string, _ int) []string {
		return strings.Split(v, ",")
	})
}

// callerFrom returns the authenticated caller. Routes that need one are
// wrapped in RequireCaller, so a miss is answered with 401.
func callerFrom(c *gin.Context) (catalog.Caller, bool) {
	caller, ok := auth.GetCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	return caller, ok
}
