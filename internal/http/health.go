package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/entities"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string                        `json:"status"`
	Time    string                        `json:"time"`
	Version string                        `json:"version,omitempty"`
	Checks  map[string]string             `json:"checks"`
	Entries map[entities.WordStatus]int64 `json:"entries,omitempty"`
}

type HealthController struct {
	db      Pinger
	entries StatusCounter
	version string
	logger  logrus.FieldLogger
}

func NewHealthController(db Pinger, entries StatusCounter, version string, logger logrus.FieldLogger) *HealthController {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HealthController{
		db:      db,
		entries: entries,
		version: version,
		logger:  logger,
	}
}

// Status reports store connectivity and the size of each moderation bucket.
// Failure details are logged, not returned.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": "not configured"},
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("health check: database unreachable")
			resp.Checks["database"] = "unavailable"
			resp.Status = "unhealthy"
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if h.entries != nil && resp.Status == "healthy" {
		counts, err := h.entries.CountByStatus(ctx)
		if err != nil {
			h.logger.WithError(err).Warn("health check: entry counts failed")
			resp.Checks["entries"] = "unavailable"
		} else {
			resp.Checks["entries"] = "ok"
			resp.Entries = counts
		}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

// Ping is a liveness probe that touches nothing.
// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
