package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drophunt/drophunt/app/checker"
)

func NewHandler(checkRunner CheckRunner, version string, configured bool) *Handler {
	return &Handler{checker: checkRunner, version: version, configured: configured}
}

// RunCheck executes one fetch-diff-notify cycle synchronously and
// returns its summary. The scheduler hits the same checker on its own
// cadence; this endpoint exists for external cron triggers and manual
// pokes.
func (h *Handler) RunCheck(c *gin.Context) {
	summary, err := h.checker.Run(c.Request.Context())
	if err != nil {
		if !errors.Is(err, checker.ErrNotConfigured) {
			slog.Error("Giveaway check failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, summary)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.checker.Stats(c.Request.Context())

	health := gin.H{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"version":    h.version,
		"configured": h.configured,
	}
	if stats.LastUpdate != nil {
		health["last_update"] = stats.LastUpdate.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.checker.Stats(c.Request.Context()))
}
