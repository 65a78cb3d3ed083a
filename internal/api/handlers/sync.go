package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/replication"
)

type SyncHandler struct {
	engine *replication.Engine
	cache  *cache.Cache
	logger *logger.Logger
}

func NewSyncHandler(engine *replication.Engine, c *cache.Cache, log *logger.Logger) *SyncHandler {
	return &SyncHandler{engine: engine, cache: c, logger: log}
}

// RunInitial runs the bulk replication path and returns its report.
func (h *SyncHandler) RunInitial(c *gin.Context) {
	report, err := h.engine.BulkSync()
	if err != nil {
		h.logger.Error("bulk sync failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":       report.Total,
		"in_stock":    report.InStock,
		"created":     report.Created,
		"updated":     report.Updated,
		"errors":      report.Errors,
		"skipped":     report.Skipped,
		"duration_ms": report.Duration().Milliseconds(),
	})
}

// Status returns the counters spec.md §6 promises for the operator
// dashboard's landing view: product totals by sync state, the unprocessed
// webhook backlog, and the most recent events.
func (h *SyncHandler) Status(c *gin.Context) {
	byState, err := h.cache.CountSyncStatusByState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	backlog, err := h.cache.CountUnprocessedEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recent, err := h.cache.ListRecentEvents(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sync_state_counts": byState,
		"unprocessed_events": backlog,
		"recent_events":      recent,
	})
}
