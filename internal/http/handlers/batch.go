package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptsheet-backend/internal/http/response"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/services"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
)

type BatchHandler struct {
	log   *logger.Logger
	batch services.BatchService
}

func NewBatchHandler(log *logger.Logger, batch services.BatchService) *BatchHandler {
	return &BatchHandler{log: log.With("handler", "BatchHandler"), batch: batch}
}

// POST /api/batch/stream
func (h *BatchHandler) Stream(c *gin.Context) {
	var req services.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	bs, err := h.batch.Stream(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err, "batch_failed")
		return
	}
	h.writeStream(c, bs)
}

// POST /api/batch/sheet
func (h *BatchHandler) StreamSheet(c *gin.Context) {
	var req services.SheetStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	bs, err := h.batch.StreamSheet(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err, "batch_failed")
		return
	}
	h.writeStream(c, bs)
}

// writeStream sends one JSON item per line, or SSE "item" events followed by
// a "done" event when the client accepts text/event-stream.
func (h *BatchHandler) writeStream(c *gin.Context, bs *services.BatchStream) {
	useSSE := strings.Contains(c.GetHeader("Accept"), "text/event-stream")
	c.Header("X-Batch-Provider", bs.Provider)
	c.Header("X-Batch-Model", bs.Model)
	c.Header("X-Batch-Count", strconv.Itoa(bs.Count))
	c.Header("Cache-Control", "no-cache")
	if useSSE {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
	} else {
		c.Header("Content-Type", "application/x-ndjson")
	}
	c.Status(http.StatusOK)
	c.Writer.Flush()

	enc := json.NewEncoder(c.Writer)
	sent, failures := 0, 0
	for it := range bs.Items {
		if useSSE {
			c.SSEvent("item", it)
		} else if err := enc.Encode(it); err != nil {
			h.log.Warn("Batch stream write failed", "error", err, "sent", sent)
			return
		}
		c.Writer.Flush()
		sent++
		if it.Failed() {
			failures++
		}
	}
	if useSSE {
		c.SSEvent("done", gin.H{"count": sent, "failures": failures})
		c.Writer.Flush()
	}
	h.log.Info("Batch stream finished", "sent", sent, "failures", failures, "expected", bs.Count)
}

// POST /api/batch/export
func (h *BatchHandler) Export(c *gin.Context) {
	var req services.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var buf bytes.Buffer
	if err := h.batch.Export(c.Request.Context(), &buf, req); err != nil {
		response.RespondServiceError(c, err, "export_failed")
		return
	}
	attachment(c, sheets.ExportFilename(time.Now()), buf.Bytes())
}

// GET /api/batch/runs
func (h *BatchHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.batch.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err, "list_runs_failed")
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}
