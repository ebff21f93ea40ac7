package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmalens/pricelens/internal/query"
)

// SearchStream handles GET /api/v1/search/stream?name=...&dosage=...
// Progress is delivered as Server-Sent Events: one started event, one
// source_result per finished source, and a terminal complete event.
func (h *Handler) SearchStream(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	events, err := h.searcher.SearchStream(c.Request.Context(), name, c.Query("dosage"))
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name yields an empty search query"})
			return
		}
		h.log.Error("stream search failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, canFlush := c.Writer.(http.Flusher)

	// The event channel is buffered for the full sequence, so a client that
	// disconnects mid-stream never blocks the fetches behind it.
	for ev := range events {
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}

		c.SSEvent(string(ev.Type), ev)
		if canFlush {
			flusher.Flush()
		}
	}
}
