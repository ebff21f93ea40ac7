package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmalens/pricelens/internal/aggregator"
	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/query"
)

const maxBatchItems = 20

// Searcher runs aggregate searches. The aggregator implements this.
type Searcher interface {
	Search(ctx context.Context, rawName, dosage string) (*domain.AggregateResult, error)
	SearchStream(ctx context.Context, rawName, dosage string) (<-chan domain.ProgressEvent, error)
	SearchMany(ctx context.Context, requests []aggregator.Request) (*domain.BatchResult, error)
}

// SourceLister exposes the configured source descriptors.
type SourceLister func() []domain.SourceDescriptor

// Handler holds the HTTP handlers for the price engine.
type Handler struct {
	searcher Searcher
	sources  SourceLister
	log      logger.Interface
}

// NewHandler creates the API handler set.
func NewHandler(searcher Searcher, sources SourceLister, log logger.Interface) *Handler {
	return &Handler{searcher: searcher, sources: sources, log: log}
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Sources handles GET /api/v1/sources
func (h *Handler) Sources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.sources()})
}

// Search handles GET /api/v1/search?name=...&dosage=...
func (h *Handler) Search(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	result, err := h.searcher.Search(c.Request.Context(), name, c.Query("dosage"))
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name yields an empty search query"})
			return
		}
		h.log.Error("search failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchRequest is the POST /api/v1/search/batch body.
type batchRequest struct {
	Medicines []aggregator.Request `json:"medicines" binding:"required"`
}

// SearchBatch handles POST /api/v1/search/batch
func (h *Handler) SearchBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Medicines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "medicines list is empty"})
		return
	}
	if len(req.Medicines) > maxBatchItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many medicines in one batch"})
		return
	}

	result, err := h.searcher.SearchMany(c.Request.Context(), req.Medicines)
	if err != nil {
		h.log.Error("batch search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
