package ui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"datalens/app"
	"datalens/domain/core"
	"datalens/internal"
)

// DataHandler serves the ingestion and analytics endpoints.
type DataHandler struct {
	service *app.AnalyticsService
	logger  *internal.Logger
}

func NewDataHandler(service *app.AnalyticsService, logger *internal.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger,
	}
}

// FetchDataRequest is the body of POST /api/fetch-data.
type FetchDataRequest struct {
	URL string `json:"url" binding:"required"`
}

// AnalyzeRequest is the body of POST /api/analyze. Columns may be empty
// to analyze every column of the session.
type AnalyzeRequest struct {
	SessionID string   `json:"session_id" binding:"required"`
	Columns   []string `json:"columns"`
}

func (h *DataHandler) HandleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Data Analytics API"})
	}
}

func (h *DataHandler) HandleFetchData() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FetchDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url must be http or https"})
			return
		}

		result, err := h.service.Ingest(c.Request.Context(), req.URL)
		if err != nil {
			h.logger.Error("ingest failed for %s: %v", req.URL, err)
			h.respondError(c, err)
			return
		}

		h.logger.Info("ingested %d rows, %d columns from %s", result.RowCount, len(result.Columns), req.URL)
		c.JSON(http.StatusOK, result)
	}
}

func (h *DataHandler) HandleGetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		session, err := h.service.GetSession(c.Request.Context(), id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func (h *DataHandler) HandleSessionData() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		page := queryInt(c, "page", 1)
		pageSize := queryInt(c, "page_size", 50)
		if pageSize > 1000 {
			pageSize = 1000
		}

		result, err := h.service.SessionData(c.Request.Context(), id, page, pageSize)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *DataHandler) HandleAnalyze() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}
		id, err := core.ParseSessionID(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		result, err := h.service.Analyze(c.Request.Context(), id, req.Columns)
		if err != nil {
			h.logger.Error("analyze failed for session %s: %v", req.SessionID, err)
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *DataHandler) HandleGetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		analytics, analyzedColumns, err := h.service.GetAnalytics(c.Request.Context(), id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session_id":       id,
			"analytics":        analytics,
			"analyzed_columns": analyzedColumns,
		})
	}
}

func (h *DataHandler) HandleDeleteSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
	}
}

// respondError maps domain errors onto HTTP status codes.
func (h *DataHandler) respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrUpstreamFetch):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidPayload), errors.Is(err, core.ErrEmptyDataset):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
