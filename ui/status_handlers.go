package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/ports"
)

// StatusHandler serves the client status check endpoints.
type StatusHandler struct {
	statuses ports.StatusRepository
	logger   *internal.Logger
}

func NewStatusHandler(statuses ports.StatusRepository, logger *internal.Logger) *StatusHandler {
	return &StatusHandler{
		statuses: statuses,
		logger:   logger,
	}
}

// CreateStatusRequest is the body of POST /api/status.
type CreateStatusRequest struct {
	ClientName string `json:"client_name" binding:"required"`
}

func (h *StatusHandler) HandleCreateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_name is required"})
			return
		}

		check := dataset.NewStatusCheck(req.ClientName)
		if err := h.statuses.Create(c.Request.Context(), check); err != nil {
			h.logger.Error("failed to record status check: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record status check"})
			return
		}
		c.JSON(http.StatusOK, check)
	}
}

func (h *StatusHandler) HandleListStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks, err := h.statuses.List(c.Request.Context(), 1000)
		if err != nil {
			h.logger.Error("failed to list status checks: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list status checks"})
			return
		}
		if checks == nil {
			checks = []dataset.StatusCheck{}
		}
		c.JSON(http.StatusOK, checks)
	}
}
