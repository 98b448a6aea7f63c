package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/tracepulse/backend/internal/application/billing"
)

// UsageHandler serves dashboard usage queries
type UsageHandler struct {
	BaseHandler
	usage  *appbilling.UsageService
	logger *zap.Logger
}

// NewUsageHandler creates a usage handler
func NewUsageHandler(usage *appbilling.UsageService, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{usage: usage, logger: logger}
}

// GetUsage handles GET /api/v1/usage
func (h *UsageHandler) GetUsage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	snapshot, err := h.usage.GetUsage(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load usage snapshot",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshot)
}
