package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/tracepulse/backend/internal/application/billing"
	"github.com/tracepulse/backend/internal/application/ingest"
	"github.com/tracepulse/backend/internal/domain/billing"
	"github.com/tracepulse/backend/internal/interfaces/http/middleware"
)

// IngestHandler accepts OTLP/JSON export requests. The ingest surface
// speaks the exporter wire shape (bare message bodies), not the
// dashboard envelope.
type IngestHandler struct {
	coordinator *ingest.Coordinator
	usage       *appbilling.UsageService
	logger      *zap.Logger
}

// NewIngestHandler creates an ingest handler
func NewIngestHandler(coordinator *ingest.Coordinator, usage *appbilling.UsageService, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{coordinator: coordinator, usage: usage, logger: logger}
}

// ingestResponse is the accepted-batch wire shape
type ingestResponse struct {
	Message          string `json:"message"`
	SpansProcessed   int    `json:"spansProcessed"`
	MetricsProcessed int    `json:"metricsProcessed"`
}

// quotaExceededResponse is the 429 wire shape
type quotaExceededResponse struct {
	Message   string    `json:"message"`
	QuotaInfo quotaInfo `json:"quotaInfo"`
}

type quotaInfo struct {
	CurrentUsage int64  `json:"currentUsage"`
	MonthlyQuota *int64 `json:"monthlyQuota"`
	Tier         string `json:"tier"`
}

// Export handles POST /v1/ingest
func (h *IngestHandler) Export(c *gin.Context) {
	identity, ok := middleware.GetIngestIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing ingest token"})
		return
	}

	var req ingest.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := h.coordinator.Ingest(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleIngestError(c, err)
		return
	}

	// The batch moved the counter; drop the cached snapshot so the
	// dashboard sees the new position.
	h.usage.InvalidateSnapshot(c.Request.Context(), identity.UserID)

	c.JSON(http.StatusOK, ingestResponse{
		Message:          "Telemetry data processed successfully",
		SpansProcessed:   result.SpansProcessed,
		MetricsProcessed: result.MetricsProcessed,
	})
}

func (h *IngestHandler) handleIngestError(c *gin.Context, err error) {
	var malformed *ingest.MalformedPayloadError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusBadRequest, gin.H{"message": malformed.Detail})
		return
	}

	var quotaErr *billing.QuotaExceededError
	if errors.As(err, &quotaErr) {
		c.JSON(http.StatusTooManyRequests, quotaExceededResponse{
			Message: "Monthly span quota exceeded",
			QuotaInfo: quotaInfo{
				CurrentUsage: quotaErr.Snapshot.CurrentUsage,
				MonthlyQuota: quotaErr.Snapshot.MonthlyQuota,
				Tier:         quotaErr.Snapshot.Tier,
			},
		})
		return
	}

	h.logger.Error("telemetry ingestion failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process telemetry data"})
}
