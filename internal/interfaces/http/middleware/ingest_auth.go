package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/tracepulse/backend/internal/application/identity"
	"github.com/tracepulse/backend/internal/application/ingest"
	"github.com/tracepulse/backend/internal/domain/shared"
)

// IngestIdentityKey is the gin context key holding the resolved
// token identity for an authenticated ingest request.
const IngestIdentityKey = "ingest_identity"

// IngestAuth authenticates OTLP export requests against live ingest
// tokens. The ingest surface speaks the exporter wire shape, so
// failures use a bare {"message": ...} body instead of the dashboard
// envelope.
func IngestAuth(tokens *appidentity.TokenService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortIngestUnauthorized(c)
			return
		}
		secret := strings.TrimPrefix(authHeader, BearerPrefix)

		token, err := tokens.Authenticate(c.Request.Context(), secret)
		if errors.Is(err, shared.ErrUnauthorized) {
			abortIngestUnauthorized(c)
			return
		}
		if err != nil {
			log.Error("ingest token lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
			return
		}

		c.Set(IngestIdentityKey, ingest.TokenIdentity{
			UserID:  token.UserID,
			TokenID: token.ID,
		})
		c.Next()
	}
}

func abortIngestUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Invalid or missing ingest token",
	})
}

// GetIngestIdentity retrieves the token identity set by IngestAuth
func GetIngestIdentity(c *gin.Context) (ingest.TokenIdentity, bool) {
	value, exists := c.Get(IngestIdentityKey)
	if !exists {
		return ingest.TokenIdentity{}, false
	}
	identity, ok := value.(ingest.TokenIdentity)
	return identity, ok
}
