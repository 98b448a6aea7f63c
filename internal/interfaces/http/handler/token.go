package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appidentity "github.com/tracepulse/backend/internal/application/identity"
	"github.com/tracepulse/backend/internal/domain/identity"
)

// TokenHandler manages ingest tokens through the dashboard API
type TokenHandler struct {
	BaseHandler
	tokens *appidentity.TokenService
	logger *zap.Logger
}

// NewTokenHandler creates a token handler
func NewTokenHandler(tokens *appidentity.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

// CreateTokenRequest is the issue-token request body
type CreateTokenRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// TokenResponse describes an ingest token. The secret is present only
// in the issue response; listings never repeat it.
type TokenResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toTokenResponse(token *identity.IngestToken, includeSecret bool) TokenResponse {
	resp := TokenResponse{
		ID:        token.ID,
		Name:      token.Name,
		Status:    string(token.Status),
		CreatedAt: token.CreatedAt,
	}
	if includeSecret {
		resp.Token = token.Token
	}
	return resp
}

// Create handles POST /api/v1/tokens
func (h *TokenHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.logger.Error("failed to issue ingest token", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTokenResponse(token, true))
}

// List handles GET /api/v1/tokens
func (h *TokenHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tokens, err := h.tokens.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		resp = append(resp, toTokenResponse(t, false))
	}
	h.Success(c, resp)
}

// Revoke handles POST /api/v1/tokens/:id/revoke. Revoking an already
// deprecated token succeeds without further effect.
func (h *TokenHandler) Revoke(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid token ID")
		return
	}

	token, err := h.tokens.Deprecate(c.Request.Context(), userID, tokenID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTokenResponse(token, false))
}
