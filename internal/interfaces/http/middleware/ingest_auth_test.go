package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/tracepulse/backend/internal/application/identity"
	"github.com/tracepulse/backend/internal/domain/identity"
	"github.com/tracepulse/backend/internal/domain/shared"
)

type fakeTokenRepo struct {
	byToken map[string]*identity.IngestToken
}

func (r *fakeTokenRepo) FindLiveByToken(_ context.Context, token string) (*identity.IngestToken, error) {
	t, ok := r.byToken[token]
	if !ok || !t.IsLive() {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.IngestToken, error) {
	for _, t := range r.byToken {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTokenRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*identity.IngestToken, error) {
	var out []*identity.IngestToken
	for _, t := range r.byToken {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) Save(_ context.Context, token *identity.IngestToken) error {
	r.byToken[token.Token] = token
	return nil
}

func (r *fakeTokenRepo) Update(_ context.Context, token *identity.IngestToken) error {
	r.byToken[token.Token] = token
	return nil
}

func newIngestAuthRouter(t *testing.T, repo *fakeTokenRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := appidentity.NewTokenService(repo, zap.NewNop())

	router := gin.New()
	router.POST("/v1/ingest", IngestAuth(service, zap.NewNop()), func(c *gin.Context) {
		id, ok := GetIngestIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"userId":  id.UserID.String(),
			"tokenId": id.TokenID.String(),
		})
	})
	return router
}

func TestIngestAuth_LiveToken(t *testing.T) {
	userID := uuid.New()
	token, err := identity.NewIngestToken(userID, "prod")
	require.NoError(t, err)

	repo := &fakeTokenRepo{byToken: map[string]*identity.IngestToken{token.Token: token}}
	router := newIngestAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), token.ID.String())
}

func TestIngestAuth_MissingHeader(t *testing.T) {
	repo := &fakeTokenRepo{byToken: map[string]*identity.IngestToken{}}
	router := newIngestAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid or missing ingest token"}`, w.Body.String())
}

func TestIngestAuth_UnknownToken(t *testing.T) {
	repo := &fakeTokenRepo{byToken: map[string]*identity.IngestToken{}}
	router := newIngestAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	req.Header.Set("Authorization", "Bearer tp_doesnotexist")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIngestAuth_DeprecatedToken(t *testing.T) {
	userID := uuid.New()
	token, err := identity.NewIngestToken(userID, "old")
	require.NoError(t, err)
	token.Deprecate()

	repo := &fakeTokenRepo{byToken: map[string]*identity.IngestToken{token.Token: token}}
	router := newIngestAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIngestAuth_NonBearerScheme(t *testing.T) {
	repo := &fakeTokenRepo{byToken: map[string]*identity.IngestToken{}}
	router := newIngestAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
