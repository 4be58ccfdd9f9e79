package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoami(r, admin *gin.RouterGroup) {
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, auth.CurrentUser(c).UserID)
	})
	admin.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func serve(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterAuthentication(t *testing.T) {
	v := auth.NewVerifier("secret")
	r := NewRouter(HTTPConfig{}, v, logger.NewNop(), RoutesFunc(whoami))

	clientToken, err := v.Sign(auth.UserContext{UserID: "client-1", Role: model.RoleClient}, time.Hour)
	require.NoError(t, err)
	adminToken, err := v.Sign(auth.UserContext{UserID: "admin-1", Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(r, "/healthz", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/api/v1/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/api/v1/whoami", "garbage").Code)

	rec := serve(r, "/api/v1/whoami", clientToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, "/api/v1/admin/ping", clientToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/api/v1/admin/ping", adminToken).Code)
}

func TestRouterRateLimit(t *testing.T) {
	r := NewRouter(HTTPConfig{RateLimitPerSec: 0.001, RateLimitBurst: 2}, auth.NewVerifier("secret"), logger.NewNop(), RoutesFunc(whoami))

	assert.Equal(t, http.StatusOK, serve(r, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/healthz", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/healthz", "").Code)
}
