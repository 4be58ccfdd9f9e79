package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	raw, err := v.Sign(UserContext{UserID: "u-1", Email: "a@b.c", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	u, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.UserID)
	assert.True(t, u.IsAdmin())

	_, err = NewVerifier("other").Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierRejectsExpired(t *testing.T) {
	v := NewVerifier("secret")
	raw, err := v.Sign(UserContext{UserID: "u-1", Role: model.RoleClient}, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnknownRoleFallsBackToClient(t *testing.T) {
	v := NewVerifier("secret")
	raw, err := v.Sign(UserContext{UserID: "u-1", Role: "superuser"}, time.Minute)
	require.NoError(t, err)
	u, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, u.Role)
}

func TestCanActFor(t *testing.T) {
	client := UserContext{UserID: "c-1", Role: model.RoleClient}
	assert.True(t, client.CanActFor("c-1"))
	assert.False(t, client.CanActFor("c-2"))
	assert.True(t, UserContext{UserID: "a-1", Role: model.RoleAdmin}.CanActFor("c-2"))
	assert.False(t, UserContext{}.CanActFor(""))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier("secret")

	r := gin.New()
	r.GET("/me", GinMiddleware(v), func(c *gin.Context) {
		u, _ := GetUser(c.Request.Context())
		c.String(http.StatusOK, u.UserID)
	})
	r.GET("/admin", GinMiddleware(v), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	raw, err := v.Sign(UserContext{UserID: "c-1", Role: model.RoleClient}, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnaryInterceptor(t *testing.T) {
	v := NewVerifier("secret")
	interceptor := UnaryInterceptor(v)
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		u, _ := GetUser(ctx)
		return u.UserID, nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/chezflora.jobs.v1.JobService/RunJob"}

	_, err := interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	raw, err := v.Sign(UserContext{UserID: "a-1", Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+raw))
	out, err := interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "a-1", out)

	health := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	_, err = interceptor(context.Background(), nil, health, handler)
	assert.NoError(t, err)
}

func TestGetUserFromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-user-id", "u-9", "x-user-role", "admin"))
	u, ok := GetUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-9", u.UserID)
	assert.True(t, u.IsAdmin())
}
