package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret, revoked)
	return router, middleware
}

func generateTestTokens(t *testing.T, userID uint, email, role string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(
		userID,
		email,
		role,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func serve(router *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestTokens(t, 1, "agent@example.com", "agent").AccessToken

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		tokenID, ttl, ok := GetToken(c)

		assert.Equal(t, uint(1), userID)
		assert.Equal(t, "agent@example.com", email)
		assert.Equal(t, model.RoleAgent, role)
		assert.True(t, ok)
		assert.NotEmpty(t, tokenID)
		assert.Greater(t, ttl, time.Duration(0))

		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := serve(router, "/test", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestTokens(t, 1, "admin@example.com", "admin").AccessToken

	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "/ws?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := serve(router, "/test", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthMiddleware_Authenticate_InvalidFormat(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "Missing Bearer prefix", header: "invalid-token"},
		{name: "Wrong prefix", header: "Basic token123"},
		{name: "Empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, "/test", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := serve(router, "/test", "Bearer invalid.jwt.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthMiddleware_Authenticate_RefreshTokenRejected(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	refresh := generateTestTokens(t, 1, "agent@example.com", "agent").RefreshToken

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "/test", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	tokens := generateTestTokens(t, 1, "agent@example.com", "agent")
	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	router, authMiddleware := setupMiddlewareTest(&fakeRevocations{revoked: map[string]bool{claims.ID: true}})
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "/test", "Bearer "+tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REVOKED")
}

func TestAuthMiddleware_Authenticate_BlacklistDown(t *testing.T) {
	token := generateTestTokens(t, 1, "agent@example.com", "agent").AccessToken

	router, authMiddleware := setupMiddlewareTest(&fakeRevocations{err: errors.New("connection refused")})
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "/test", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
		},
	)
	router.GET("/console",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleAdmin, model.RoleAgent),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "access granted"})
		},
	)

	tests := []struct {
		name           string
		path           string
		role           string
		expectedStatus int
	}{
		{"admin on admin route", "/admin", "admin", http.StatusOK},
		{"agent on admin route", "/admin", "agent", http.StatusForbidden},
		{"admin on shared route", "/console", "admin", http.StatusOK},
		{"agent on shared route", "/console", "agent", http.StatusOK},
		{"unknown role on shared route", "/console", "applicant", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := generateTestTokens(t, 1, "test@example.com", tt.role).AccessToken
			w := serve(router, tt.path, "Bearer "+token)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Insufficient permissions")
			}
		})
	}
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, exists := GetUserID(c)
	assert.False(t, exists)
	_, exists = GetUserEmail(c)
	assert.False(t, exists)
	_, exists = GetUserRole(c)
	assert.False(t, exists)
	_, _, exists = GetToken(c)
	assert.False(t, exists)

	c.Set(UserIDKey, uint(123))
	c.Set(UserEmailKey, "test@example.com")
	c.Set(UserRoleKey, model.RoleAdmin)

	userID, _ := GetUserID(c)
	email, _ := GetUserEmail(c)
	role, _ := GetUserRole(c)
	assert.Equal(t, uint(123), userID)
	assert.Equal(t, "test@example.com", email)
	assert.Equal(t, model.RoleAdmin, role)
}
