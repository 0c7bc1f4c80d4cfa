package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/auth"
)

func newAuthRouter(t *testing.T, jwtService *auth.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetInt64(ContextUserID),
			"role":   c.MustGet(ContextRoleType),
		})
	})
	r.DELETE("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/staff", m.JWTAuth(), m.RoleRequired(models.RoleAdmin, models.RoleTeacher), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/unguarded", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func testJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "materias.test"})
}

func tokenFor(t *testing.T, s *auth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := s.GenerateAccessToken(&models.User{ID: 7, Email: "user@school.mx", RoleType: role})
	require.NoError(t, err)
	return token
}

func serve(r *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwtService := testJWT()
	r := newAuthRouter(t, jwtService)
	token := tokenFor(t, jwtService, models.RoleTeacher)

	t.Run("bearer token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userID":7,"role":"TEACHER"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("raw token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_008")
	})

	t.Run("bad format", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := auth.NewJWTService(auth.JWTConfig{SecretKey: "another-secret", AccessTokenExp: time.Hour})
		w := serve(r, http.MethodGet, "/me", "Bearer "+tokenFor(t, other, models.RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_005")
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: -time.Minute})
		w := serve(r, http.MethodGet, "/me", "Bearer "+tokenFor(t, expired, models.RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_006")
	})
}

func TestRoleRequired(t *testing.T) {
	jwtService := testJWT()
	r := newAuthRouter(t, jwtService)

	tests := []struct {
		path string
		role models.RoleType
		want int
	}{
		{"/admin", models.RoleAdmin, http.StatusNoContent},
		{"/admin", models.RoleTeacher, http.StatusForbidden},
		{"/admin", models.RoleStudent, http.StatusForbidden},
		{"/staff", models.RoleTeacher, http.StatusNoContent},
		{"/staff", models.RoleStudent, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.path+" as "+string(tt.role), func(t *testing.T) {
			method := http.MethodGet
			if tt.path == "/admin" {
				method = http.MethodDelete
			}
			w := serve(r, method, tt.path, "Bearer "+tokenFor(t, jwtService, tt.role))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := serve(r, http.MethodGet, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID_ReusesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
