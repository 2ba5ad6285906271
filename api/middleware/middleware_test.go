package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://scores.example"}))
	r.OPTIONS("/pieces", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodOptions, "/pieces", nil)
	req.Header.Set("Origin", "https://scores.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://scores.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestJwtAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "s3cret"
	r := gin.New()
	r.DELETE("/pieces", JwtAuthMiddleware(secret), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	valid, err := CreateAdminToken(secret, "ops", jwt.NewNumericDate(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	expired, err := CreateAdminToken(secret, "ops", jwt.NewNumericDate(time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	wrongKey, err := CreateAdminToken("other", "ops", nil)
	require.NoError(t, err)
	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &AdminClaims{Role: "reader"}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"not admin", "Bearer " + notAdmin, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/pieces", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
