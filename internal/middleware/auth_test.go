package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuth(parser), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSubject(c))
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	signer, err := jwt.NewSigner("secret")
	require.NoError(t, err)
	admin, err := signer.Sign("ops", jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)
	reader, err := signer.Sign("viewer", "reader", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"non admin", "Bearer " + reader, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
		{"admin without prefix", admin, http.StatusOK},
	}
	r := newAuthRouter(signer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ops", w.Body.String())
			}
		})
	}
}

func TestAdminAuthWithoutSigner(t *testing.T) {
	r := newAuthRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
