package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), pass)
	return r
}

func TestHandlerGetMasksKey(t *testing.T) {
	svc := NewService(nil, Defaults(), nil)
	_, err := svc.Patch(context.Background(), Patch{APIKey: strPtr("AIzaSyD-0123456789wxyz")})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AIza********wxyz", body.APIKey)
	assert.True(t, body.AutoDetect)
}

func TestHandlerPatch(t *testing.T) {
	svc := NewService(nil, Defaults(), nil)
	r := newTestRouter(svc)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"toggle auto detect", `{"auto_detect":false}`, http.StatusOK},
		{"empty patch", `{}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown provider", `{"provider":"cohere"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/settings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.False(t, svc.AutoDetect())
}
