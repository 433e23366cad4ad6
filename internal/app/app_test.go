package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/config"
	"github.com/mx-space/feedguard/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, secret string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = secret
	a, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func serve(a *App, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func TestRoutesWithoutRedis(t *testing.T) {
	a := newTestApp(t, "")

	w := serve(a, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)

	w = serve(a, http.MethodGet, "/api/v1/stats", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"posts_analyzed":0`)

	w = serve(a, http.MethodGet, "/api/v1/lexicon", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(a, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(a, http.MethodDelete, "/api/v1/stats", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDetectThroughRouter(t *testing.T) {
	a := newTestApp(t, "")

	body := `{"id":"urn:1","text":"Excited to announce that I am thrilled to share this game-changer! #AI #Growth #Leadership"}`
	w := serve(a, http.MethodPost, "/api/v1/detect", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"analyzed":true`)

	w = serve(a, http.MethodGet, "/api/v1/stats", "", "")
	assert.Contains(t, w.Body.String(), `"posts_analyzed":1`)
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	a := newTestApp(t, "")
	w := serve(a, http.MethodGet, "/api/v1/settings", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesWithToken(t *testing.T) {
	// saving a key triggers a status probe; keep it off the network
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.JWTSecret = "s3cret"
	cfg.Remote.Endpoint = upstream.URL
	a, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	signer, err := jwt.NewSigner("s3cret")
	require.NoError(t, err)
	token, err := signer.Sign("admin", jwt.RoleAdmin, 0)
	require.NoError(t, err)

	w := serve(a, http.MethodPatch, "/api/v1/settings", `{"api_key":"abcd1234wxyz"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abcd********wxyz")

	w = serve(a, http.MethodGet, "/api/v1/settings", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "abcd1234wxyz")
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern, host string
		want          bool
	}{
		{"www.linkedin.com", "www.linkedin.com", true},
		{"*.linkedin.com", "www.linkedin.com", true},
		{"*.linkedin.com", "linkedin.com.evil.io", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "localhostx:1", false},
		{"example.com", "www.example.com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchOriginPattern(tc.pattern, tc.host), "%s vs %s", tc.pattern, tc.host)
	}
	assert.Equal(t, "www.linkedin.com", extractOriginHost("https://www.linkedin.com"))
	assert.Equal(t, "not a url", extractOriginHost("not a url"))
}

func TestCORSRestrictsOriginsOutsideDevelopment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(newCORS([]string{"https://*.linkedin.com"}, false))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://www.linkedin.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://www.linkedin.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.io")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
