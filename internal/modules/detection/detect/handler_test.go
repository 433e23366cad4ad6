package detect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/modules/detection/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct{ calls int }

func (s *stubRemote) ClassifyRemote(ctx context.Context, text string, creds remote.Credentials) bool {
	s.calls++
	return true
}

type stubSettings struct{ creds remote.Credentials }

func (s stubSettings) Credentials() remote.Credentials { return s.creds }
func (s stubSettings) AutoDetect() bool                { return true }

type stubProber struct{ got remote.Credentials }

func (p *stubProber) Probe(ctx context.Context, creds remote.Credentials) remote.ProbeResult {
	p.got = creds
	if creds.APIKey == "" {
		return remote.ProbeResult{Message: "API key required"}
	}
	return remote.ProbeResult{Success: true, Message: "connection successful"}
}

type fixture struct {
	router *gin.Engine
	remote *stubRemote
	prober *stubProber
}

func newFixture(authMW gin.HandlerFunc) *fixture {
	gin.SetMode(gin.TestMode)
	settings := stubSettings{creds: remote.Credentials{APIKey: "stored", Endpoint: "https://x"}}
	r := &stubRemote{}
	coord := coordinator.New(nil, r, settings, nil, coordinator.Options{})
	prober := &stubProber{}

	engine := gin.New()
	NewHandler(NewService(coord, nil, prober, settings)).RegisterRoutes(engine.Group("/api/v1"), authMW)
	return &fixture{router: engine, remote: r, prober: prober}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func pass(c *gin.Context) { c.Next() }

func TestDetect(t *testing.T) {
	f := newFixture(pass)

	w := f.do(t, http.MethodPost, "/api/v1/detect", `{"text":"Had coffee with my old coworker yesterday, gotta say it was awesome catching up!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["analyzed"])
	assert.Equal(t, string(detection.HumanWritten), body["verdict"])
	assert.Equal(t, "heuristic", body["stage"])
	assert.Equal(t, "personal_details", body["rule"])

	w = f.do(t, http.MethodPost, "/api/v1/detect", `{"text":"The quarterly report covers revenue across all regions and outlines the plan for the next quarter."}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(detection.AIGenerated), body["verdict"])
	assert.Equal(t, "remote", body["stage"])
	assert.Equal(t, 1, f.remote.calls)
}

func TestDetectShortText(t *testing.T) {
	f := newFixture(pass)
	w := f.do(t, http.MethodPost, "/api/v1/detect", `{"text":"too short"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"analyzed":false}`, w.Body.String())
}

func TestDetectRequiresText(t *testing.T) {
	f := newFixture(pass)
	w := f.do(t, http.MethodPost, "/api/v1/detect", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":0`)
}

func TestStatsCountsAnalyzedUnits(t *testing.T) {
	f := newFixture(pass)
	for i := 0; i < 3; i++ {
		f.do(t, http.MethodPost, "/api/v1/detect", `{"text":"Had coffee with my old coworker yesterday, gotta say it was awesome catching up!"}`)
	}
	f.do(t, http.MethodPost, "/api/v1/detect", `{"text":"short"}`)

	w := f.do(t, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.PostsAnalyzed)
	assert.NotEmpty(t, stats.SessionID)
}

func TestLexicon(t *testing.T) {
	f := newFixture(pass)
	w := f.do(t, http.MethodGet, "/api/v1/lexicon", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lex LexiconResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lex))
	assert.Equal(t, "default", lex.Name)
	assert.Equal(t, remote.PromptVersion, lex.PromptVersion)
	assert.Contains(t, lex.Profiles, "extended")
}

func TestProbeUsesStoredOrSuppliedCredentials(t *testing.T) {
	f := newFixture(pass)

	w := f.do(t, http.MethodPost, "/api/v1/probe", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stored", f.prober.got.APIKey)

	w = f.do(t, http.MethodPost, "/api/v1/probe", `{"api_key":"override"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "override", f.prober.got.APIKey)
	assert.Equal(t, "https://x", f.prober.got.Endpoint)
	assert.JSONEq(t, `{"success":true,"message":"connection successful"}`, w.Body.String())
}

func TestProbeIsGuarded(t *testing.T) {
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	f := newFixture(deny)
	w := f.do(t, http.MethodPost, "/api/v1/probe", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
