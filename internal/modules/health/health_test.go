package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(p Pinger, sched *cron.Scheduler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), p, sched, func(c *gin.Context) { c.Next() })
	return r
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	sched := cron.New()

	w := get(newRouter(nil, sched), http.MethodGet, "/api/v1/health")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "disabled", body["redis"])

	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	w = get(newRouter(down, sched), http.MethodGet, "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}

func TestCronRoutes(t *testing.T) {
	sched := cron.New()
	require.NoError(t, sched.Register(cron.Job{
		Name:     "remote-status",
		Interval: time.Hour,
		Fn:       func(context.Context) error { return nil },
	}))
	r := newRouter(nil, sched)

	w := get(r, http.MethodGet, "/api/v1/health/cron")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remote-status"`)

	w = get(r, http.MethodPost, "/api/v1/health/cron/remote-status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fulfill"`)

	w = get(r, http.MethodPost, "/api/v1/health/cron/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
