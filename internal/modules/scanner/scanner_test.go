package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/modules/detection"
	"github.com/mx-space/feedguard/internal/modules/detection/coordinator"
	"github.com/mx-space/feedguard/internal/modules/detection/heuristic"
	"github.com/mx-space/feedguard/internal/pkg/taskqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	mu    sync.Mutex
	units []detection.TextUnit
}

func (p *recordingProcessor) Process(ctx context.Context, unit detection.TextUnit) (coordinator.Outcome, bool) {
	p.mu.Lock()
	p.units = append(p.units, unit)
	p.mu.Unlock()
	if !unit.Qualifies(0) {
		return coordinator.Outcome{}, false
	}
	return coordinator.Outcome{ID: unit.ID, Verdict: detection.HumanWritten, Stage: coordinator.StageHeuristic}, true
}

func TestScanOnQueue(t *testing.T) {
	q := taskqueue.New(taskqueue.Options{Workers: 2})
	defer q.Close()
	proc := &recordingProcessor{}
	svc := NewService(proc, q, nil)

	report, err := svc.Scan(context.Background(), strings.NewReader(feedSnapshot))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Units)
	assert.Equal(t, 2, report.Analyzed)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "urn:li:activity:7001", report.Outcomes[0].ID)
	assert.Equal(t, "c-9", report.Outcomes[1].ID)
}

func TestRunInlineWithoutQueue(t *testing.T) {
	proc := &recordingProcessor{}
	svc := NewService(proc, nil, nil)

	report, err := svc.Run(context.Background(), []detection.TextUnit{
		{ID: "a", Text: "Had coffee with my old coworker yesterday"},
		{ID: "b", Text: "too short"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analyzed)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, proc.units, 2)
}

func TestScanSlotReusedByNewPost(t *testing.T) {
	q := taskqueue.New(taskqueue.Options{Workers: 2})
	defer q.Close()
	coord := coordinator.New(heuristic.New(nil), nil, nil, nil, coordinator.Options{})
	svc := NewService(coord, q, nil)
	ctx := context.Background()

	snapshot := func(text string) *strings.Reader {
		return strings.NewReader(`<div class="feed-shared-update-v2"><p>` + text + `</p></div>`)
	}

	report, err := svc.Scan(ctx, snapshot("Had coffee with my old coworker yesterday, gotta say it was awesome!"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analyzed)

	report, err = svc.Scan(ctx, snapshot("Excited to announce that I am thrilled to share my new role today"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analyzed)
	assert.Zero(t, report.Skipped)

	// the first post again is already known
	report, err = svc.Scan(ctx, snapshot("Had coffee with my old coworker yesterday, gotta say it was awesome!"))
	require.NoError(t, err)
	assert.Zero(t, report.Analyzed)
	assert.Equal(t, 1, report.Skipped)

	n, err := coord.Session().Analyzed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestScanHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(&recordingProcessor{}, nil, nil)).RegisterRoutes(r.Group("/api/v1"))

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{"raw html", "text/html", feedSnapshot, http.StatusOK},
		{"json", "application/json", `{"html":"<div class=\"feed-shared-text\"><p>hello</p></div>"}`, http.StatusOK},
		{"json without html", "application/json", `{}`, http.StatusBadRequest},
		{"empty body", "text/html", "   ", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
