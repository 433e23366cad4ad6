package status

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/pkg/cron"
	"github.com/mx-space/feedguard/internal/pkg/response"
)

type statusResponse struct {
	Status
	Job *cron.ListItem `json:"job,omitempty"`
}

type Handler struct {
	monitor   *Monitor
	scheduler *cron.Scheduler
}

func NewHandler(monitor *Monitor, scheduler *cron.Scheduler) *Handler {
	return &Handler{monitor: monitor, scheduler: scheduler}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", h.get)
}

func (h *Handler) get(c *gin.Context) {
	out := statusResponse{Status: h.monitor.Current()}
	if h.scheduler != nil {
		if job, err := h.scheduler.Get(JobName); err == nil {
			out.Job = job
		}
	}
	response.OK(c, out)
}
